package telemetry

import "context"

// NoopPublisher discards all events. Used when telemetry is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishPoint(context.Context, PointEvent) error           { return nil }
func (NoopPublisher) PublishTransition(context.Context, TransitionEvent) error { return nil }
func (NoopPublisher) Close() error                                             { return nil }
