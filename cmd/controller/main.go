package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/muhsinh/smartbrain/internal/api"
	"github.com/muhsinh/smartbrain/internal/config"
	"github.com/muhsinh/smartbrain/internal/controller"
	"github.com/muhsinh/smartbrain/internal/logging"
	"github.com/muhsinh/smartbrain/internal/telemetry"
)

func main() {
	lg, logFile := logging.Init()
	defer logFile.Close()

	cfg, err := config.FromEnv()
	if err != nil {
		lg.Error("config error", "error", err)
		os.Exit(1)
	}
	lg.Info("controller starting",
		slog.String("bind", cfg.HTTPBind),
		slog.String("telemetry", cfg.TelemetryMode),
		slog.Duration("data_tick", cfg.DataTickInterval))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rec telemetry.Recorder
	pub, err := newPublisher(cfg)
	if err != nil {
		lg.Error("telemetry setup failed", "error", err)
		os.Exit(1)
	}
	if pub != nil {
		fwd := telemetry.NewForwarder(pub, lg, 256)
		go fwd.Run(ctx)
		rec = fwd
	}

	ctrl := controller.New(controller.Options{
		Logger:              lg,
		Recorder:            rec,
		DataTickInterval:    cfg.DataTickInterval,
		SessionTickInterval: cfg.SessionTickInterval,
		HandshakeDelay:      cfg.HandshakeDelay,
		HistoryCapacity:     cfg.HistoryCapacity,
		Seed:                cfg.Seed,
	})

	srv := api.NewServer(cfg, lg, ctrl)
	go func() {
		if err := srv.Start(); !errors.Is(err, http.ErrServerClosed) {
			lg.Error("http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs
	lg.Info("shutdown requested")

	_ = ctrl.Disconnect()
	cancel()
	shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Stop(shutdownCtx)
	lg.Info("bye")
}

// newPublisher builds the telemetry publisher selected by config, or nil
// when telemetry is off.
func newPublisher(cfg *config.AppConfig) (telemetry.Publisher, error) {
	switch cfg.TelemetryMode {
	case "kafka":
		return telemetry.NewKafkaPublisher(cfg.KafkaBrokers, cfg.PointsTopic, cfg.EventsTopic), nil
	case "mqtt":
		return telemetry.NewMQTTPublisher(cfg.MQTTBroker, cfg.MQTTTopicPref, "smartbrain-"+uuid.NewString())
	default:
		return nil, nil
	}
}
