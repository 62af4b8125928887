// Package config loads runtime configuration from environment variables
// with sensible defaults.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds runtime configuration for the controller process.
type AppConfig struct {
	HTTPBind string // address:port for the HTTP command/query surface

	DataTickInterval    time.Duration // fast schedule: one pipeline pass per tick
	SessionTickInterval time.Duration // slow schedule: session clock granularity
	HandshakeDelay      time.Duration // simulated device handshake latency

	HistoryCapacity int   // retained data points for display
	Seed            int64 // RNG seed for the sample generator; 0 = time-based

	TelemetryMode string   // "kafka", "mqtt" or "off"
	KafkaBrokers  []string // bootstrap servers for kafka telemetry
	PointsTopic   string   // topic for per-tick data points
	EventsTopic   string   // topic for lifecycle transitions
	MQTTBroker    string   // broker address for mqtt telemetry
	MQTTTopicPref string   // prefix for mqtt topics: <prefix>points / <prefix>events
}

// FromEnv builds an AppConfig from the environment.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPBind:            getEnv("HTTP_BIND", ":8080"),
		DataTickInterval:    getEnvDuration("DATA_TICK_INTERVAL", 100*time.Millisecond),
		SessionTickInterval: getEnvDuration("SESSION_TICK_INTERVAL", time.Second),
		HandshakeDelay:      getEnvDuration("HANDSHAKE_DELAY", 1500*time.Millisecond),
		HistoryCapacity:     getEnvInt("HISTORY_CAPACITY", 50),
		Seed:                int64(getEnvInt("GENERATOR_SEED", 0)),
		TelemetryMode:       getEnv("TELEMETRY_MODE", "off"),
		KafkaBrokers:        splitAndTrim(os.Getenv("KAFKA_BROKERS"), ","),
		PointsTopic:         getEnv("POINTS_TOPIC", "neuro.points"),
		EventsTopic:         getEnv("EVENTS_TOPIC", "neuro.events"),
		MQTTBroker:          getEnv("MQTT_BROKER", "tcp://localhost:1883"),
		MQTTTopicPref:       getEnv("MQTT_TOPIC_PREFIX", "neuro/"),
	}

	switch cfg.TelemetryMode {
	case "off", "mqtt":
	case "kafka":
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("TELEMETRY_MODE=kafka requires KAFKA_BROKERS (comma-separated)")
		}
	default:
		return nil, errors.New("TELEMETRY_MODE must be one of kafka, mqtt, off")
	}
	if cfg.DataTickInterval <= 0 || cfg.SessionTickInterval <= 0 {
		return nil, errors.New("tick intervals must be positive")
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

func splitAndTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
