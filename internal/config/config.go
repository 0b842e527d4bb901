package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Log output formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string `env:"KAFKA_BROKERS" validate:"required,dive,required"`
	KafkaSourceTopic string   `env:"KAFKA_SOURCE_TOPIC" validate:"required"`
	KafkaSinkTopic   string   `env:"KAFKA_SINK_TOPIC" validate:"required,nefield=KafkaSourceTopic"`
	KafkaGroupID     string   `env:"KAFKA_GROUP_ID" validate:"required"`
	HTTPAddr         string   `env:"HTTP_ADDR" validate:"required"`
	LogLevel         slog.Level
	LogFormat        string        `env:"LOG_FORMAT" validate:"oneof=json text"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT"`

	BatchSize          int
	BatchFlushInterval time.Duration

	// Display settings for the hourly window and day/night icon choice.
	DisplayWindow   int `env:"DISPLAY_WINDOW" validate:"min=1,max=240"`
	DisplayLocation *time.Location

	// Sink circuit breaker.
	BreakerMaxFailures int           `env:"BREAKER_MAX_FAILURES" validate:"min=1"`
	BreakerOpenTimeout time.Duration `env:"BREAKER_OPEN_TIMEOUT" validate:"gt=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first if present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	logLevel, err := parseLogLevel(sharedcfg.EnvOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	displayWindow, err := parseInt("DISPLAY_WINDOW", "24")
	if err != nil {
		return nil, err
	}

	tz := sharedcfg.EnvOrDefault("DISPLAY_TIMEZONE", "Europe/Berlin")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", tz, err)
	}

	maxFailures, err := parseInt("BREAKER_MAX_FAILURES", "5")
	if err != nil {
		return nil, err
	}

	openTimeout, err := parseDuration("BREAKER_OPEN_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-weather-payloads"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "canonical-weather-series"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "weather-series-etl"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           logLevel,
		LogFormat:          strings.ToLower(sharedcfg.EnvOrDefault("LOG_FORMAT", LogFormatJSON)),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		DisplayWindow:      displayWindow,
		DisplayLocation:    loc,
		BreakerMaxFailures: maxFailures,
		BreakerOpenTimeout: openTimeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports the offending variables by name.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func parseInt(key, def string) (int, error) {
	s := sharedcfg.EnvOrDefault(key, def)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	s := sharedcfg.EnvOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}
