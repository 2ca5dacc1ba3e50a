package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	ProdOrigins string `envconfig:"PROD_ORIGINS"`

	// Empty selects the in-memory repositories.
	DBDSN string `envconfig:"DB_DSN"`

	FacilityTimezone   string        `envconfig:"FACILITY_TIMEZONE" default:"UTC"`
	ReservationTimeout time.Duration `envconfig:"RESERVATION_TIMEOUT" default:"5s"`

	// Empty disables event publishing.
	RabbitURL       string `envconfig:"RABBIT_URL"`
	BookingExchange string `envconfig:"BOOKING_EXCHANGE" default:"booking.exchange"`

	// Empty disables trace export.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"sports-booking"`

	// Location is FacilityTimezone resolved.
	Location *time.Location `ignored:"true"`
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == PROD_STRING
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded", "error", err)
	}
	return Parse()
}

// Parse reads configuration from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	loc, err := time.LoadLocation(cfg.FacilityTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid FACILITY_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.ReservationTimeout <= 0 {
		return nil, errors.New("RESERVATION_TIMEOUT must be positive")
	}
	return &cfg, nil
}
