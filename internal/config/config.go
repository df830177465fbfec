// Package config loads the process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is built once in main and passed to constructors.
type Config struct {
	TiendaNubeURL       string
	TiendaNubeToken     string
	TiendaNubeUserAgent string

	LitersPerProduct int64

	RedisAddr string
	LedgerTTL time.Duration

	ServiceName         string
	OTLPTraceEndpoint   string
	OTLPMetricsEndpoint string
	LogLevel            slog.Level

	Port string

	// Warnings collects settings that were invalid and replaced by their
	// default. Load does not log them since the logger may not exist yet.
	Warnings []string
}

const (
	defaultLitersPerProduct = 1
	defaultLedgerTTL        = 720 * time.Hour
	defaultPort             = "8080"
)

// Load reads the environment. serviceName is used when OTEL_SERVICE_NAME is
// unset.
func Load(serviceName string) Config {
	cfg := Config{
		TiendaNubeURL:       strings.TrimSpace(os.Getenv("TIENDA_NUBE_EXTERNAL_API_URL")),
		TiendaNubeToken:     strings.TrimSpace(os.Getenv("TIENDA_NUBE_AUTH_TOKEN")),
		TiendaNubeUserAgent: strings.TrimSpace(os.Getenv("TIENDA_NUBE_USER_AGENT")),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		ServiceName:         getEnv("OTEL_SERVICE_NAME", serviceName),
		OTLPTraceEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPMetricsEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT"),
		Port:                getEnv("PORT", defaultPort),
	}

	cfg.LitersPerProduct = defaultLitersPerProduct
	if raw := os.Getenv("LITERS_PER_PRODUCT"); raw != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || n <= 0 {
			cfg.warn("LITERS_PER_PRODUCT=%q is not a positive integer, using %d", raw, defaultLitersPerProduct)
		} else {
			cfg.LitersPerProduct = n
		}
	}

	cfg.LedgerTTL = defaultLedgerTTL
	if raw := os.Getenv("LEDGER_TTL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			cfg.warn("LEDGER_TTL=%q is not a positive duration, using %s", raw, defaultLedgerTTL)
		} else {
			cfg.LedgerTTL = d
		}
	}

	cfg.LogLevel = slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			cfg.LogLevel = slog.LevelInfo
			cfg.warn("LOG_LEVEL=%q is not a log level, using info", raw)
		}
	}

	return cfg
}

// Validate reports every missing Tienda Nube setting.
func (c Config) Validate() error {
	var errs []error
	if c.TiendaNubeURL == "" {
		errs = append(errs, errors.New("TIENDA_NUBE_EXTERNAL_API_URL is required"))
	}
	if c.TiendaNubeToken == "" {
		errs = append(errs, errors.New("TIENDA_NUBE_AUTH_TOKEN is required"))
	}
	if c.TiendaNubeUserAgent == "" {
		errs = append(errs, errors.New("TIENDA_NUBE_USER_AGENT is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LedgerEnabled reports whether duplicate order detection is configured.
func (c Config) LedgerEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
