// Package bootstrap builds the liters service from configuration. Every
// binary in cmd/ starts here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jcmexdev/tiendanube-liters/internal/config"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/app"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/domain/entity"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/core/ports"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/infra/adapters/ledger"
	"github.com/jcmexdev/tiendanube-liters/internal/liters/infra/adapters/tiendanube"
	"github.com/jcmexdev/tiendanube-liters/internal/pkg/cache"
	"github.com/jcmexdev/tiendanube-liters/internal/pkg/telemetry"
)

// ShutdownTimeout bounds the flush of telemetry and connections on exit.
const ShutdownTimeout = 5 * time.Second

type Runtime struct {
	Config  config.Config
	Service *app.Service

	closers []func(context.Context) error
}

// Setup loads the configuration, initialises logging and telemetry and wires
// the service. The caller must defer Shutdown.
func Setup(ctx context.Context, serviceName string) (*Runtime, error) {
	cfg := config.Load(serviceName)
	telemetry.InitLogger(cfg.LogLevel)
	for _, warning := range cfg.Warnings {
		slog.Warn("invalid configuration value", "detail", warning)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt := &Runtime{Config: cfg}

	shutdownTracer, err := telemetry.SetupTracer(ctx, cfg.ServiceName, cfg.OTLPTraceEndpoint)
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, shutdownTracer)

	shutdownMeter, err := telemetry.SetupMeter(ctx, cfg.ServiceName, cfg.OTLPMetricsEndpoint)
	if err != nil {
		rt.Shutdown()
		return nil, err
	}
	rt.closers = append(rt.closers, shutdownMeter)

	client, err := tiendanube.NewClient(tiendanube.Config{
		BaseURL:   cfg.TiendaNubeURL,
		Token:     cfg.TiendaNubeToken,
		UserAgent: cfg.TiendaNubeUserAgent,
	})
	if err != nil {
		rt.Shutdown()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	var orderLedger ports.OrderLedger
	if cfg.LedgerEnabled() {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, "liters")
		rt.closers = append(rt.closers, func(context.Context) error { return redisCache.Close() })
		orderLedger = ledger.NewRedis(redisCache, cfg.LedgerTTL)
		slog.Info("order ledger enabled", "redis_addr", cfg.RedisAddr, "ttl", cfg.LedgerTTL.String())
	}

	rt.Service = app.NewService(client, orderLedger, entity.Liters(cfg.LitersPerProduct))
	return rt, nil
}

// Shutdown releases everything Setup opened, in reverse order.
func (rt *Runtime) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
