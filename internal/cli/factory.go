package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/stylist"
	"github.com/aretw0/stylist/internal/adapters/file"
	"github.com/aretw0/stylist/internal/config"
	"github.com/aretw0/stylist/internal/runtime"
	stylisthttp "github.com/aretw0/stylist/pkg/adapters/http"
	"github.com/aretw0/stylist/pkg/adapters/badger"
	"github.com/aretw0/stylist/pkg/adapters/eino"
	"github.com/aretw0/stylist/pkg/adapters/memory"
	"github.com/aretw0/stylist/pkg/adapters/mockai"
	"github.com/aretw0/stylist/pkg/adapters/redis"
	"github.com/aretw0/stylist/pkg/observability"
	"github.com/aretw0/stylist/pkg/persistence/middleware"
	"github.com/aretw0/stylist/pkg/ports"
)

// Runtime bundles the engine with the infrastructure built from configuration.
type Runtime struct {
	Engine  *stylist.Engine
	Metrics *observability.Metrics
	Streams *stylisthttp.StreamManager
	Logger  *slog.Logger

	closers []func() error
}

// Close drains the engine, then releases the backends.
func (rt *Runtime) Close(ctx context.Context) error {
	errs := []error{rt.Engine.Close(ctx)}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}
	return errors.Join(errs...)
}

// Build initializes the engine with the configured store, AI collaborator and hooks.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{
		Metrics: observability.NewMetrics(),
		Streams: stylisthttp.NewStreamManager(),
		Logger:  logger,
	}
	rt.Streams.SetLogger(logger)

	store, locker, closer, err := BuildStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		rt.closers = append(rt.closers, closer)
	}

	replier, err := BuildReplier(ctx, cfg.AI)
	if err != nil {
		rt.closeBackends()
		return nil, err
	}

	opts := []stylist.Option{
		stylist.WithStore(store),
		stylist.WithReplier(replier),
		stylist.WithLogger(logger),
		stylist.WithAdvanceDelay(cfg.Flow.AdvanceDelay),
		stylist.WithLifecycleHooks(observability.Chain(
			observability.LogHooks(logger),
			rt.Metrics.Hooks(),
			rt.Streams.Hooks(),
		)),
	}
	if locker != nil {
		opts = append(opts, stylist.WithLocker(locker))
	}
	if cfg.AI.Model != "" {
		opts = append(opts, stylist.WithModel(cfg.AI.Model))
	}

	rt.Engine = stylist.New(opts...)
	logger.Debug("Engine ready", "store", cfg.Store.Backend, "ai", cfg.AI.Provider, "lock", locker != nil)
	return rt, nil
}

func (rt *Runtime) closeBackends() {
	for _, c := range rt.closers {
		_ = c()
	}
}

// BuildStore opens the configured backend and wraps it with the persistence middleware.
// The closer is nil for backends holding no resources.
func BuildStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (ports.KVStore, ports.DistributedLocker, func() error, error) {
	var (
		store  ports.KVStore
		locker ports.DistributedLocker
		closer func() error
	)

	switch cfg.Backend {
	case "memory":
		store = memory.NewStore()
	case "file":
		store = file.New(cfg.Dir)
	case "badger":
		bs, err := badger.Open(cfg.Dir)
		if err != nil {
			return nil, nil, nil, err
		}
		store, closer = bs, bs.Close
	case "redis":
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redis.WithPrefix(cfg.RedisPrefix),
			redis.WithTTL(cfg.RedisTTL),
		)
		if err := rs.Client().Ping(ctx).Err(); err != nil {
			_ = rs.Close()
			return nil, nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		store, closer = rs, rs.Close
		if cfg.Lock {
			locker = redis.NewLocker(rs.Client(), cfg.RedisPrefix+"lock:")
		}
	default:
		return nil, nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	if cfg.Lock && locker == nil {
		logger.Warn("Distributed lock requires the redis backend, ignoring", "backend", cfg.Backend)
	}

	var mws []middleware.Middleware
	if len(cfg.PIIPatterns) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(runtime.SlotMessages, cfg.PIIPatterns))
	}
	active, fallback, err := cfg.Keys()
	if err != nil {
		if closer != nil {
			_ = closer()
		}
		return nil, nil, nil, err
	}
	if active != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
	}

	return middleware.Chain(store, mws...), locker, closer, nil
}

// BuildReplier selects the AI collaborator.
func BuildReplier(ctx context.Context, cfg config.AIConfig) (ports.Replier, error) {
	switch cfg.Provider {
	case "", "mock":
		return mockai.New(mockai.WithDelay(cfg.MockDelay)), nil
	case "ark":
		r, err := eino.NewArkReplier(ctx, eino.ArkConfig{
			APIKey:  cfg.ArkAPIKey,
			Model:   cfg.Model,
			BaseURL: cfg.ArkBaseURL,
			Region:  cfg.ArkRegion,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create ark replier: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
