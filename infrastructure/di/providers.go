package di

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"orgapi/application/ports"
	"orgapi/application/services"
	"orgapi/infrastructure/cache"
	"orgapi/infrastructure/config"
	"orgapi/infrastructure/persistence/postgres"
	"orgapi/interfaces/http/rest"
	"orgapi/interfaces/http/rest/handlers"
	"orgapi/pkg/errors"
	"orgapi/pkg/httpcache"
)

// BuildContainer registers every application component. Construction is
// lazy; nothing connects to Postgres or Redis until first resolved.
func BuildContainer(cfg *config.Config) *Container {
	c := New()

	Register(c, func(*Container) (*config.Config, error) {
		return cfg, nil
	})

	Register(c, func(c *Container) (*zap.Logger, error) {
		return newLogger(MustResolve[*config.Config](c))
	})

	Register(c, func(c *Container) (*pgxpool.Pool, error) {
		cfg := MustResolve[*config.Config](c)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return postgres.Connect(ctx, cfg.Database)
	})

	registerRepositories(c)
	registerCaches(c)
	registerServices(c)
	registerHTTP(c)

	return c
}

func registerRepositories(c *Container) {
	Register(c, func(c *Container) (*postgres.OrganizationRepository, error) {
		return postgres.NewOrganizationRepository(MustResolve[*pgxpool.Pool](c)), nil
	})
	Register(c, func(c *Container) (*postgres.UserRepository, error) {
		return postgres.NewUserRepository(MustResolve[*pgxpool.Pool](c)), nil
	})
	Register(c, func(c *Container) (*postgres.OrderRepository, error) {
		return postgres.NewOrderRepository(MustResolve[*pgxpool.Pool](c)), nil
	})

	Bind[ports.OrganizationRepository, *postgres.OrganizationRepository](c)
	Bind[ports.UserRepository, *postgres.UserRepository](c)
	Bind[ports.OrderRepository, *postgres.OrderRepository](c)
}

func registerCaches(c *Container) {
	// The shared Cache port goes to Redis when configured, otherwise to
	// the in-process store.
	Register(c, func(c *Container) (ports.Cache, error) {
		cfg := MustResolve[*config.Config](c)
		logger := MustResolve[*zap.Logger](c)

		if cfg.Redis.Enabled() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			client, err := cache.NewRedis(ctx, cfg.Redis)
			if err != nil {
				return nil, fmt.Errorf("connecting to redis: %w", err)
			}
			logger.Info("cache backend ready", zap.String("backend", "redis"), zap.String("addr", cfg.Redis.Addr()))
			return client, nil
		}

		logger.Info("cache backend ready", zap.String("backend", "memory"))
		return cache.NewMemory(), nil
	})

	Register(c, func(*Container) (*httpcache.Store, error) {
		return httpcache.NewStore(httpcache.DefaultCapacity, httpcache.DefaultTTL), nil
	})
}

func registerServices(c *Container) {
	Register(c, func(c *Container) (*services.OrganizationService, error) {
		return services.NewOrganizationService(
			MustResolve[ports.OrganizationRepository](c),
			MustResolve[*zap.Logger](c),
		), nil
	})
	Register(c, func(c *Container) (*services.UserService, error) {
		return services.NewUserService(
			MustResolve[ports.UserRepository](c),
			MustResolve[ports.OrganizationRepository](c),
			MustResolve[*zap.Logger](c),
		), nil
	})
	Register(c, func(c *Container) (*services.OrderService, error) {
		return services.NewOrderService(
			MustResolve[ports.OrderRepository](c),
			MustResolve[ports.UserRepository](c),
			MustResolve[*zap.Logger](c),
		), nil
	})
}

func registerHTTP(c *Container) {
	Register(c, func(c *Container) (*errors.ErrorHandler, error) {
		cfg := MustResolve[*config.Config](c)
		return errors.NewErrorHandler(MustResolve[*zap.Logger](c), cfg.IsDevelopment()), nil
	})

	Register(c, func(c *Container) (*rest.Registry, error) {
		logger := MustResolve[*zap.Logger](c)

		reg := rest.NewRegistry()
		reg.Register(handlers.NewOrganizationHandler(MustResolve[*services.OrganizationService](c), logger))
		reg.Register(handlers.NewUserHandler(MustResolve[*services.UserService](c), logger))
		reg.Register(handlers.NewOrderHandler(MustResolve[*services.OrderService](c), logger))
		return reg, nil
	})

	Register(c, func(c *Container) (*rest.Router, error) {
		pool := MustResolve[*pgxpool.Pool](c)
		store := MustResolve[ports.Cache](c)

		checks := []rest.HealthCheck{
			{
				Name: "postgres",
				Probe: func(ctx context.Context) error {
					return pool.Ping(ctx)
				},
			},
			{
				Name:  "cache",
				Probe: cacheProbe(store),
			},
		}

		return rest.NewRouter(
			MustResolve[*rest.Registry](c),
			MustResolve[*errors.ErrorHandler](c),
			MustResolve[*httpcache.Store](c),
			MustResolve[*config.Config](c),
			MustResolve[*zap.Logger](c),
			checks...,
		), nil
	})
}

// cacheProbe verifies the shared cache with a write/read round trip.
func cacheProbe(store ports.Cache) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		const key = "readiness:probe"
		if err := store.Set(ctx, key, []byte("ok"), 5*time.Second); err != nil {
			return err
		}
		if _, err := store.Get(ctx, key); err != nil {
			return err
		}
		return nil
	}
}

// newLogger builds the process logger from configuration. Development
// gets console output, everything else structured JSON.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.LogLevel, err)
	}

	var zcfg zap.Config
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}
