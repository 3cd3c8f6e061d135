package app

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/highfiveapp/highfive_backend/config"
	"github.com/highfiveapp/highfive_backend/internal/model"
	"github.com/highfiveapp/highfive_backend/internal/store"
	"github.com/highfiveapp/highfive_backend/pkg/database"
	"github.com/highfiveapp/highfive_backend/pkg/logs"
	"github.com/highfiveapp/highfive_backend/pkg/observability"
	redispkg "github.com/highfiveapp/highfive_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideDatabase),
	fx.Provide(ProvideStores),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideOTel),
)

func ProvideLogger(cfg *config.Config) *slog.Logger {
	return logs.New(cfg)
}

func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := database.New(cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.Migrations.AutoMigrate {
		if err := db.AutoMigrate(model.All()...); err != nil {
			return nil, err
		}
		logger.Info("database schema migrated")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

func ProvideStores(db *gorm.DB, cfg *config.Config, logger *slog.Logger) (*store.Stores, error) {
	stores := store.New(db)

	// Make sure the configured tax rates exist before the first
	// booking confirmation comes in.
	if cfg.Database.Migrations.AutoMigrate {
		if err := stores.Taxes.SeedDefaults(context.Background(), cfg.Billing.DefaultTaxPercent); err != nil {
			return nil, err
		}
		logger.Info("default taxes seeded", "percent", cfg.Billing.DefaultTaxPercent)
	}
	return stores, nil
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.New(cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Server.Environment,
		OTLPEndpoint:   cfg.Observability.Tracing.OTLPEndpoint,
		OTLPInsecure:   cfg.Observability.Tracing.OTLPInsecure,
		SamplingRate:   cfg.Observability.Tracing.SamplingRate,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
