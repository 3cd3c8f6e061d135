package app

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/highfiveapp/highfive_backend/config"
	"github.com/highfiveapp/highfive_backend/internal/service/booking"
	"github.com/highfiveapp/highfive_backend/internal/service/branch"
	"github.com/highfiveapp/highfive_backend/internal/service/catalog"
	"github.com/highfiveapp/highfive_backend/internal/service/commission"
	"github.com/highfiveapp/highfive_backend/internal/service/customer"
	"github.com/highfiveapp/highfive_backend/internal/service/partner"
	"github.com/highfiveapp/highfive_backend/internal/store"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvidePartnerService,
		ProvideCustomerService,
		ProvideBranchService,
		ProvideCommissionService,
		ProvideCatalogService,
		ProvideBookingService,
	),
)

func ProvidePartnerService(stores *store.Stores, cfg *config.Config, logger *slog.Logger) partner.Service {
	return partner.New(stores, cfg.Billing.DefaultCountry, logger)
}

func ProvideCustomerService(stores *store.Stores, cfg *config.Config, logger *slog.Logger) customer.Service {
	return customer.New(stores, cfg.Billing.DefaultCountry, logger)
}

func ProvideBranchService(stores *store.Stores, logger *slog.Logger) branch.Service {
	return branch.New(stores, logger)
}

func ProvideCommissionService(stores *store.Stores, rdb *redis.Client, cfg *config.Config, logger *slog.Logger) commission.Service {
	ttl := time.Duration(cfg.API.ActiveRuleCacheTTLMinutes) * time.Minute
	return commission.New(stores, rdb, ttl, logger)
}

func ProvideCatalogService(stores *store.Stores, commissions commission.Service, logger *slog.Logger) catalog.Service {
	return catalog.New(stores, commissions, logger)
}

func ProvideBookingService(stores *store.Stores, cfg *config.Config, logger *slog.Logger) booking.Service {
	return booking.New(stores, cfg.Billing.DefaultTaxPercent, logger)
}
