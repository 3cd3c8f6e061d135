package router

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/highfiveapp/highfive_backend/config"
	"github.com/highfiveapp/highfive_backend/internal/api/http/handler"
	"github.com/highfiveapp/highfive_backend/internal/api/http/middleware"
	"github.com/highfiveapp/highfive_backend/internal/service/booking"
	"github.com/highfiveapp/highfive_backend/internal/service/branch"
	"github.com/highfiveapp/highfive_backend/internal/service/catalog"
	"github.com/highfiveapp/highfive_backend/internal/service/commission"
	"github.com/highfiveapp/highfive_backend/internal/service/customer"
	"github.com/highfiveapp/highfive_backend/internal/service/partner"
	"github.com/highfiveapp/highfive_backend/internal/store"
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg           *config.Config
	Redis         *redis.Client
	Stores        *store.Stores
	Logger        *slog.Logger
	PartnerSvc    partner.Service
	CustomerSvc   customer.Service
	BranchSvc     branch.Service
	CatalogSvc    catalog.Service
	CommissionSvc commission.Service
	BookingSvc    booking.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

func (r *Router) Register(app *fiber.App) {
	r.registerSystemRoutes(app)

	rec := handler.NewRecorder(r.p.Stores, r.p.Logger)
	syncH := handler.NewSyncHandler(r.p.PartnerSvc, r.p.CustomerSvc, r.p.BranchSvc, r.p.CatalogSvc, rec)
	commissionH := handler.NewCommissionHandler(r.p.CommissionSvc, rec)
	bookingH := handler.NewBookingHandler(r.p.BookingSvc, rec)

	// Every webhook endpoint sits behind API-key auth.
	api := app.Group("/api/v1", middleware.APIKeyAuth(r.p.Stores.APIKeys, r.p.Logger))

	r.registerSyncRoutes(api, syncH)
	r.registerCommissionRoutes(api, commissionH)
	r.registerBookingRoutes(api, bookingH)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			sqlDB, err := r.p.Stores.DB().DB()
			if err != nil {
				return false
			}
			return sqlDB.PingContext(c.Context()) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
