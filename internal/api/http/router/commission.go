package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/highfiveapp/highfive_backend/internal/api/http/handler"
)

func (r *Router) registerCommissionRoutes(api fiber.Router, ch *handler.CommissionHandler) {
	commissions := api.Group("/commissions")

	commissions.Post("/", ch.Sync)
	commissions.Get("/", ch.ListByUnit)
	commissions.Get("/active", ch.Active)
	commissions.Delete("/:id", ch.Delete)
}
