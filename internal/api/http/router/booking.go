package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/highfiveapp/highfive_backend/internal/api/http/handler"
)

func (r *Router) registerBookingRoutes(api fiber.Router, bh *handler.BookingHandler) {
	bookings := api.Group("/bookings")

	bookings.Post("/", bh.Sync)

	b := bookings.Group("/:id")
	b.Get("/", bh.Get)
	b.Post("/payment", bh.RegisterPayment)
	b.Post("/refund", bh.Refund)
	b.Post("/cancel", bh.Cancel)
	b.Post("/status", bh.SetStatus)
}
