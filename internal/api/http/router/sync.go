package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/highfiveapp/highfive_backend/internal/api/http/handler"
)

func (r *Router) registerSyncRoutes(api fiber.Router, sh *handler.SyncHandler) {
	api.Post("/partners", sh.SyncPartner)
	api.Post("/customers", sh.SyncCustomer)
	api.Post("/branches", sh.SyncBranch)
	api.Post("/units", sh.SyncUnit)
	api.Post("/services", sh.SyncService)
}
