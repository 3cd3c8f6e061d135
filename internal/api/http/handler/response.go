package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/highfiveapp/highfive_backend/internal/api/http/middleware"
)

// Every webhook response carries the envelope: success flag, request
// ID, processing time, and either data or error + error_type.

func envelope(c fiber.Ctx, status int, body fiber.Map) error {
	if meta, found := middleware.RequestMetaFromFiber(c); found {
		body["request_id"] = meta.RequestID
		body["processing_time_ms"] = time.Since(meta.RequestedAt).Milliseconds()
	}
	return c.Status(status).JSON(body)
}

func ok(c fiber.Ctx, data any) error {
	return envelope(c, fiber.StatusOK, fiber.Map{"success": true, "data": data})
}

func created(c fiber.Ctx, data any) error {
	return envelope(c, fiber.StatusCreated, fiber.Map{"success": true, "data": data})
}

func failure(c fiber.Ctx, status int, msg, errType string) error {
	return envelope(c, status, fiber.Map{"success": false, "error": msg, "error_type": errType})
}

func badRequest(c fiber.Ctx, msg string) error {
	return failure(c, fiber.StatusBadRequest, msg, errTypeValidation)
}
