package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/highfiveapp/highfive_backend/internal/service/commission"
)

type CommissionHandler struct {
	commissions commission.Service
	rec         *Recorder
}

func NewCommissionHandler(commissions commission.Service, rec *Recorder) *CommissionHandler {
	return &CommissionHandler{commissions: commissions, rec: rec}
}

func (h *CommissionHandler) Sync(c fiber.Ctx) error {
	log := h.rec.Start(c, "commission", "sync")

	var in commission.Input
	if err := c.Bind().Body(&in); err != nil {
		h.rec.Fail(c, log, err)
		return badRequest(c, "malformed payload")
	}

	rule, wasCreated, err := h.commissions.Sync(c.Context(), in)
	if err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, rule.ExternalID, rule.ID, rule)
	if wasCreated {
		return created(c, rule)
	}
	return ok(c, rule)
}

func (h *CommissionHandler) Delete(c fiber.Ctx) error {
	log := h.rec.Start(c, "commission", "delete")

	externalID := c.Params("id")
	if err := h.commissions.Delete(c.Context(), externalID); err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, externalID, 0, fiber.Map{"deleted": externalID})
	return ok(c, fiber.Map{"deleted": externalID})
}

func (h *CommissionHandler) ListByUnit(c fiber.Ctx) error {
	unitID := c.Query("unit_id")
	if unitID == "" {
		return badRequest(c, "unit_id query parameter is required")
	}

	rules, err := h.commissions.ListByUnit(c.Context(), unitID)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, rules)
}

func (h *CommissionHandler) Active(c fiber.Ctx) error {
	unitID := c.Query("unit_id")
	if unitID == "" {
		return badRequest(c, "unit_id query parameter is required")
	}

	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(c, "date must be YYYY-MM-DD")
		}
		date = parsed
	}

	rule, err := h.commissions.ActiveForDate(c.Context(), unitID, date)
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, rule)
}
