package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/highfiveapp/highfive_backend/internal/service/branch"
	"github.com/highfiveapp/highfive_backend/internal/service/catalog"
	"github.com/highfiveapp/highfive_backend/internal/service/customer"
	"github.com/highfiveapp/highfive_backend/internal/service/partner"
)

// SyncHandler covers the master-data webhooks: partners, customers,
// branches, units and add-on services.
type SyncHandler struct {
	partners  partner.Service
	customers customer.Service
	branches  branch.Service
	catalog   catalog.Service
	rec       *Recorder
}

func NewSyncHandler(
	partners partner.Service,
	customers customer.Service,
	branches branch.Service,
	cat catalog.Service,
	rec *Recorder,
) *SyncHandler {
	return &SyncHandler{
		partners:  partners,
		customers: customers,
		branches:  branches,
		catalog:   cat,
		rec:       rec,
	}
}

func (h *SyncHandler) SyncPartner(c fiber.Ctx) error {
	log := h.rec.Start(c, "partner", "sync")

	var in partner.Input
	if err := c.Bind().Body(&in); err != nil {
		h.rec.Fail(c, log, err)
		return badRequest(c, "malformed payload")
	}

	record, wasCreated, err := h.partners.Sync(c.Context(), in)
	if err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, record.ExternalID, record.ID, record)
	if wasCreated {
		return created(c, record)
	}
	return ok(c, record)
}

func (h *SyncHandler) SyncCustomer(c fiber.Ctx) error {
	log := h.rec.Start(c, "customer", "sync")

	var in customer.Input
	if err := c.Bind().Body(&in); err != nil {
		h.rec.Fail(c, log, err)
		return badRequest(c, "malformed payload")
	}

	record, wasCreated, err := h.customers.Sync(c.Context(), in)
	if err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, record.ExternalID, record.ID, record)
	if wasCreated {
		return created(c, record)
	}
	return ok(c, record)
}

func (h *SyncHandler) SyncBranch(c fiber.Ctx) error {
	log := h.rec.Start(c, "branch", "sync")

	var in branch.Input
	if err := c.Bind().Body(&in); err != nil {
		h.rec.Fail(c, log, err)
		return badRequest(c, "malformed payload")
	}

	record, wasCreated, err := h.branches.Sync(c.Context(), in)
	if err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, record.ExternalID, record.ID, record)
	if wasCreated {
		return created(c, record)
	}
	return ok(c, record)
}

func (h *SyncHandler) SyncUnit(c fiber.Ctx) error {
	log := h.rec.Start(c, "unit", "sync")

	var in catalog.UnitInput
	if err := c.Bind().Body(&in); err != nil {
		h.rec.Fail(c, log, err)
		return badRequest(c, "malformed payload")
	}

	record, wasCreated, err := h.catalog.SyncUnit(c.Context(), in)
	if err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, record.ExternalID, record.ID, record)
	if wasCreated {
		return created(c, record)
	}
	return ok(c, record)
}

func (h *SyncHandler) SyncService(c fiber.Ctx) error {
	log := h.rec.Start(c, "service", "sync")

	var in catalog.ServiceInput
	if err := c.Bind().Body(&in); err != nil {
		h.rec.Fail(c, log, err)
		return badRequest(c, "malformed payload")
	}

	record, wasCreated, err := h.catalog.SyncService(c.Context(), in)
	if err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, record.ExternalID, record.ID, record)
	if wasCreated {
		return created(c, record)
	}
	return ok(c, record)
}
