package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/highfiveapp/highfive_backend/internal/service/booking"
)

type BookingHandler struct {
	bookings booking.Service
	rec      *Recorder
}

func NewBookingHandler(bookings booking.Service, rec *Recorder) *BookingHandler {
	return &BookingHandler{bookings: bookings, rec: rec}
}

func (h *BookingHandler) Sync(c fiber.Ctx) error {
	log := h.rec.Start(c, "booking", "sync")

	var in booking.Input
	if err := c.Bind().Body(&in); err != nil {
		h.rec.Fail(c, log, err)
		return badRequest(c, "malformed payload")
	}

	record, err := h.bookings.Sync(c.Context(), in)
	if err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, record.ExternalID, record.ID, record)
	return ok(c, record)
}

func (h *BookingHandler) Get(c fiber.Ctx) error {
	record, err := h.bookings.Get(c.Context(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return ok(c, record)
}

func (h *BookingHandler) RegisterPayment(c fiber.Ctx) error {
	log := h.rec.Start(c, "booking", "payment")

	var in booking.PaymentInput
	if err := c.Bind().Body(&in); err != nil {
		h.rec.Fail(c, log, err)
		return badRequest(c, "malformed payload")
	}

	record, err := h.bookings.RegisterPayment(c.Context(), c.Params("id"), in)
	if err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, record.ExternalID, record.ID, record)
	return ok(c, record)
}

func (h *BookingHandler) Refund(c fiber.Ctx) error {
	log := h.rec.Start(c, "booking", "refund")

	record, err := h.bookings.Refund(c.Context(), c.Params("id"))
	if err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, record.ExternalID, record.ID, record)
	return ok(c, record)
}

func (h *BookingHandler) Cancel(c fiber.Ctx) error {
	log := h.rec.Start(c, "booking", "cancel")

	record, err := h.bookings.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, record.ExternalID, record.ID, record)
	return ok(c, record)
}

func (h *BookingHandler) SetStatus(c fiber.Ctx) error {
	log := h.rec.Start(c, "booking", "status")

	var in struct {
		Status string `json:"status"`
	}
	if err := c.Bind().Body(&in); err != nil {
		h.rec.Fail(c, log, err)
		return badRequest(c, "malformed payload")
	}
	if in.Status == "" {
		h.rec.Fail(c, log, errors.New("status is required"))
		return badRequest(c, "status is required")
	}

	record, err := h.bookings.SetStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		h.rec.Fail(c, log, err)
		return serviceError(c, err)
	}

	h.rec.Done(c, log, record.ExternalID, record.ID, record)
	return ok(c, record)
}
