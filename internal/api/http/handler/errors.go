package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/highfiveapp/highfive_backend/internal/billing"
	"github.com/highfiveapp/highfive_backend/internal/service/booking"
	"github.com/highfiveapp/highfive_backend/internal/service/branch"
	"github.com/highfiveapp/highfive_backend/internal/service/catalog"
	"github.com/highfiveapp/highfive_backend/internal/service/commission"
	"github.com/highfiveapp/highfive_backend/internal/service/customer"
	"github.com/highfiveapp/highfive_backend/internal/service/partner"
)

const (
	errTypeValidation = "validation_error"
	errTypeServer     = "server_error"
)

var validationErrors = []error{
	partner.ErrValidation,
	customer.ErrValidation,
	branch.ErrValidation,
	branch.ErrPartnerNotFound,
	catalog.ErrValidation,
	catalog.ErrBranchNotFound,
	commission.ErrValidation,
	commission.ErrScheduleDatesRequired,
	commission.ErrNoCommissionConfigured,
	booking.ErrValidation,
	booking.ErrCustomerNotFound,
	booking.ErrPartnerNotFound,
	booking.ErrBranchNotFound,
	booking.ErrUnitNotFound,
	booking.ErrServiceNotFound,
	booking.ErrRuleNotFound,
	booking.ErrCommissionNotPositive,
	billing.ErrInvalidBookingType,
	billing.ErrUnitLineCount,
	billing.ErrInvalidPaymentMethod,
}

var notFoundErrors = []error{
	booking.ErrBookingNotFound,
	commission.ErrRuleNotFound,
	commission.ErrUnitNotFound,
}

var conflictErrors = []error{
	commission.ErrOverlappingRule,
	commission.ErrDefaultRuleProtected,
	booking.ErrInvalidStateTransition,
	booking.ErrTaxConfigurationMissing,
	booking.ErrNoPostedInvoice,
	booking.ErrNothingToRefund,
}

// serviceError maps a service failure onto the envelope. Anything not
// recognized is a server error and keeps its detail out of the
// response.
func serviceError(c fiber.Ctx, err error) error {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return failure(c, fiber.StatusBadRequest, err.Error(), errTypeValidation)
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return failure(c, fiber.StatusNotFound, err.Error(), errTypeValidation)
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return failure(c, fiber.StatusConflict, err.Error(), errTypeValidation)
		}
	}
	return failure(c, fiber.StatusInternalServerError, "internal server error", errTypeServer)
}
