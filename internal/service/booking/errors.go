package booking

import "errors"

var (
	ErrValidation              = errors.New("invalid booking payload")
	ErrBookingNotFound         = errors.New("booking not found")
	ErrCustomerNotFound        = errors.New("booking customer not found")
	ErrPartnerNotFound         = errors.New("booking partner not found")
	ErrBranchNotFound          = errors.New("booking branch not found")
	ErrUnitNotFound            = errors.New("booking unit not found")
	ErrServiceNotFound         = errors.New("booking add-on service not found")
	ErrRuleNotFound            = errors.New("booking commission rule not found")
	ErrInvalidStateTransition  = errors.New("invalid booking state transition")
	ErrTaxConfigurationMissing = errors.New("required tax configuration is missing")
	ErrCommissionNotPositive   = errors.New("computed commission is not positive")
	ErrNoPostedInvoice         = errors.New("booking has no posted customer invoice")
	ErrNothingToRefund         = errors.New("booking has no payment to refund")
)
