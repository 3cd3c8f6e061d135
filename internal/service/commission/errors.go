package commission

import "errors"

var (
	ErrValidation             = errors.New("invalid commission payload")
	ErrUnitNotFound           = errors.New("commission unit not found")
	ErrRuleNotFound           = errors.New("commission rule not found")
	ErrOverlappingRule        = errors.New("scheduled rule overlaps an existing rule")
	ErrScheduleDatesRequired  = errors.New("scheduled rules require start and end dates")
	ErrDefaultRuleProtected   = errors.New("default rules cannot be deleted")
	ErrNoCommissionConfigured = errors.New("no commission rule configured for unit")
)
