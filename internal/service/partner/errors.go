package partner

import "errors"

var (
	ErrValidation      = errors.New("invalid partner payload")
	ErrPartnerNotFound = errors.New("partner not found")
)
