package customer

import "errors"

var (
	ErrValidation       = errors.New("invalid customer payload")
	ErrCustomerNotFound = errors.New("customer not found")
)
