package billing

import "errors"

var (
	// ErrInvalidBookingType means the booking type is not one of the
	// six known categories.
	ErrInvalidBookingType = errors.New("invalid booking type")

	// ErrUnitLineCount means the booking does not have exactly one
	// unit line.
	ErrUnitLineCount = errors.New("booking must have exactly one unit line")

	// ErrInvalidPaymentMethod means the payment method is neither
	// online nor cash.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)
