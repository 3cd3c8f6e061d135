package branch

import "errors"

var (
	ErrValidation      = errors.New("invalid branch payload")
	ErrPartnerNotFound = errors.New("branch partner not found")
	ErrBranchNotFound  = errors.New("branch not found")
)
