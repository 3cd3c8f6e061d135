package catalog

import "errors"

var (
	ErrValidation     = errors.New("invalid product payload")
	ErrBranchNotFound = errors.New("product branch not found")
	ErrUnitNotFound   = errors.New("unit not found")
)
