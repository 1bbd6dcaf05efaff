package rental

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrRentalNotFound    = errors.New("rental not found")
)

// ValidationError reports an invalid request. Fields is set when the failure
// is one or more missing request fields.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string { return e.Message }

// InsufficientStockError reports that the requested quantity exceeds the
// units currently available.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %d, requested %d", e.Available, e.Requested)
}
