package repository

import "errors"

var (
	// ErrNotFound is returned when a point read or filtered write matches
	// no document.
	ErrNotFound = errors.New("document not found")

	// ErrStockConflict is returned when a conditional stock decrement finds
	// the equipment document but the stock guard fails.
	ErrStockConflict = errors.New("stock conflict")
)
