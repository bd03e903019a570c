package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidBooking is returned when a booking cannot be written as given.
	ErrInvalidBooking = errors.New("invalid booking")
)
