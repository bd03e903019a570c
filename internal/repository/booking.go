package repository

import (
	"context"

	"atlas/internal/domain"
)

// BookingRepository defines the persistence operations for submitted bookings.
type BookingRepository interface {
	// Create writes a new booking and returns the identifier assigned by the store.
	// The record's ID field is ignored.
	Create(ctx context.Context, booking *domain.BookingRecord) (string, error)

	// GetByID retrieves a booking by its store identifier.
	GetByID(ctx context.Context, id string) (*domain.BookingRecord, error)

	// GetByReference retrieves the most recent booking carrying the given reference code.
	GetByReference(ctx context.Context, reference string) (*domain.BookingRecord, error)
}
