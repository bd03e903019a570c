package repository

import (
	"context"

	"atlas/internal/domain"
)

// ActivityRepository provides read access to the excursion catalog.
type ActivityRepository interface {
	// GetAll returns every activity in catalog order.
	GetAll(ctx context.Context) ([]*domain.Activity, error)

	// GetByID retrieves an activity by ID.
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
}
