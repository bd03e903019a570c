package redis

import (
	"context"
	"time"

	"atlas/internal/booking"
)

// WizardStoreInterface defines the interface for wizard session persistence.
type WizardStoreInterface interface {
	Get(ctx context.Context, id string) (*booking.WizardState, error)
	Save(ctx context.Context, id string, state booking.WizardState) error
	Delete(ctx context.Context, id string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireWizardLock(ctx context.Context, wizardID string, ttl time.Duration) (string, bool, error)
	ReleaseWizardLock(ctx context.Context, wizardID, token string) error
	RefreshWizardLock(ctx context.Context, wizardID, token string, ttl time.Duration) (bool, error)
}

// Ensure concrete types implement interfaces.
var (
	_ WizardStoreInterface = (*WizardStore)(nil)
	_ LockStoreInterface   = (*LockStore)(nil)
)
