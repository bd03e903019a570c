package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"atlas/internal/booking"
)

// ErrSessionNotFound is returned when a wizard session is missing or expired.
var ErrSessionNotFound = errors.New("wizard session not found")

const wizardSessionPrefix = "wizard:session:"

// DefaultSessionTTL is applied when the store is created with a non-positive TTL.
const DefaultSessionTTL = 2 * time.Hour

// WizardStore keeps serialized wizard state in Redis. Every save refreshes the TTL.
type WizardStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWizardStore creates a new WizardStore.
func NewWizardStore(client *redis.Client, ttl time.Duration) *WizardStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &WizardStore{client: client, ttl: ttl}
}

// Get loads the state of a wizard session.
func (s *WizardStore) Get(ctx context.Context, id string) (*booking.WizardState, error) {
	data, err := s.client.Get(ctx, wizardSessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	var state booking.WizardState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save stores the state of a wizard session.
func (s *WizardStore) Save(ctx context.Context, id string, state booking.WizardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, wizardSessionPrefix+id, data, s.ttl).Err()
}

// Delete removes a wizard session.
func (s *WizardStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, wizardSessionPrefix+id).Err()
}
