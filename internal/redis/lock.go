package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript extends the lock only if it still holds the caller's token.
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func wizardLockKey(wizardID string) string {
	return fmt.Sprintf("lock:wizard:%s", wizardID)
}

// AcquireWizardLock attempts to take the lock of a wizard session.
// Returns the token needed to release it and whether it was acquired.
func (s *LockStore) AcquireWizardLock(ctx context.Context, wizardID string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, wizardLockKey(wizardID), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseWizardLock releases the lock if token still owns it.
func (s *LockStore) ReleaseWizardLock(ctx context.Context, wizardID, token string) error {
	return releaseScript.Run(ctx, s.client, []string{wizardLockKey(wizardID)}, token).Err()
}

// RefreshWizardLock resets the lock's TTL if token still owns it.
// Returns false when the lock has expired or been taken by someone else.
func (s *LockStore) RefreshWizardLock(ctx context.Context, wizardID, token string, ttl time.Duration) (bool, error) {
	n, err := refreshScript.Run(ctx, s.client, []string{wizardLockKey(wizardID)}, token, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
