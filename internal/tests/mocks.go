package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gopkg.in/gomail.v2"

	"atlas/internal/booking"
	"atlas/internal/domain"
	"atlas/internal/redis"
	"atlas/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.BookingRecord
	order    []string

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
	// CreateDelay blocks Create so tests can observe an in-flight submission.
	CreateDelay time.Duration
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.BookingRecord),
	}
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.BookingRecord) (string, error) {
	n := atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateDelay > 0 {
		select {
		case <-time.After(m.CreateDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if m.CreateError != nil {
		return "", m.CreateError
	}

	id := fmt.Sprintf("booking-%d", n)
	copy := *b
	copy.ID = id

	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[id] = &copy
	m.order = append(m.order, id)
	return id, nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.BookingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (m *MockBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.BookingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// Newest first, like the real stores.
	for i := len(m.order) - 1; i >= 0; i-- {
		if b := m.bookings[m.order[i]]; b.BookingReference == reference {
			copy := *b
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Count returns the number of stored bookings.
func (m *MockBookingRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK WIZARD STORE
// ──────────────────────────────────────────────

// MockWizardStore is an in-memory WizardStoreInterface. States round-trip through JSON like the Redis store.
type MockWizardStore struct {
	mu       sync.Mutex
	sessions map[string][]byte

	SaveCallCount int32

	SaveError error
}

// NewMockWizardStore creates a new mock wizard store.
func NewMockWizardStore() *MockWizardStore {
	return &MockWizardStore{sessions: make(map[string][]byte)}
}

func (m *MockWizardStore) Get(ctx context.Context, id string) (*booking.WizardState, error) {
	m.mu.Lock()
	data, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, redis.ErrSessionNotFound
	}

	var state booking.WizardState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (m *MockWizardStore) Save(ctx context.Context, id string, state booking.WizardState) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return m.SaveError
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = data
	return nil
}

func (m *MockWizardStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
// Locks expire after their TTL like the Redis implementation.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]mockLock
	seq   int

	AcquireCallCount int32
	ReleaseCallCount int32
	RefreshCallCount int32

	AcquireError error
}

type mockLock struct {
	token   string
	expires time.Time // zero never expires
}

func (l mockLock) expired(now time.Time) bool {
	return !l.expires.IsZero() && !now.Before(l.expires)
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]mockLock)}
}

func (m *MockLockStore) AcquireWizardLock(ctx context.Context, wizardID string, ttl time.Duration) (string, bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, held := m.locks[wizardID]; held && !l.expired(time.Now()) {
		return "", false, nil
	}
	m.seq++
	token := fmt.Sprintf("token-%d", m.seq)
	m.locks[wizardID] = mockLock{token: token, expires: time.Now().Add(ttl)}
	return token, true, nil
}

func (m *MockLockStore) ReleaseWizardLock(ctx context.Context, wizardID, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[wizardID].token == token {
		delete(m.locks, wizardID)
	}
	return nil
}

func (m *MockLockStore) RefreshWizardLock(ctx context.Context, wizardID, token string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.RefreshCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	l, held := m.locks[wizardID]
	if !held || l.token != token || l.expired(time.Now()) {
		return false, nil
	}
	l.expires = time.Now().Add(ttl)
	m.locks[wizardID] = l
	return true, nil
}

// Hold simulates another request holding the wizard.
func (m *MockLockStore) Hold(wizardID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[wizardID] = mockLock{token: "held-elsewhere"}
}

// IsHeld reports whether the wizard is locked.
func (m *MockLockStore) IsHeld(wizardID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, held := m.locks[wizardID]
	return held && !l.expired(time.Now())
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER / CHANNELS
// ──────────────────────────────────────────────

// MockNotifier records every booking it is told about.
type MockNotifier struct {
	mu       sync.Mutex
	Notified []*domain.BookingRecord

	NotifyError error
}

func (m *MockNotifier) NotifyBookingCreated(ctx context.Context, record *domain.BookingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notified = append(m.Notified, record)
	return m.NotifyError
}

// Calls returns the number of notifications received.
func (m *MockNotifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Notified)
}

// MockChannel is a named notification channel.
type MockChannel struct {
	ChannelName string
	SendError   error

	SendCallCount int32
}

func (m *MockChannel) Name() string { return m.ChannelName }

func (m *MockChannel) Send(ctx context.Context, record *domain.BookingRecord) error {
	atomic.AddInt32(&m.SendCallCount, 1)
	return m.SendError
}

// MockMailSender captures messages instead of dialing SMTP.
type MockMailSender struct {
	mu       sync.Mutex
	Messages []*gomail.Message

	SendError error
}

func (m *MockMailSender) DialAndSend(msgs ...*gomail.Message) error {
	if m.SendError != nil {
		return m.SendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msgs...)
	return nil
}
