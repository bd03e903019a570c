package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"atlas/internal/booking"
	"atlas/internal/domain"
	"atlas/internal/redis"
	"atlas/internal/repository"
)

// DefaultWizardLockTTL bounds how long one request may hold a wizard.
const DefaultWizardLockTTL = 30 * time.Second

// WizardService runs booking wizards whose state lives in the session store between requests.
// Every mutation holds the wizard's lock, so a wizard never sees two requests at once.
type WizardService struct {
	activityRepo repository.ActivityRepository
	sessions     redis.WizardStoreInterface
	locks        redis.LockStoreInterface
	submitter    booking.Submitter
	calendar     *booking.Calendar
	refs         *booking.ReferenceGenerator
	opts         booking.WizardOptions
	lockTTL      time.Duration
	logger       *zap.Logger
}

// WizardServiceDeps contains the collaborators of a WizardService.
type WizardServiceDeps struct {
	ActivityRepo repository.ActivityRepository
	Sessions     redis.WizardStoreInterface
	Locks        redis.LockStoreInterface
	Submitter    booking.Submitter
	Calendar     *booking.Calendar
	References   *booking.ReferenceGenerator
	Options      booking.WizardOptions
	LockTTL      time.Duration // Optional: defaults to DefaultWizardLockTTL
	Logger       *zap.Logger
}

// NewWizardService creates a new WizardService.
func NewWizardService(deps WizardServiceDeps) *WizardService {
	lockTTL := deps.LockTTL
	if lockTTL <= 0 {
		lockTTL = DefaultWizardLockTTL
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardService{
		activityRepo: deps.ActivityRepo,
		sessions:     deps.Sessions,
		locks:        deps.Locks,
		submitter:    deps.Submitter,
		calendar:     deps.Calendar,
		refs:         deps.References,
		opts:         deps.Options,
		lockTTL:      lockTTL,
		logger:       logger,
	}
}

// WizardView is a wizard's state together with its live price.
type WizardView struct {
	ID       string              `json:"id"`
	Activity *domain.Activity    `json:"activity"`
	State    booking.WizardState `json:"state"`
	Quote    booking.Quote       `json:"quote"`
}

// GuestsUpdate carries the optional inputs of the guests step. Nil fields are left unchanged.
type GuestsUpdate struct {
	Party     *domain.PartyComposition
	IsPrivate *bool
	Date      *time.Time
	ClearDate bool
}

// SinglePageBooking contains every input of a one-shot booking form.
type SinglePageBooking struct {
	ActivityID string
	Contact    domain.Contact
	Party      domain.PartyComposition
	IsPrivate  bool
	Date       *time.Time
}

// Start opens a wizard for an activity.
func (s *WizardService) Start(ctx context.Context, activityID string, singlePage bool) (*WizardView, error) {
	if activityID == "" {
		return nil, ErrInvalidActivityID
	}

	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	w := s.newWizard(activity, booking.InitialState(activityID, singlePage))
	if err := s.sessions.Save(ctx, id, w.State()); err != nil {
		return nil, err
	}

	s.logger.Debug("wizard started", zap.String("wizard_id", id), zap.String("activity_id", activityID))
	return s.view(id, w), nil
}

// Get returns the current view of a wizard.
func (s *WizardService) Get(ctx context.Context, id string) (*WizardView, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(id, w), nil
}

// UpdateContact replaces the contact fields.
func (s *WizardService) UpdateContact(ctx context.Context, id string, contact domain.Contact) (*WizardView, error) {
	return s.mutate(ctx, id, func(w *booking.Wizard) error {
		return w.SetContact(contact)
	})
}

// Next advances Details -> Guests.
func (s *WizardService) Next(ctx context.Context, id string) (*WizardView, error) {
	return s.mutate(ctx, id, func(w *booking.Wizard) error {
		return w.Next()
	})
}

// Back returns Guests -> Details.
func (s *WizardService) Back(ctx context.Context, id string) (*WizardView, error) {
	return s.mutate(ctx, id, func(w *booking.Wizard) error {
		return w.Back()
	})
}

// UpdateGuests applies party counts, tour variant and date, in that order.
func (s *WizardService) UpdateGuests(ctx context.Context, id string, update GuestsUpdate) (*WizardView, error) {
	return s.mutate(ctx, id, func(w *booking.Wizard) error {
		if update.Party != nil {
			if _, err := w.SetParty(*update.Party); err != nil {
				return err
			}
		}
		if update.IsPrivate != nil {
			if err := w.SetPrivate(*update.IsPrivate); err != nil {
				return err
			}
		}
		if update.ClearDate {
			return w.ClearDate()
		}
		if update.Date != nil {
			return w.SetDate(*update.Date)
		}
		return nil
	})
}

// Submit validates and submits the wizard's booking.
// A failed submission leaves the wizard on its step with every field intact.
func (s *WizardService) Submit(ctx context.Context, id string) (*WizardView, error) {
	return s.mutate(ctx, id, func(w *booking.Wizard) error {
		_, err := w.Submit(ctx)
		if errors.Is(err, booking.ErrSubmissionFailed) {
			s.logger.Warn("wizard submission failed", zap.String("wizard_id", id), zap.Error(err))
		}
		return err
	})
}

// Close dismisses the confirmation and resets the wizard.
func (s *WizardService) Close(ctx context.Context, id string) (*WizardView, error) {
	return s.mutate(ctx, id, func(w *booking.Wizard) error {
		return w.Close()
	})
}

// Discard drops an abandoned wizard session.
func (s *WizardService) Discard(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, id, nil)
	return err
}

// BookNow runs a single-page booking without a stored session.
func (s *WizardService) BookNow(ctx context.Context, req SinglePageBooking) (*domain.BookingRecord, error) {
	if req.ActivityID == "" {
		return nil, ErrInvalidActivityID
	}

	activity, err := s.activityRepo.GetByID(ctx, req.ActivityID)
	if err != nil {
		return nil, err
	}

	w := s.newWizard(activity, booking.InitialState(req.ActivityID, true))
	if err := w.SetContact(req.Contact); err != nil {
		return nil, err
	}
	if _, err := w.SetParty(req.Party); err != nil {
		return nil, err
	}
	if err := w.SetPrivate(req.IsPrivate); err != nil {
		return nil, err
	}
	if req.Date != nil {
		if err := w.SetDate(*req.Date); err != nil {
			return nil, err
		}
	}

	return w.Submit(ctx)
}

// mutate runs fn on a locked, freshly loaded wizard and saves the result.
// The view is returned alongside fn's error so callers can surface validation messages.
func (s *WizardService) mutate(ctx context.Context, id string, fn func(w *booking.Wizard) error) (*WizardView, error) {
	if id == "" {
		return nil, ErrInvalidWizardID
	}

	token, ok, err := s.locks.AcquireWizardLock(ctx, id, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWizardBusy
	}
	stopRefresh := s.keepLock(ctx, id, token)
	defer func() {
		stopRefresh()
		if err := s.locks.ReleaseWizardLock(context.WithoutCancel(ctx), id, token); err != nil {
			s.logger.Warn("failed to release wizard lock", zap.String("wizard_id", id), zap.Error(err))
		}
	}()

	w, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// A nil fn discards the session.
	if fn == nil {
		return nil, s.sessions.Delete(ctx, id)
	}

	opErr := fn(w)

	if err := s.sessions.Save(ctx, id, w.State()); err != nil {
		return nil, err
	}
	return s.view(id, w), opErr
}

// keepLock refreshes the wizard lock every third of its TTL until the returned func is called.
func (s *WizardService) keepLock(ctx context.Context, id, token string) func() {
	done := make(chan struct{})
	stopped := make(chan struct{})
	refreshCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(stopped)
		interval := s.lockTTL / 3
		if interval <= 0 {
			interval = s.lockTTL
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ok, err := s.locks.RefreshWizardLock(refreshCtx, id, token, s.lockTTL)
				if err != nil {
					s.logger.Warn("failed to refresh wizard lock", zap.String("wizard_id", id), zap.Error(err))
					continue
				}
				if !ok {
					s.logger.Warn("wizard lock lost", zap.String("wizard_id", id))
					return
				}
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}

func (s *WizardService) load(ctx context.Context, id string) (*booking.Wizard, error) {
	if id == "" {
		return nil, ErrInvalidWizardID
	}

	state, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return nil, ErrWizardNotFound
		}
		return nil, err
	}

	activity, err := s.activityRepo.GetByID(ctx, state.ActivityID)
	if err != nil {
		return nil, err
	}
	return s.newWizard(activity, *state), nil
}

func (s *WizardService) newWizard(activity *domain.Activity, state booking.WizardState) *booking.Wizard {
	return booking.NewWizard(activity, state, s.calendar, s.refs, s.submitter, s.opts)
}

func (s *WizardService) view(id string, w *booking.Wizard) *WizardView {
	return &WizardView{
		ID:       id,
		Activity: w.Activity(),
		State:    w.State(),
		Quote:    w.Quote(),
	}
}
