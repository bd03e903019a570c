package service

import (
	"context"

	"atlas/internal/booking"
	"atlas/internal/domain"
	"atlas/internal/repository"
)

// ActivityService exposes the catalog and prices parties against it.
type ActivityService struct {
	activityRepo  repository.ActivityRepository
	defaultPolicy domain.ChildDiscountPolicy
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activityRepo repository.ActivityRepository, defaultPolicy domain.ChildDiscountPolicy) *ActivityService {
	return &ActivityService{activityRepo: activityRepo, defaultPolicy: defaultPolicy}
}

// QuoteRequest contains the parameters for pricing a party.
type QuoteRequest struct {
	Party     domain.PartyComposition
	IsPrivate bool
	Policy    domain.ChildDiscountPolicy // Optional: empty means the activity's or the configured default
}

// List returns the whole catalog.
func (s *ActivityService) List(ctx context.Context) ([]*domain.Activity, error) {
	return s.activityRepo.GetAll(ctx)
}

// Get returns one activity.
func (s *ActivityService) Get(ctx context.Context, id string) (*domain.Activity, error) {
	if id == "" {
		return nil, ErrInvalidActivityID
	}
	return s.activityRepo.GetByID(ctx, id)
}

// Quote prices a party for an activity without clamping or rounding the counts.
func (s *ActivityService) Quote(ctx context.Context, id string, req QuoteRequest) (*booking.Quote, error) {
	if req.Party.Adults < 0 || req.Party.Children < 0 || req.Party.YoungChildren < 0 {
		return nil, ErrInvalidGuestCount
	}

	activity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	policy := req.Policy
	if policy == "" {
		policy = booking.ResolvePolicy(activity, s.defaultPolicy)
	}

	q := booking.QuoteParty(activity, req.IsPrivate, req.Party, policy)
	return &q, nil
}

// DefaultPolicy returns the configured fallback child policy.
func (s *ActivityService) DefaultPolicy() domain.ChildDiscountPolicy {
	return s.defaultPolicy
}
