package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"atlas/internal/booking"
	"atlas/internal/domain"
	"atlas/internal/repository"
)

// Notifier is told about every booking that reached the store.
type Notifier interface {
	NotifyBookingCreated(ctx context.Context, record *domain.BookingRecord) error
}

// SubmissionGateway persists booking drafts and triggers best-effort notifications.
type SubmissionGateway struct {
	bookingRepo repository.BookingRepository
	notifier    Notifier
	logger      *zap.Logger
	now         func() time.Time
}

// Ensure SubmissionGateway can back a booking wizard.
var _ booking.Submitter = (*SubmissionGateway)(nil)

// NewSubmissionGateway creates a new SubmissionGateway. notifier may be nil.
func NewSubmissionGateway(bookingRepo repository.BookingRepository, notifier Notifier, logger *zap.Logger) *SubmissionGateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionGateway{
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit writes the draft exactly once and returns it merged with the store-assigned ID.
// A notification failure never fails the submission.
func (g *SubmissionGateway) Submit(ctx context.Context, draft domain.BookingDraft) (*domain.BookingRecord, error) {
	if draft.Status == "" {
		draft.Status = domain.BookingStatusPending
	}
	if !draft.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", repository.ErrInvalidBooking, draft.Status)
	}

	record := &domain.BookingRecord{
		BookingDraft: draft,
		CreatedAt:    g.now(),
	}

	id, err := g.bookingRepo.Create(ctx, record)
	if err != nil {
		g.logger.Error("booking write failed",
			zap.String("reference", draft.BookingReference),
			zap.String("excursion_id", draft.ExcursionID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	record.ID = id

	g.logger.Info("booking created",
		zap.String("booking_id", id),
		zap.String("reference", record.BookingReference),
		zap.String("excursion_id", record.ExcursionID),
		zap.Float64("total_price", record.TotalPrice),
	)

	if g.notifier != nil {
		if err := g.notifier.NotifyBookingCreated(ctx, record); err != nil {
			g.logger.Warn("booking notification failed",
				zap.String("booking_id", id),
				zap.String("reference", record.BookingReference),
				zap.Error(err),
			)
		}
	}

	return record, nil
}
