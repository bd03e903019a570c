package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"atlas/internal/domain"
	"atlas/internal/service"
)

// TypeBookingNotify is the task type that delivers booking confirmations.
const TypeBookingNotify = "booking:notify"

// NewBookingNotifyTask wraps a booking record in a notification task.
func NewBookingNotifyTask(record *domain.BookingRecord, maxRetry int) (*asynq.Task, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingNotify, payload,
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(time.Minute),
	), nil
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsyncNotifier defers booking notifications to the task queue.
type AsyncNotifier struct {
	client   Enqueuer
	maxRetry int
	logger   *zap.Logger
}

// Ensure AsyncNotifier implements service.Notifier.
var _ service.Notifier = (*AsyncNotifier)(nil)

// NewAsyncNotifier creates a new AsyncNotifier.
func NewAsyncNotifier(client Enqueuer, maxRetry int, logger *zap.Logger) *AsyncNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AsyncNotifier{client: client, maxRetry: maxRetry, logger: logger}
}

// NotifyBookingCreated enqueues the notification. It returns once the task is queued.
func (n *AsyncNotifier) NotifyBookingCreated(ctx context.Context, record *domain.BookingRecord) error {
	task, err := NewBookingNotifyTask(record, n.maxRetry)
	if err != nil {
		return err
	}

	info, err := n.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeBookingNotify, err)
	}

	n.logger.Debug("booking notification queued",
		zap.String("task_id", info.ID),
		zap.String("booking_id", record.ID),
	)
	return nil
}

// HandleBookingNotify delivers a queued notification. A returned error makes asynq retry the task.
func HandleBookingNotify(notifier service.Notifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var record domain.BookingRecord
		if err := json.Unmarshal(task.Payload(), &record); err != nil {
			logger.Error("invalid booking notification payload", zap.Error(err))
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := notifier.NotifyBookingCreated(ctx, &record); err != nil {
			logger.Warn("booking notification attempt failed",
				zap.String("booking_id", record.ID),
				zap.String("reference", record.BookingReference),
				zap.Error(err),
			)
			return err
		}
		return nil
	}
}
