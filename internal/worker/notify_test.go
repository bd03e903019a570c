package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"atlas/internal/domain"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

type fakeNotifier struct {
	got *domain.BookingRecord
	err error
}

func (f *fakeNotifier) NotifyBookingCreated(_ context.Context, record *domain.BookingRecord) error {
	f.got = record
	return f.err
}

func sampleRecord() *domain.BookingRecord {
	return &domain.BookingRecord{
		ID: "b-1",
		BookingDraft: domain.BookingDraft{
			Contact:          domain.Contact{Name: "Amina", Email: "amina@example.com"},
			PartyComposition: domain.PartyComposition{Adults: 2, Children: 1},
			Date:             time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
			TotalPrice:       250,
			BookingReference: "ATL-ABC234",
			ExcursionID:      "ourika-valley",
		},
	}
}

func TestAsyncNotifier_EnqueuesRecord(t *testing.T) {
	enq := &fakeEnqueuer{}
	n := NewAsyncNotifier(enq, 3, zap.NewNop())

	require.NoError(t, n.NotifyBookingCreated(context.Background(), sampleRecord()))
	require.Len(t, enq.tasks, 1)
	assert.Equal(t, TypeBookingNotify, enq.tasks[0].Type())

	var decoded domain.BookingRecord
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &decoded))
	assert.Equal(t, "ATL-ABC234", decoded.BookingReference)
	assert.Equal(t, 250.0, decoded.TotalPrice)
}

func TestAsyncNotifier_EnqueueError(t *testing.T) {
	enq := &fakeEnqueuer{err: errors.New("redis down")}
	n := NewAsyncNotifier(enq, 3, nil)

	err := n.NotifyBookingCreated(context.Background(), sampleRecord())
	assert.ErrorContains(t, err, "redis down")
}

func TestHandleBookingNotify(t *testing.T) {
	t.Run("delivers decoded record", func(t *testing.T) {
		notifier := &fakeNotifier{}
		task, err := NewBookingNotifyTask(sampleRecord(), 3)
		require.NoError(t, err)

		err = HandleBookingNotify(notifier, zap.NewNop())(context.Background(), task)
		require.NoError(t, err)
		require.NotNil(t, notifier.got)
		assert.Equal(t, "b-1", notifier.got.ID)
		assert.Equal(t, 2, notifier.got.Adults)
	})

	t.Run("delivery failure is retried", func(t *testing.T) {
		notifier := &fakeNotifier{err: errors.New("smtp unavailable")}
		task, err := NewBookingNotifyTask(sampleRecord(), 3)
		require.NoError(t, err)

		err = HandleBookingNotify(notifier, zap.NewNop())(context.Background(), task)
		require.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
	})

	t.Run("bad payload skips retry", func(t *testing.T) {
		task := asynq.NewTask(TypeBookingNotify, []byte("{"))

		err := HandleBookingNotify(&fakeNotifier{}, zap.NewNop())(context.Background(), task)
		assert.True(t, errors.Is(err, asynq.SkipRetry))
	})
}
