package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"studyspace/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "x", Type: task.Type()}, nil
}

func samplePayload() models.ReconciledPayload {
	return models.ReconciledPayload{
		TransactionID:   "tx1",
		BookingID:       "b1",
		BookingType:     models.BookingTypeCabin,
		UserID:          "u1",
		TransactionType: models.TransactionTypeBooking,
		Outcome:         "completed",
		Amount:          1500,
		OccurredAt:      time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewReconciledTask(t *testing.T) {
	task, opts, err := NewReconciledTask(samplePayload())
	require.NoError(t, err)
	assert.Equal(t, TypePaymentReconciled, task.Type())

	var decoded models.ReconciledPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &decoded))
	assert.Equal(t, samplePayload(), decoded)

	var taskID string
	for _, o := range opts {
		if o.Type() == asynq.TaskIDOpt {
			taskID = o.Value().(string)
		}
	}
	assert.Equal(t, "reconciled:tx1:completed", taskID)
}

func TestAsynqPublisher(t *testing.T) {
	t.Run("enqueues", func(t *testing.T) {
		q := &fakeEnqueuer{}
		require.NoError(t, NewAsynqPublisher(q).PublishReconciled(context.Background(), samplePayload()))
		require.Len(t, q.tasks, 1)
		assert.Equal(t, TypePaymentReconciled, q.tasks[0].Type())
	})

	t.Run("duplicate task id is not an error", func(t *testing.T) {
		q := &fakeEnqueuer{err: asynq.ErrTaskIDConflict}
		assert.NoError(t, NewAsynqPublisher(q).PublishReconciled(context.Background(), samplePayload()))
	})

	t.Run("queue failure", func(t *testing.T) {
		q := &fakeEnqueuer{err: errors.New("dial tcp: connection refused")}
		err := NewAsynqPublisher(q).PublishReconciled(context.Background(), samplePayload())
		assert.Error(t, err)
	})
}
