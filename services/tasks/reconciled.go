package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studyspace/models"

	"github.com/hibiken/asynq"
)

const TypePaymentReconciled = "payment:reconciled"

// NewReconciledTask builds the task with an id derived from transaction and
// outcome so a redelivered webhook cannot queue a second notice.
func NewReconciledTask(payload models.ReconciledPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypePaymentReconciled, b)
	opts := []asynq.Option{
		asynq.TaskID(fmt.Sprintf("reconciled:%s:%s", payload.TransactionID, payload.Outcome)),
		asynq.MaxRetry(5),
		asynq.Retention(24 * time.Hour),
	}
	return task, opts, nil
}

// Enqueuer is the part of *asynq.Client the publisher needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqPublisher queues reconciliation notices on Redis.
type AsynqPublisher struct {
	client Enqueuer
}

func NewAsynqPublisher(client Enqueuer) *AsynqPublisher {
	return &AsynqPublisher{client: client}
}

func (p *AsynqPublisher) PublishReconciled(ctx context.Context, payload models.ReconciledPayload) error {
	task, opts, err := NewReconciledTask(payload)
	if err != nil {
		return fmt.Errorf("build reconciled task: %w", err)
	}
	if _, err := p.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return fmt.Errorf("enqueue reconciled task: %w", err)
	}
	return nil
}
