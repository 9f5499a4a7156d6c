package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"studyspace/config"
	"studyspace/models"
	"studyspace/services/notification"
	"studyspace/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RedisOpt returns the asynq connection settings for the task queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}
}

// InitReconcileWorker starts the async worker in background. Call Shutdown on
// the returned server when the process exits.
func InitReconcileWorker(notifSvc notification.NotificationService, logger *zap.Logger) (*asynq.Server, error) {
	srv := asynq.NewServer(
		RedisOpt(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePaymentReconciled, HandleReconciledTask(notifSvc, logger))

	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("start reconcile worker: %w", err)
	}
	logger.Info("reconcile worker started")
	return srv, nil
}

// HandleReconciledTask decodes the payload and forwards it to the notifier.
func HandleReconciledTask(notifSvc notification.NotificationService, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReconciledPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reconciled task payload", zap.Error(err))
			// Retrying a payload that cannot decode never helps.
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}

		if err := notifSvc.NotifyPaymentReconciled(ctx, p); err != nil {
			logger.Warn("failed to deliver payment notification",
				zap.String("transactionId", p.TransactionID),
				zap.Error(err),
			)
			return err
		}
		return nil
	}
}
