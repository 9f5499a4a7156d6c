package payment

import (
	"context"
	"fmt"

	transactionRepo "studyspace/database/repository/transaction"
	"studyspace/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TransactionUpdater locates transactions and applies gateway outcomes to them.
type TransactionUpdater struct {
	repo   transactionRepo.TransactionRepository
	logger *zap.Logger
}

func NewTransactionUpdater(repo transactionRepo.TransactionRepository, logger *zap.Logger) *TransactionUpdater {
	return &TransactionUpdater{repo: repo, logger: logger}
}

// Locate finds the transaction by gateway payment id or order id. A nil
// transaction with a nil error means nothing matched.
func (u *TransactionUpdater) Locate(ctx context.Context, paymentID, orderID string) (*models.Transaction, error) {
	ctx, span := tracer.Start(ctx, "payment.Locate")
	defer span.End()

	tx, err := u.repo.FindByGatewayIDs(ctx, paymentID, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("locate transaction: %w", err)
	}
	span.SetAttributes(attribute.Bool("found", tx != nil))
	return tx, nil
}

// ApplyOutcome runs the transition table and writes the result. For stale or
// illegal pairs nothing is written and the returned transaction is tx itself.
func (u *TransactionUpdater) ApplyOutcome(ctx context.Context, tx *models.Transaction, outcome Outcome, patch models.TransactionPatch) (*models.Transaction, Transition, error) {
	ctx, span := tracer.Start(ctx, "payment.ApplyOutcome", trace.WithAttributes(
		attribute.String("transaction.id", tx.ID.Hex()),
		attribute.String("transaction.status", string(tx.Status)),
		attribute.String("outcome", string(outcome)),
	))
	defer span.End()

	transition := Decide(tx.Status, outcome)
	span.SetAttributes(attribute.String("decision", transition.Decision.String()))

	logFields := []zap.Field{
		zap.String("transactionId", tx.ID.Hex()),
		zap.String("status", string(tx.Status)),
		zap.String("outcome", string(outcome)),
	}
	switch transition.Decision {
	case DecisionStale:
		u.logger.Info("stale gateway event ignored", logFields...)
		return tx, transition, nil
	case DecisionIllegal:
		u.logger.Error("illegal transaction transition rejected; manual review needed", logFields...)
		return tx, transition, nil
	case DecisionRedelivery:
		u.logger.Info("gateway event redelivered", logFields...)
	}

	if outcome != OutcomeAuthorized {
		next := transition.Next
		patch.Status = &next
	}

	matched, err := u.repo.ApplyGatewayUpdate(ctx, tx.ID, tx.Status, patch)
	if err != nil {
		span.RecordError(err)
		return nil, transition, fmt.Errorf("apply %s outcome: %w", outcome, err)
	}
	if !matched {
		return nil, transition, fmt.Errorf("%w: %s (expected status %s)", ErrConcurrentUpdate, tx.ID.Hex(), tx.Status)
	}

	updated := *tx
	updated.Status = transition.Next
	if patch.RazorpayPaymentID != "" {
		updated.RazorpayPaymentID = patch.RazorpayPaymentID
	}
	if patch.PaymentMethod != "" {
		updated.PaymentMethod = patch.PaymentMethod
	}
	if patch.PaymentResponse != nil {
		updated.PaymentResponse = patch.PaymentResponse
	}
	if patch.OrderResponse != nil {
		updated.OrderResponse = patch.OrderResponse
	}
	return &updated, transition, nil
}
