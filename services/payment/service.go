package payment

import (
	"context"
	"fmt"

	"studyspace/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("studyspace/services/payment")

// Result is how a delivery ended when no error was raised.
type Result string

const (
	ResultProcessed           Result = "processed"
	ResultIgnored             Result = "ignored"
	ResultTransactionNotFound Result = "transaction_not_found"
	ResultSkipped             Result = "skipped"
)

// Message is the acknowledgment text returned to the gateway.
func (r Result) Message() string {
	switch r {
	case ResultProcessed:
		return "Webhook processed successfully"
	case ResultIgnored:
		return "Event ignored"
	case ResultTransactionNotFound:
		return "Transaction not found; event skipped"
	default:
		return "Event skipped"
	}
}

// WebhookService reconciles gateway deliveries with transactions and bookings.
type WebhookService interface {
	// Process verifies, parses and dispatches one raw delivery.
	Process(ctx context.Context, rawBody []byte, signature string) (string, Result, error)
	// Dispatch handles an already verified and parsed event.
	Dispatch(ctx context.Context, event GatewayEvent) (Result, error)
}

// DefaultWebhookService implements WebhookService.
type DefaultWebhookService struct {
	verifier     Verifier
	transactions *TransactionUpdater
	synchronizer BookingSynchronizer
	logger       *zap.Logger
}

func NewWebhookService(verifier Verifier, transactions *TransactionUpdater, synchronizer BookingSynchronizer, logger *zap.Logger) *DefaultWebhookService {
	return &DefaultWebhookService{
		verifier:     verifier,
		transactions: transactions,
		synchronizer: synchronizer,
		logger:       logger,
	}
}

// Process returns the event kind (empty when unknown at the time of failure)
// alongside the result. ErrInvalidSignature means nothing was touched.
func (s *DefaultWebhookService) Process(ctx context.Context, rawBody []byte, signature string) (string, Result, error) {
	ctx, span := tracer.Start(ctx, "payment.ProcessWebhook")
	defer span.End()

	if !s.verifier.Verify(ctx, rawBody, signature) {
		span.SetStatus(codes.Error, "invalid signature")
		return "", "", ErrInvalidSignature
	}

	event, err := ParseEvent(rawBody)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed event")
		return "", "", err
	}
	span.SetAttributes(attribute.String("event", event.Kind()))

	result, err := s.Dispatch(ctx, event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return event.Kind(), "", err
	}
	span.SetAttributes(attribute.String("result", string(result)))
	return event.Kind(), result, nil
}

// Dispatch routes one event to its handler. Each call handles exactly one event.
func (s *DefaultWebhookService) Dispatch(ctx context.Context, event GatewayEvent) (Result, error) {
	switch e := event.(type) {
	case PaymentCaptured:
		return s.handle(ctx, e.Kind(), e.Payment.ID, e.Payment.OrderID, OutcomeCompleted, models.TransactionPatch{
			RazorpayPaymentID: e.Payment.ID,
			PaymentMethod:     e.Payment.Method,
			PaymentResponse:   e.PaymentRaw,
		})
	case PaymentFailed:
		return s.handle(ctx, e.Kind(), e.Payment.ID, e.Payment.OrderID, OutcomeFailed, models.TransactionPatch{
			RazorpayPaymentID: e.Payment.ID,
			PaymentMethod:     e.Payment.Method,
			PaymentResponse:   e.PaymentRaw,
		})
	case PaymentAuthorized:
		return s.handle(ctx, e.Kind(), e.Payment.ID, e.Payment.OrderID, OutcomeAuthorized, models.TransactionPatch{
			RazorpayPaymentID: e.Payment.ID,
			PaymentMethod:     e.Payment.Method,
			PaymentResponse:   e.PaymentRaw,
		})
	case OrderPaid:
		return s.handle(ctx, e.Kind(), e.Payment.ID, e.Order.ID, OutcomeCompleted, models.TransactionPatch{
			RazorpayPaymentID: e.Payment.ID,
			PaymentMethod:     e.Payment.Method,
			PaymentResponse:   e.PaymentRaw,
			OrderResponse:     e.OrderRaw,
		})
	case UnknownEvent:
		s.logger.Info("unhandled webhook event ignored", zap.String("event", e.Name))
		return ResultIgnored, nil
	default:
		return "", fmt.Errorf("unsupported event type %T", event)
	}
}

func (s *DefaultWebhookService) handle(ctx context.Context, kind, paymentID, orderID string, outcome Outcome, patch models.TransactionPatch) (Result, error) {
	ctx, span := tracer.Start(ctx, "payment.Handle", trace.WithAttributes(
		attribute.String("event", kind),
		attribute.String("gateway.payment_id", paymentID),
		attribute.String("gateway.order_id", orderID),
	))
	defer span.End()

	logger := s.logger.With(
		zap.String("event", kind),
		zap.String("paymentId", paymentID),
		zap.String("orderId", orderID),
	)

	tx, err := s.transactions.Locate(ctx, paymentID, orderID)
	if err != nil {
		return "", err
	}
	if tx == nil {
		logger.Info("no transaction matches gateway ids; event skipped")
		return ResultTransactionNotFound, nil
	}

	updated, transition, err := s.transactions.ApplyOutcome(ctx, tx, outcome, patch)
	if err != nil {
		return "", err
	}
	if !transition.Writes() {
		return ResultSkipped, nil
	}

	if transition.SyncBooking {
		if err := s.synchronizer.Sync(ctx, updated, outcome); err != nil {
			return "", fmt.Errorf("transaction %s is %s but booking sync failed: %w", updated.ID.Hex(), updated.Status, err)
		}
	}

	logger.Info("webhook event reconciled",
		zap.String("transactionId", updated.ID.Hex()),
		zap.String("status", string(updated.Status)),
		zap.String("decision", transition.Decision.String()),
	)
	return ResultProcessed, nil
}
