package notification

import (
	"context"
	"fmt"

	"studyspace/models"

	"go.uber.org/zap"
)

// NotificationService delivers payment reconciliation notices to the user.
type NotificationService interface {
	NotifyPaymentReconciled(ctx context.Context, p models.ReconciledPayload) error
}

// LogNotificationService records notices in the service log. Email and SMS
// delivery belong to the platform's messaging stack.
type LogNotificationService struct {
	logger *zap.Logger
}

func NewLogNotificationService(logger *zap.Logger) (*LogNotificationService, error) {
	if logger == nil {
		return nil, fmt.Errorf("notification service initialization error: logger is nil")
	}
	return &LogNotificationService{logger: logger}, nil
}

// NotifyPaymentReconciled builds the user-facing message for the payload and logs it.
func (s *LogNotificationService) NotifyPaymentReconciled(ctx context.Context, p models.ReconciledPayload) error {
	if p.UserID == "" || p.BookingID == "" {
		return fmt.Errorf("NotifyPaymentReconciled: payload is missing user or booking id")
	}
	s.logger.Info("payment notification",
		zap.String("userId", p.UserID),
		zap.String("bookingId", p.BookingID),
		zap.String("title", Title(p)),
		zap.String("body", Body(p)),
	)
	return nil
}

// Title is the short headline for the notice.
func Title(p models.ReconciledPayload) string {
	switch {
	case p.Outcome == "failed":
		return "Payment failed"
	case p.TransactionType == models.TransactionTypeRenewal:
		return "Booking renewed"
	default:
		return "Booking confirmed"
	}
}

// Body is the notice text.
func Body(p models.ReconciledPayload) string {
	place := "seat"
	if p.BookingType == models.BookingTypeHostel {
		place = "bed"
	}
	switch {
	case p.Outcome == "failed":
		return fmt.Sprintf("Your payment of %d for your %s booking did not go through.", p.Amount, place)
	case p.TransactionType == models.TransactionTypeRenewal && p.EndDate != nil:
		return fmt.Sprintf("Your %s is renewed until %s.", place, p.EndDate.Format("02 Jan 2006"))
	default:
		return fmt.Sprintf("Your payment of %d was received and your %s booking is confirmed.", p.Amount, place)
	}
}
