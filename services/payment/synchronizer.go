package payment

import (
	"context"
	"fmt"
	"time"

	bookingRepo "studyspace/database/repository/booking"
	"studyspace/models"
	"studyspace/utils"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// BookingSynchronizer mirrors a transaction outcome onto its booking.
type BookingSynchronizer interface {
	Sync(ctx context.Context, tx *models.Transaction, outcome Outcome) error
}

// ReconciliationPublisher announces bookings changed by a payment event.
type ReconciliationPublisher interface {
	PublishReconciled(ctx context.Context, payload models.ReconciledPayload) error
}

// DefaultBookingSynchronizer is the only writer of bookings driven by payment events.
type DefaultBookingSynchronizer struct {
	bookings  *bookingRepo.Registry
	locker    utils.Locker
	publisher ReconciliationPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingSynchronizer wires the booking stores and the per-booking lease.
// publisher may be nil.
func NewBookingSynchronizer(bookings *bookingRepo.Registry, locker utils.Locker, publisher ReconciliationPublisher, logger *zap.Logger) *DefaultBookingSynchronizer {
	return &DefaultBookingSynchronizer{
		bookings:  bookings,
		locker:    locker,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Sync applies the booking side of a completed or failed payment. It is safe to
// call repeatedly for the same transaction and outcome.
func (s *DefaultBookingSynchronizer) Sync(ctx context.Context, tx *models.Transaction, outcome Outcome) error {
	if outcome != OutcomeCompleted && outcome != OutcomeFailed {
		return nil
	}

	logger := s.logger.With(
		zap.String("transactionId", tx.ID.Hex()),
		zap.String("bookingId", tx.BookingID.Hex()),
		zap.String("bookingType", string(tx.BookingType)),
		zap.String("transactionType", string(tx.TransactionType)),
		zap.String("outcome", string(outcome)),
	)

	switch tx.TransactionType {
	case models.TransactionTypeBooking:
	case models.TransactionTypeRenewal:
		if outcome == OutcomeFailed {
			// The confirmed occupancy period stays as it is.
			logger.Info("renewal payment failed; booking left untouched")
			return nil
		}
	default:
		logger.Info("transaction type is not synchronized to bookings")
		return nil
	}

	if tx.BookingID.IsZero() {
		logger.Warn("transaction has no booking reference")
		return nil
	}

	ctx, span := tracer.Start(ctx, "payment.SyncBooking", trace.WithAttributes(
		attribute.String("booking.id", tx.BookingID.Hex()),
		attribute.String("booking.type", string(tx.BookingType)),
	))
	defer span.End()

	repo, err := s.bookings.For(tx.BookingType)
	if err != nil {
		return fmt.Errorf("sync booking for transaction %s: %w", tx.ID.Hex(), err)
	}

	release, err := s.locker.Acquire(ctx, utils.BookingLockPrefix+tx.BookingID.Hex())
	if err != nil {
		return fmt.Errorf("lock booking %s: %w", tx.BookingID.Hex(), err)
	}
	defer release()

	booking, err := repo.GetByID(ctx, tx.BookingID)
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if booking == nil {
		logger.Info("booking not found; nothing to synchronize")
		return nil
	}

	now := s.now()
	patch, ok := s.plan(logger, booking, tx, outcome, now)
	if !ok {
		span.SetAttributes(attribute.Bool("applied", false))
		return nil
	}

	applied, err := repo.ApplyPatch(ctx, booking.ID, patch)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("persist booking: %w", err)
	}
	span.SetAttributes(attribute.Bool("applied", applied))
	if !applied {
		// Either the booking vanished or the same renewal landed concurrently.
		logger.Info("booking update matched nothing; already applied or removed")
		return nil
	}

	logger.Info("booking synchronized with payment outcome")
	s.publish(ctx, logger, tx, booking, patch, outcome, now)
	return nil
}

// plan computes the single patch for this outcome. ok is false when the
// booking already reflects it.
func (s *DefaultBookingSynchronizer) plan(logger *zap.Logger, booking *models.Booking, tx *models.Transaction, outcome Outcome, now time.Time) (models.BookingPatch, bool) {
	switch {
	case tx.TransactionType == models.TransactionTypeBooking && outcome == OutcomeCompleted:
		return planBookingCompleted(logger, booking, now)
	case tx.TransactionType == models.TransactionTypeBooking && outcome == OutcomeFailed:
		return planBookingFailed(logger, booking)
	case tx.TransactionType == models.TransactionTypeRenewal && outcome == OutcomeCompleted:
		return planRenewalCompleted(logger, booking, tx, now)
	}
	return models.BookingPatch{}, false
}

func planBookingCompleted(logger *zap.Logger, booking *models.Booking, now time.Time) (models.BookingPatch, bool) {
	if booking.Status == models.BookingCompleted && booking.PaymentStatus == models.BookingCompleted {
		logger.Info("booking already completed")
		return models.BookingPatch{}, false
	}
	completed := models.BookingCompleted
	paidAt := now
	return models.BookingPatch{
		Status:        &completed,
		PaymentStatus: &completed,
		PaymentDate:   &paidAt,
	}, true
}

func planBookingFailed(logger *zap.Logger, booking *models.Booking) (models.BookingPatch, bool) {
	if booking.PaymentStatus == models.BookingCompleted {
		logger.Warn("failed payment for a booking that is already paid; not downgrading")
		return models.BookingPatch{}, false
	}
	if booking.Status == models.BookingFailed && booking.PaymentStatus == models.BookingFailed {
		logger.Info("booking already marked failed")
		return models.BookingPatch{}, false
	}
	failed := models.BookingFailed
	return models.BookingPatch{Status: &failed, PaymentStatus: &failed}, true
}

func planRenewalCompleted(logger *zap.Logger, booking *models.Booking, tx *models.Transaction, now time.Time) (models.BookingPatch, bool) {
	if booking.HasRenewal(tx.ID) {
		logger.Info("renewal already recorded for this transaction")
		return models.BookingPatch{}, false
	}

	// Legacy bookings created without a duration count as one month.
	months := booking.Months
	if months == 0 {
		months = 1
	}
	months += tx.AdditionalMonths
	total := booking.TotalPrice + tx.Amount

	previousEnd := tx.PreviousEndDate
	if previousEnd == nil {
		previousEnd = booking.EndDate
	}

	patch := models.BookingPatch{
		Months:     &months,
		TotalPrice: &total,
		RenewalEntry: &models.RenewalHistoryEntry{
			PreviousEndDate:  previousEnd,
			NewEndDate:       tx.NewEndDate,
			AdditionalMonths: tx.AdditionalMonths,
			AdditionalAmount: tx.Amount,
			PreviousAmount:   total - tx.Amount,
			RenewedAt:        now,
			RenewedBy:        tx.UserID,
			TransactionID:    tx.ID,
		},
	}
	if tx.NewEndDate != nil {
		end := *tx.NewEndDate
		patch.EndDate = &end
	}

	if c := tx.AppliedCoupon; c != nil && c.CouponCode != "" {
		appliedAt := now
		if c.AppliedAt != nil {
			appliedAt = *c.AppliedAt
		}
		patch.CouponEntry = &models.CouponHistoryEntry{
			CouponID:        c.CouponID,
			CouponCode:      c.CouponCode,
			DiscountAmount:  c.DiscountAmount,
			CouponType:      c.CouponType,
			CouponValue:     c.CouponValue,
			AppliedAt:       appliedAt,
			TransactionType: models.TransactionTypeRenewal,
			TransactionID:   tx.ID,
		}
	}
	return patch, true
}

func (s *DefaultBookingSynchronizer) publish(ctx context.Context, logger *zap.Logger, tx *models.Transaction, booking *models.Booking, patch models.BookingPatch, outcome Outcome, now time.Time) {
	if s.publisher == nil {
		return
	}
	endDate := booking.EndDate
	if patch.EndDate != nil {
		endDate = patch.EndDate
	}
	payload := models.ReconciledPayload{
		TransactionID:   tx.ID.Hex(),
		BookingID:       booking.ID.Hex(),
		BookingType:     tx.BookingType,
		UserID:          tx.UserID.Hex(),
		TransactionType: tx.TransactionType,
		Outcome:         string(outcome),
		Amount:          tx.Amount,
		EndDate:         endDate,
		OccurredAt:      now,
	}
	// The booking is already persisted; a lost notification is not worth a gateway retry.
	if err := s.publisher.PublishReconciled(ctx, payload); err != nil {
		logger.Warn("failed to enqueue reconciliation notification", zap.Error(err))
	}
}
