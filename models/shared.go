package models

import "time"

// ReconciledPayload is queued after a booking was changed by a payment event.
type ReconciledPayload struct {
	TransactionID   string          `json:"transactionId"`
	BookingID       string          `json:"bookingId"`
	BookingType     BookingType     `json:"bookingType"`
	UserID          string          `json:"userId"`
	TransactionType TransactionType `json:"transactionType"`
	Outcome         string          `json:"outcome"` // "completed" or "failed"
	Amount          int64           `json:"amount"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	OccurredAt      time.Time       `json:"occurredAt"`
}
