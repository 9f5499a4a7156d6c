package models

import "encoding/json"

// Gateway event kinds handled by the webhook receiver.
const (
	EventPaymentCaptured   = "payment.captured"
	EventPaymentFailed     = "payment.failed"
	EventPaymentAuthorized = "payment.authorized"
	EventOrderPaid         = "order.paid"
)

// WebhookEvent is the envelope the gateway posts to the webhook receiver.
type WebhookEvent struct {
	Event     string         `json:"event"`
	AccountID string         `json:"account_id,omitempty"`
	Contains  []string       `json:"contains,omitempty"`
	CreatedAt int64          `json:"created_at,omitempty"`
	Payload   WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	Payment *EntityWrapper `json:"payment,omitempty"`
	Order   *EntityWrapper `json:"order,omitempty"`
}

// EntityWrapper keeps the raw entity bytes so they can be stored verbatim.
type EntityWrapper struct {
	Entity json.RawMessage `json:"entity"`
}

// PaymentEntity holds the payment fields reconciliation relies on.
type PaymentEntity struct {
	ID               string `json:"id"`
	OrderID          string `json:"order_id"`
	Method           string `json:"method"`
	Status           string `json:"status"`
	Amount           int64  `json:"amount"`
	Currency         string `json:"currency"`
	Captured         bool   `json:"captured"`
	ErrorCode        string `json:"error_code,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// OrderEntity holds the order fields reconciliation relies on.
type OrderEntity struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	Receipt    string `json:"receipt,omitempty"`
}

// WebhookAck is the response body returned to the gateway.
type WebhookAck struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
