package payment

import (
	"encoding/json"
	"errors"
	"fmt"

	"studyspace/models"
)

// GatewayEvent is one parsed webhook delivery. The concrete types are
// PaymentCaptured, PaymentFailed, PaymentAuthorized, OrderPaid and UnknownEvent.
type GatewayEvent interface {
	Kind() string
}

type PaymentCaptured struct {
	Payment    models.PaymentEntity
	PaymentRaw map[string]interface{}
}

type PaymentFailed struct {
	Payment    models.PaymentEntity
	PaymentRaw map[string]interface{}
}

// PaymentAuthorized is an authorization without capture (manual-capture flows).
type PaymentAuthorized struct {
	Payment    models.PaymentEntity
	PaymentRaw map[string]interface{}
}

// OrderPaid carries the order and, normally, the payment that settled it.
type OrderPaid struct {
	Order      models.OrderEntity
	OrderRaw   map[string]interface{}
	Payment    models.PaymentEntity
	PaymentRaw map[string]interface{}
}

// UnknownEvent is any kind this service does not act on.
type UnknownEvent struct {
	Name string
}

func (PaymentCaptured) Kind() string   { return models.EventPaymentCaptured }
func (PaymentFailed) Kind() string     { return models.EventPaymentFailed }
func (PaymentAuthorized) Kind() string { return models.EventPaymentAuthorized }
func (OrderPaid) Kind() string         { return models.EventOrderPaid }
func (e UnknownEvent) Kind() string    { return e.Name }

// ParseEvent decodes a raw webhook body into its typed variant.
func ParseEvent(body []byte) (GatewayEvent, error) {
	var envelope models.WebhookEvent
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if envelope.Event == "" {
		return nil, fmt.Errorf("%w: missing event kind", ErrMalformedEvent)
	}

	switch envelope.Event {
	case models.EventPaymentCaptured, models.EventPaymentFailed, models.EventPaymentAuthorized:
		payment, raw, err := decodePayment(envelope.Event, envelope.Payload.Payment)
		if err != nil {
			return nil, err
		}
		switch envelope.Event {
		case models.EventPaymentCaptured:
			return PaymentCaptured{Payment: payment, PaymentRaw: raw}, nil
		case models.EventPaymentFailed:
			return PaymentFailed{Payment: payment, PaymentRaw: raw}, nil
		default:
			return PaymentAuthorized{Payment: payment, PaymentRaw: raw}, nil
		}

	case models.EventOrderPaid:
		var order models.OrderEntity
		orderRaw, err := decodeEntity(envelope.Payload.Order, &order)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: payload.order: %v", ErrMalformedEvent, envelope.Event, err)
		}
		if order.ID == "" {
			return nil, fmt.Errorf("%w: %s: payload.order.entity.id is required", ErrMalformedEvent, envelope.Event)
		}
		event := OrderPaid{Order: order, OrderRaw: orderRaw}
		if envelope.Payload.Payment != nil {
			payment, raw, err := decodePayment(envelope.Event, envelope.Payload.Payment)
			if err != nil {
				return nil, err
			}
			event.Payment, event.PaymentRaw = payment, raw
		}
		return event, nil

	default:
		return UnknownEvent{Name: envelope.Event}, nil
	}
}

func decodePayment(kind string, wrapper *models.EntityWrapper) (models.PaymentEntity, map[string]interface{}, error) {
	var payment models.PaymentEntity
	raw, err := decodeEntity(wrapper, &payment)
	if err != nil {
		return payment, nil, fmt.Errorf("%w: %s: payload.payment: %v", ErrMalformedEvent, kind, err)
	}
	if payment.ID == "" {
		return payment, nil, fmt.Errorf("%w: %s: payload.payment.entity.id is required", ErrMalformedEvent, kind)
	}
	return payment, raw, nil
}

var errEntityMissing = errors.New("entity is missing")

// decodeEntity fills typed and also returns the entity as a generic map for storage.
func decodeEntity(wrapper *models.EntityWrapper, typed interface{}) (map[string]interface{}, error) {
	if wrapper == nil || len(wrapper.Entity) == 0 || string(wrapper.Entity) == "null" {
		return nil, errEntityMissing
	}
	if err := json.Unmarshal(wrapper.Entity, typed); err != nil {
		return nil, err
	}
	raw := map[string]interface{}{}
	if err := json.Unmarshal(wrapper.Entity, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
