package payment

import "errors"

var (
	// ErrInvalidSignature rejects a delivery before anything is processed.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedEvent is returned when a recognized event lacks the entities it needs.
	ErrMalformedEvent = errors.New("malformed webhook event")
	// ErrConcurrentUpdate means the transaction changed between read and write.
	ErrConcurrentUpdate = errors.New("transaction was updated concurrently")
)
