package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidEndpoint   = errors.New("invalid endpoint url")
	ErrInvalidStatus     = errors.New("invalid booking status")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrInvalidBooking    = errors.New("invalid booking")
	ErrInvalidMessage    = errors.New("invalid message")
	ErrConcurrentUpdate  = errors.New("booking was modified concurrently")
	ErrDeliveryFailure   = errors.New("delivery failure")
	ErrUnknownEventType  = errors.New("unknown event type")
)
