package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// EventKind names a domain event published to the workflow endpoint.
type EventKind string

const (
	EventBookingCreated   EventKind = "booking_created"
	EventBookingUpdated   EventKind = "booking_updated"
	EventBookingCancelled EventKind = "booking_cancelled"
	EventMessageReceived  EventKind = "message_received"
)

// RoutingKey is the event bus routing key of k, e.g. "booking.updated".
func (k EventKind) RoutingKey() string {
	return strings.Replace(string(k), "_", ".", 1)
}

// WorkflowEvent is the envelope posted to the workflow endpoint. It is not persisted.
type WorkflowEvent struct {
	ID         string    `json:"id"`
	Kind       EventKind `json:"event"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type BookingEventPayload struct {
	Booking        Booking       `json:"booking"`
	Customer       Customer      `json:"customer"`
	PreviousStatus BookingStatus `json:"previousStatus,omitempty"`
}

type MessageEventPayload struct {
	Message  Message  `json:"message"`
	Booking  *Booking `json:"booking,omitempty"`
	Customer Customer `json:"customer"`
}

// Inbound event types accepted from the workflow endpoint.
const (
	InboundMessageProcessed    = "message_processed"
	InboundBookingConfirmation = "booking_confirmation"
	InboundReminderScheduled   = "reminder_scheduled"
)

// InboundEvent is what the workflow endpoint posts back to us.
type InboundEvent struct {
	ID        string          `json:"id,omitempty"`
	EventType string          `json:"eventType"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type InboundResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
