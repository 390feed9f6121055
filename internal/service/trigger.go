package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aniladanir/pharmacy-messenger-service/internal/cache"
	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"github.com/aniladanir/pharmacy-messenger-service/internal/observability/metrics"
	"github.com/aniladanir/pharmacy-messenger-service/internal/scheduler"
	"github.com/aniladanir/pharmacy-messenger-service/internal/webhook"
	"github.com/google/uuid"
)

const (
	DefaultNotifyDelay    = 2 * time.Second
	DefaultPublishTimeout = 15 * time.Second
	processedEventTTL     = 24 * time.Hour
)

// BookingNotifier sends a message about a booking to a customer.
type BookingNotifier interface {
	SendBookingMessage(ctx context.Context, bookingID, to, body string) *domain.Message
}

type TriggerConfig struct {
	Endpoint       *webhook.Endpoint
	Poster         webhookPoster
	Notifier       BookingNotifier
	Scheduler      *scheduler.Scheduler
	Cache          cache.Cache
	NotifyDelay    time.Duration
	// PublishTimeout bounds one delivery to the workflow endpoint, retries included.
	PublishTimeout time.Duration
	Metrics        *metrics.MessagingMetrics
	Logger         *slog.Logger
}

// WorkflowTrigger forwards domain events to the workflow automation endpoint
// and accepts the events it sends back.
type WorkflowTrigger struct {
	endpoint       *webhook.Endpoint
	poster         webhookPoster
	notifier       BookingNotifier
	scheduler      *scheduler.Scheduler
	cache          cache.Cache
	notifyDelay    time.Duration
	publishTimeout time.Duration
	metrics        *metrics.MessagingMetrics
	logger         *slog.Logger
}

func NewWorkflowTrigger(cfg TriggerConfig) *WorkflowTrigger {
	if cfg.Endpoint == nil {
		cfg.Endpoint = webhook.NewEndpoint()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = scheduler.New(cfg.Logger)
	}
	if cfg.NotifyDelay <= 0 {
		cfg.NotifyDelay = DefaultNotifyDelay
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultPublishTimeout
	}
	return &WorkflowTrigger{
		endpoint:       cfg.Endpoint,
		poster:         cfg.Poster,
		notifier:       cfg.Notifier,
		scheduler:      cfg.Scheduler,
		cache:          cfg.Cache,
		notifyDelay:    cfg.NotifyDelay,
		publishTimeout: cfg.PublishTimeout,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
	}
}

// ConfigureEndpoint sets the workflow automation url.
func (t *WorkflowTrigger) ConfigureEndpoint(url string) error {
	if err := t.endpoint.Configure(url); err != nil {
		return err
	}
	t.logger.Info("workflow webhook configured", "url", url)
	return nil
}

func (t *WorkflowTrigger) Endpoint() (string, bool) {
	return t.endpoint.URL()
}

// Publish delivers an event to the workflow endpoint and reports whether it
// was accepted. Failures, timeouts included, are logged and never returned.
func (t *WorkflowTrigger) Publish(ctx context.Context, kind domain.EventKind, payload any) bool {
	evLogger := t.logger.With(slog.String("eventType", string(kind)))

	url, ok := t.endpoint.URL()
	if !ok || t.poster == nil {
		evLogger.Warn("workflow webhook not configured, event dropped")
		t.metrics.ObserveWorkflowPublish(string(kind), "skipped")
		return false
	}

	event := domain.WorkflowEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	postCtx, cancel := context.WithTimeout(ctx, t.publishTimeout)
	defer cancel()
	resp, err := t.poster.PostJSON(postCtx, url, event)
	if err != nil {
		evLogger.Error("failed to trigger workflow", "eventId", event.ID, "error", err.Error())
		t.metrics.ObserveWorkflowPublish(string(kind), "failed")
		return false
	}
	t.metrics.ObserveWorkflowPublish(string(kind), "delivered")
	evLogger.Info("workflow triggered", "eventId", event.ID, "requestId", resp.RequestID)

	if kind == domain.EventBookingUpdated {
		t.scheduleStatusNotification(evLogger, payload)
	}
	return true
}

// scheduleStatusNotification tells the customer about the new status once
// the automation had time to process the update.
func (t *WorkflowTrigger) scheduleStatusNotification(logger *slog.Logger, payload any) {
	var p domain.BookingEventPayload
	switch v := payload.(type) {
	case domain.BookingEventPayload:
		p = v
	case *domain.BookingEventPayload:
		if v == nil {
			return
		}
		p = *v
	default:
		logger.Warn("booking update payload has unexpected type", "type", fmt.Sprintf("%T", payload))
		return
	}
	if t.notifier == nil || p.Customer.PhoneNumber == "" {
		return
	}

	_, err := t.scheduler.After(t.notifyDelay, "status-notification", func(ctx context.Context) {
		logger.Info("sending status notification", "bookingId", p.Booking.ID, "status", p.Booking.Status)
		t.notifier.SendBookingMessage(ctx, p.Booking.ID, p.Customer.PhoneNumber, StatusMessage(p.Booking.Status))
	})
	if err != nil {
		logger.Error("failed to schedule status notification", "bookingId", p.Booking.ID, "error", err.Error())
	}
}

// ReceiveEvent handles an event posted back by the workflow endpoint.
// Unknown event types are reported in the result rather than as an error.
func (t *WorkflowTrigger) ReceiveEvent(ctx context.Context, ev domain.InboundEvent) domain.InboundResult {
	evLogger := t.logger.With(slog.String("eventType", ev.EventType), slog.String("eventId", ev.ID))
	evLogger.Info("received workflow event")

	var message string
	switch ev.EventType {
	case domain.InboundMessageProcessed:
		message = "Message processing event received"
	case domain.InboundBookingConfirmation:
		message = "Booking confirmation event received"
	case domain.InboundReminderScheduled:
		message = "Reminder scheduling event received"
	default:
		evLogger.Warn("rejected workflow event", "error", domain.ErrUnknownEventType.Error())
		t.metrics.ObserveWorkflowCallback("unknown", "rejected")
		return domain.InboundResult{
			Success: false,
			Message: fmt.Sprintf("Unknown event type: %s", ev.EventType),
		}
	}

	if t.alreadyProcessed(ctx, evLogger, ev.ID) {
		t.metrics.ObserveWorkflowCallback(ev.EventType, "duplicate")
		return domain.InboundResult{Success: true, Message: "Event already processed", Data: ev.Data}
	}

	t.metrics.ObserveWorkflowCallback(ev.EventType, "accepted")
	return domain.InboundResult{Success: true, Message: message, Data: ev.Data}
}

// alreadyProcessed marks eventID as seen and reports whether it was seen before.
// Events without id, or a cache failure, are never treated as duplicates.
func (t *WorkflowTrigger) alreadyProcessed(ctx context.Context, logger *slog.Logger, eventID string) bool {
	if eventID == "" || t.cache == nil {
		return false
	}
	first, err := t.cache.SetNX(ctx, "workflow_event:"+eventID, "1", processedEventTTL)
	if err != nil {
		logger.Error("failed to record workflow event", "error", err.Error())
		return false
	}
	return !first
}

