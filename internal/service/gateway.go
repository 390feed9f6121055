package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aniladanir/pharmacy-messenger-service/internal/channel"
	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"github.com/aniladanir/pharmacy-messenger-service/internal/observability/metrics"
	"github.com/aniladanir/pharmacy-messenger-service/internal/webhook"
	"github.com/google/uuid"
)

// DefaultPharmacyNumber is the channel address messages are sent from.
const DefaultPharmacyNumber = "+39000000000"

type MessageAppender interface {
	Append(ctx context.Context, msg domain.Message) error
}

type webhookPoster interface {
	PostJSON(ctx context.Context, url string, payload any) (*webhook.Response, error)
}

type GatewayConfig struct {
	Endpoint *webhook.Endpoint
	Channel  channel.Sender
	Thread   MessageAppender
	Poster   webhookPoster
	Metrics  *metrics.MessagingMetrics
	Logger   *slog.Logger
	From     string
	// Timeout bounds each channel send and each webhook notification.
	Timeout  time.Duration
}

// NotificationGateway sends and receives customer messages over the messaging channel.
type NotificationGateway struct {
	endpoint *webhook.Endpoint
	channel  channel.Sender
	thread   MessageAppender
	poster   webhookPoster
	metrics  *metrics.MessagingMetrics
	logger   *slog.Logger
	from     string
	timeout  time.Duration
	now      func() time.Time
}

func NewNotificationGateway(cfg GatewayConfig) *NotificationGateway {
	if cfg.Endpoint == nil {
		cfg.Endpoint = webhook.NewEndpoint()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Channel == nil {
		cfg.Channel = channel.NewLog(cfg.Logger)
	}
	if cfg.From == "" {
		cfg.From = DefaultPharmacyNumber
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultPublishTimeout
	}
	return &NotificationGateway{
		endpoint: cfg.Endpoint,
		channel:  cfg.Channel,
		thread:   cfg.Thread,
		poster:   cfg.Poster,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		from:     cfg.From,
		timeout:  cfg.Timeout,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// ConfigureEndpoint sets the url notified about sent and received messages.
func (g *NotificationGateway) ConfigureEndpoint(url string) error {
	if err := g.endpoint.Configure(url); err != nil {
		return err
	}
	g.logger.Info("messaging webhook configured", "url", url)
	return nil
}

func (g *NotificationGateway) Endpoint() (string, bool) {
	return g.endpoint.URL()
}

// SendMessage transmits body to the customer at to. It returns nil when the
// channel could not deliver the message.
func (g *NotificationGateway) SendMessage(ctx context.Context, to, body string) *domain.Message {
	return g.send(ctx, "", to, body)
}

// SendBookingMessage is SendMessage for a message that belongs to a booking.
func (g *NotificationGateway) SendBookingMessage(ctx context.Context, bookingID, to, body string) *domain.Message {
	return g.send(ctx, bookingID, to, body)
}

func (g *NotificationGateway) send(ctx context.Context, bookingID, to, body string) *domain.Message {
	msg := domain.Message{
		ID:        uuid.NewString(),
		From:      g.from,
		To:        to,
		Body:      body,
		Timestamp: g.now(),
		Direction: domain.DirectionOutgoing,
		Processed: true,
	}.ForBooking(bookingID)

	msgLogger := g.logger.With(slog.String("messageId", msg.ID), slog.String("bookingId", bookingID))

	sendCtx, cancel := context.WithTimeout(ctx, g.timeout)
	providerID, err := g.channel.Send(sendCtx, msg)
	cancel()
	if err != nil {
		msgLogger.Error("failed to send message", "error", err.Error())
		g.metrics.ObserveOutbound("failed")
		return nil
	}
	g.metrics.ObserveOutbound("sent")
	msgLogger.Info("message is successfuly sent", "providerId", providerID)

	if g.thread != nil {
		if err := g.thread.Append(ctx, msg); err != nil {
			msgLogger.Error("failed to append message to conversation", "error", err.Error())
		}
	}

	g.notifyEndpoint(ctx, "message_sent", map[string]any{"message": msg})
	return &msg
}

// ProcessIncoming classifies an inbound message and reports it to the messaging webhook.
func (g *NotificationGateway) ProcessIncoming(ctx context.Context, from, body string) IncomingResult {
	result := ClassifyIncoming(body)
	g.metrics.ObserveInbound(string(result.Action))
	g.logger.Info("processed incoming message", "from", from, "processed", result.Processed, "action", result.Action)

	g.notifyEndpoint(ctx, "message_received", map[string]any{
		"from":   from,
		"body":   body,
		"result": result,
	})
	return result
}

// StatusMessage returns the canned text for status.
func (g *NotificationGateway) StatusMessage(status domain.BookingStatus) string {
	return StatusMessage(status)
}

func (g *NotificationGateway) notifyEndpoint(ctx context.Context, event string, data map[string]any) {
	url, ok := g.endpoint.URL()
	if !ok || g.poster == nil {
		return
	}
	data["event"] = event

	postCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	if _, err := g.poster.PostJSON(postCtx, url, data); err != nil {
		g.logger.Error("failed to notify messaging webhook", "event", event, "error", err.Error())
	}
}
