// Package channel delivers customer messages over the chat messaging provider.
package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aniladanir/pharmacy-messenger-service/internal/cache"
	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"github.com/aniladanir/pharmacy-messenger-service/internal/webhook"
)

const sentMessageTTL = 24 * time.Hour

// Sender transmits an outgoing message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg domain.Message) (string, error)
}

type poster interface {
	PostJSON(ctx context.Context, url string, payload any) (*webhook.Response, error)
}

// WhatsApp posts messages to the provider's send API.
type WhatsApp struct {
	apiURL string
	client poster
	cache  cache.Cache
	logger *slog.Logger
}

func NewWhatsApp(apiURL string, client poster, cache cache.Cache, logger *slog.Logger) *WhatsApp {
	return &WhatsApp{
		apiURL: apiURL,
		client: client,
		cache:  cache,
		logger: logger,
	}
}

func (w *WhatsApp) Send(ctx context.Context, msg domain.Message) (string, error) {
	payload := map[string]string{
		"from": msg.From,
		"to":   msg.To,
		"body": msg.Body,
	}

	resp, err := w.client.PostJSON(ctx, w.apiURL, payload)
	if err != nil {
		return "", err
	}

	var result domain.ChannelResponse
	if err := json.Unmarshal(resp.Body, &result); err != nil || result.MessageID == "" {
		// provider accepted the message without telling us its id
		w.logger.Warn("provider response carries no message id", "messageId", msg.ID, "requestId", resp.RequestID)
		return msg.ID, nil
	}

	if err := w.cacheMessage(ctx, result.MessageID, msg.ID); err != nil {
		w.logger.Error("failed to cache sent message", "messageId", msg.ID, "error", err.Error())
	}
	return result.MessageID, nil
}

// cacheMessage writes given message attributes to cache
func (w *WhatsApp) cacheMessage(ctx context.Context, providerID, msgID string) error {
	if w.cache == nil {
		return nil
	}
	key := fmt.Sprintf("sent_msg:%s", providerID)

	value := map[string]any{
		"messageId":  msgID,
		"providerId": providerID,
		"sentAt":     time.Now().UTC(),
	}

	jsonVal, _ := json.Marshal(value)
	return w.cache.Set(ctx, key, string(jsonVal), sentMessageTTL)
}

// Log is used when no provider is configured; it only records the message.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Send(_ context.Context, msg domain.Message) (string, error) {
	l.logger.Info("message sent", "messageId", msg.ID, "to", msg.To, "body", msg.Body)
	return msg.ID, nil
}
