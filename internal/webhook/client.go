package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"github.com/aniladanir/retry"
	"github.com/google/uuid"
)

const (
	maxResponseBody    = 1 << 20
	DefaultMaxAttempts = 3
)

// Response is a webhook reply that was accepted with a 2XX status.
type Response struct {
	StatusCode int
	RequestID  string
	Body       []byte
}

// Client posts JSON payloads to webhooks, retrying transport errors and 5XX replies.
type Client struct {
	httpClient *http.Client
	retrier    *retry.Retrier
	logger     *slog.Logger
}

// NewClient builds a client whose requests time out after timeout and are tried at
// most maxAttempts times (DefaultMaxAttempts when nil). opts tune the backoff.
func NewClient(logger *slog.Logger, timeout time.Duration, maxAttempts *int, opts ...retry.Option) (*Client, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("webhook timeout must be positive, got %s", timeout)
	}
	attempts := DefaultMaxAttempts
	if maxAttempts != nil {
		attempts = *maxAttempts
	}
	// the retrier treats zero attempts as unlimited
	if attempts <= 0 {
		return nil, fmt.Errorf("webhook max attempts must be positive, got %d", attempts)
	}

	retrierOpts := append([]retry.Option{retry.WithMaxAttemps(attempts)}, opts...)
	retrier, err := retry.New(retrierOpts...)
	if err != nil {
		return nil, fmt.Errorf("encountered error when initializing retrier: %w", err)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retrier: retrier,
		logger:  logger,
	}, nil
}

// PostJSON delivers payload to url. Every failure is reported as domain.ErrDeliveryFailure.
func (c *Client) PostJSON(ctx context.Context, url string, payload any) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode payload: %w", domain.ErrDeliveryFailure, err)
	}

	requestID := uuid.NewString()
	reqLogger := c.logger.With(slog.String("requestId", requestID))

	var (
		result  *Response
		lastErr error
	)
	retryFunc := func(attempt int) (terminate bool) {
		retryLogger := reqLogger.With(slog.Int("attempt", attempt))

		resp, err := c.do(ctx, url, requestID, body)
		if err != nil {
			retryLogger.Error("failed to send request", "error", err.Error())
			lastErr = err
			return false
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			// 5XX status code indicates server error, try retry
			retryLogger.Error("response indicates error", "statusCode", resp.StatusCode)
			lastErr = fmt.Errorf("status code %d", resp.StatusCode)
			return false
		case resp.StatusCode >= http.StatusBadRequest:
			// 4XX indicates client error, no need to retry
			retryLogger.Error("response indicates error", "statusCode", resp.StatusCode)
			lastErr = fmt.Errorf("status code %d", resp.StatusCode)
		case resp.StatusCode >= http.StatusMultipleChoices:
			lastErr = fmt.Errorf("unexpected status code %d", resp.StatusCode)
		default:
			result = &Response{StatusCode: resp.StatusCode, RequestID: requestID, Body: respBody}
			lastErr = nil
		}
		return true
	}

	retrySuccess := <-c.retrier.Retry(ctx, retryFunc, true)
	if !retrySuccess && lastErr == nil {
		lastErr = ctx.Err()
		if lastErr == nil {
			lastErr = fmt.Errorf("retries exhausted")
		}
	}
	if lastErr != nil || result == nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDeliveryFailure, url, lastErr)
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, url, requestID string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	return c.httpClient.Do(req)
}
