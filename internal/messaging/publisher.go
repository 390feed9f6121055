// Package messaging mirrors domain events to a message broker for other consumers.
package messaging

import "context"

// EventPublisher publishes a JSON encoded event under a routing key.
type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}
