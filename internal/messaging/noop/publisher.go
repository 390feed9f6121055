package noop

import "context"

// Publisher is a no-op EventPublisher used when no broker is configured.
type Publisher struct{}

func (Publisher) PublishJSON(_ context.Context, _ string, _ any) error { return nil }

func (Publisher) Close() error { return nil }
