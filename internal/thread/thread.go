// Package thread keeps the conversation between the pharmacy and its customers.
package thread

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
)

// Store persists messages in insertion order.
type Store interface {
	Append(ctx context.Context, msg *domain.Message) error
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Message, error)
}

type Thread struct {
	store Store
}

func New(store Store) *Thread {
	return &Thread{store: store}
}

// Append stores msg. Only an empty body or an unknown direction are rejected.
func (t *Thread) Append(ctx context.Context, msg domain.Message) error {
	if strings.TrimSpace(msg.Body) == "" {
		return fmt.Errorf("%w: empty body", domain.ErrInvalidMessage)
	}
	if !msg.Direction.IsValid() {
		return fmt.Errorf("%w: direction %q", domain.ErrInvalidMessage, msg.Direction)
	}
	return t.store.Append(ctx, &msg)
}

// ForBooking returns the messages of a booking oldest first. Messages with the
// same timestamp keep the order in which they were appended.
func (t *Thread) ForBooking(ctx context.Context, bookingID string) ([]domain.Message, error) {
	msgs, err := t.store.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs, nil
}
