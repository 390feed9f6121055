package repository

import (
	"context"

	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Append(ctx context.Context, msg *domain.Message) error
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Message, error)
}

type repo struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) Repository {
	return &repo{db: db}
}

// Append inserts msg; the database assigns its sequence number
func (r *repo) Append(ctx context.Context, msg *domain.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListByBooking returns the messages of a booking in timestamp then insertion order
func (r *repo) ListByBooking(ctx context.Context, bookingID string) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("sent_at ASC").
		Order("seq ASC").
		Find(&messages).Error
	return messages, err
}
