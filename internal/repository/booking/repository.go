package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, b *domain.Booking) error
	Get(ctx context.Context, id string) (*domain.Booking, error)
	LatestForCustomer(ctx context.Context, customerID string) (*domain.Booking, error)
	LatestOpenForCustomer(ctx context.Context, customerID string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, b domain.Booking, previous domain.Booking) error
}

type repo struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) Repository {
	return &repo{db: db}
}

// Create inserts a booking together with its medication lines
func (r *repo) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

// Get returns the booking with its medication lines
func (r *repo) Get(ctx context.Context, id string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).Preload("Medications").First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// LatestForCustomer returns the most recently created booking of a customer
func (r *repo) LatestForCustomer(ctx context.Context, customerID string) (*domain.Booking, error) {
	return r.latest(r.db.WithContext(ctx).Where("customer_id = ?", customerID), customerID)
}

// LatestOpenForCustomer returns the most recently created booking of a customer
// that is neither delivered nor cancelled
func (r *repo) LatestOpenForCustomer(ctx context.Context, customerID string) (*domain.Booking, error) {
	query := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID, domain.OpenBookingStatuses())
	return r.latest(query, customerID)
}

func (r *repo) latest(query *gorm.DB, customerID string) (*domain.Booking, error) {
	var b domain.Booking
	err := query.
		Preload("Medications").
		Order("created_at DESC").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("booking of customer %s: %w", customerID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateStatus writes the new status of b only if the stored row still carries the
// updated_at of previous, and records the change in the status history.
func (r *repo) UpdateStatus(ctx context.Context, b domain.Booking, previous domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Booking{}).
			Where("id = ? AND updated_at = ?", b.ID, previous.UpdatedAt).
			UpdateColumns(map[string]any{
				"status":     b.Status,
				"updated_at": b.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("booking %s: %w", b.ID, domain.ErrConcurrentUpdate)
		}

		return tx.Create(&domain.StatusChange{
			BookingID:  b.ID,
			FromStatus: previous.Status,
			ToStatus:   b.Status,
			ChangedAt:  b.UpdatedAt,
		}).Error
	})
}

// Models returns the tables owned by this repository
func Models() []any {
	return []any{&domain.Booking{}, &domain.MedicationLine{}, &domain.StatusChange{}}
}
