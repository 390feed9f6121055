package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/aniladanir/pharmacy-messenger-service/internal/domain"
	"gorm.io/gorm"
)

type Repository interface {
	Get(ctx context.Context, id string) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
}

type repo struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repo) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	return r.first(ctx, "phone_number = ?", phone)
}

func (r *repo) first(ctx context.Context, query string, arg string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.WithContext(ctx).Where(query, arg).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("customer %s: %w", arg, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
