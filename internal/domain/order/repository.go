// internal/domain/order/repository.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/bookstore-backend/internal/pkg/apperr"
	"gorm.io/gorm"
)

// Repository stores orders by id and by owner.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, email string) ([]Order, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// GormRepository is the gorm backed Repository
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new gorm order repository
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create inserts the order and its lines in one transaction.
func (r *GormRepository) Create(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("id = ?", id).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// ListByUser returns the user's orders, oldest first.
func (r *GormRepository) ListByUser(ctx context.Context, email string) ([]Order, error) {
	var orders []Order
	err := r.db.WithContext(ctx).
		Preload("Lines", preloadLines).
		Where("user_email = ?", email).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *GormRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check order id: %w", err)
	}
	return count > 0, nil
}
