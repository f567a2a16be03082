package repositories

import (
	"context"
	"fmt"

	"github.com/infinitystore/backend/app/models"
	"gorm.io/gorm"
)

type OrderDetailRepository interface {
	BulkCreate(ctx context.Context, items []models.OrderDetail) error
	GetAll(ctx context.Context) ([]models.OrderDetail, error)
	GetByID(ctx context.Context, id uint) (*models.OrderDetail, error)
}

type gormOrderDetailRepository struct {
	db *gorm.DB
}

func NewOrderDetailRepository(db *gorm.DB) OrderDetailRepository {
	return &gormOrderDetailRepository{db: db}
}

func (r *gormOrderDetailRepository) BulkCreate(ctx context.Context, items []models.OrderDetail) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Omit("Order", "Product").Create(&items).Error; err != nil {
		return fmt.Errorf("create order details: %w", translate(err))
	}
	return nil
}

func (r *gormOrderDetailRepository) GetAll(ctx context.Context) ([]models.OrderDetail, error) {
	var details []models.OrderDetail
	err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Product").
		Order("order_id DESC").
		Order("id ASC").
		Find(&details).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get order details: %w", err)
	}
	return details, nil
}

func (r *gormOrderDetailRepository) GetByID(ctx context.Context, id uint) (*models.OrderDetail, error) {
	var detail models.OrderDetail
	if err := r.db.WithContext(ctx).Preload("Order").Preload("Product").First(&detail, id).Error; err != nil {
		return nil, translate(err)
	}
	return &detail, nil
}
