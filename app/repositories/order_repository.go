package repositories

import (
	"context"
	"fmt"

	"github.com/infinitystore/backend/app/models"
	"gorm.io/gorm"
)

// OrderInclude selects which associations are loaded with an order.
// Products only has an effect together with Details.
type OrderInclude struct {
	User     bool
	Details  bool
	Products bool
}

// OrderWithAll loads the buyer and every line item with its product.
var OrderWithAll = OrderInclude{User: true, Details: true, Products: true}

func (inc OrderInclude) apply(db *gorm.DB) *gorm.DB {
	if inc.User {
		db = db.Preload("User")
	}
	if inc.Details {
		db = db.Preload("Details", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_details.id ASC")
		})
		if inc.Products {
			db = db.Preload("Details.Product")
		}
	}
	return db
}

type OrderFilter struct {
	State  string
	UserID uint
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint, inc OrderInclude) (*models.Order, error)
	FindByUserID(ctx context.Context, userID uint, inc OrderInclude) ([]models.Order, error)
	GetPaginated(ctx context.Context, filter OrderFilter, limit, offset int, inc OrderInclude) ([]models.Order, int64, error)
	UpdateState(ctx context.Context, id uint, state string) error
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

// Create inserts the order row only. Line items are written separately with
// OrderDetailRepository.BulkCreate.
func (r *gormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Omit("User", "Details").Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", translate(err))
	}
	return nil
}

func (r *gormOrderRepository) GetByID(ctx context.Context, id uint, inc OrderInclude) (*models.Order, error) {
	var order models.Order
	err := inc.apply(r.db.WithContext(ctx)).First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *gormOrderRepository) FindByUserID(ctx context.Context, userID uint, inc OrderInclude) ([]models.Order, error) {
	var orders []models.Order
	err := inc.apply(r.db.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get orders for user %d: %w", userID, err)
	}
	return orders, nil
}

func (r *gormOrderRepository) filtered(ctx context.Context, filter OrderFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if filter.State != "" {
		q = q.Where("state = ?", filter.State)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	return q
}

func (r *gormOrderRepository) GetPaginated(ctx context.Context, filter OrderFilter, limit, offset int, inc OrderInclude) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	err := inc.apply(r.filtered(ctx, filter)).
		Order("date DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

func (r *gormOrderRepository) UpdateState(ctx context.Context, id uint, state string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("state", state)
	if res.Error != nil {
		return fmt.Errorf("update order %d state: %w", id, res.Error)
	}
	return nil
}

func (r *gormOrderRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
