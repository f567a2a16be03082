package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/infinitystore/backend/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductFilter narrows a product listing. Zero values disable a filter.
type ProductFilter struct {
	Name       string
	CategoryID uint
	ActiveOnly bool
}

type ProductRepositoryImpl interface {
	GetPaginated(ctx context.Context, filter ProductFilter, limit, offset int) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	DecrementStock(ctx context.Context, id uint, quantity int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) filtered(ctx context.Context, filter ProductFilter) *gorm.DB {
	q := p.db.WithContext(ctx).Model(&models.Product{})
	if filter.ActiveOnly {
		q = q.Where("products.active = ?", true)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		q = q.Where("LOWER(products.name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if filter.CategoryID != 0 {
		q = q.Where("products.category_id = ?", filter.CategoryID)
	}
	return q
}

func (p *productRepository) GetPaginated(ctx context.Context, filter ProductFilter, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := p.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	err := p.filtered(ctx, filter).
		Preload("Category").
		Order("products.name ASC").
		Order("products.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

func (p *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Category").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// GetByIDForUpdate reads the product row with an exclusive lock held until the
// surrounding transaction ends. Outside a transaction the lock is released at
// once, so callers must use it through Store.Transaction.
func (p *productRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := p.db.WithContext(ctx).Omit("Category").Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", translate(err))
	}
	return nil
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	if err := p.db.WithContext(ctx).Omit("Category").Save(product).Error; err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, translate(err))
	}
	return nil
}

// DecrementStock subtracts quantity from the product stock only while enough
// stock remains. A rejected update returns ErrStockUnavailable.
func (p *productRepository) DecrementStock(ctx context.Context, id uint, quantity int) error {
	res := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("decrement stock for product %d: %w", id, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", id, ErrStockUnavailable)
	}
	return nil
}
