package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repositories groups every repository bound to the same connection or
// transaction.
type Repositories struct {
	Users        UserRepositoryImpl
	Categories   CategoryRepositoryImpl
	Products     ProductRepositoryImpl
	Orders       OrderRepository
	OrderDetails OrderDetailRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:        NewUserRepository(db),
		Categories:   NewCategoryRepository(db),
		Products:     NewProductRepository(db),
		Orders:       NewOrderRepository(db),
		OrderDetails: NewOrderDetailRepository(db),
	}
}

// Store runs a unit of work. Every repository handed to fn shares one
// database transaction; returning an error from fn rolls it back.
type Store interface {
	Transaction(ctx context.Context, fn func(repos Repositories) error) error
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(repos Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
