package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/repositories"
)

type OrderService struct {
	repos repositories.Repositories
	store repositories.Store
}

func NewOrderService(repos repositories.Repositories, store repositories.Store) *OrderService {
	return &OrderService{repos: repos, store: store}
}

// ListMine returns the caller's orders, newest first, with line items and
// their products.
func (s *OrderService) ListMine(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.repos.Orders.FindByUserID(ctx, userID, repositories.OrderInclude{Details: true, Products: true})
}

// Get returns an order visible to caller: its owner or any admin.
func (s *OrderService) Get(ctx context.Context, caller helpers.AuthUser, id uint) (*models.Order, error) {
	order, err := s.repos.Orders.GetByID(ctx, id, repositories.OrderWithAll)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	if order.UserID != caller.ID && caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: order %d belongs to another user", ErrForbidden, id)
	}
	return order, nil
}

type OrderQuery struct {
	State string
	Page  helpers.Pagination
}

func (s *OrderService) ListAll(ctx context.Context, q OrderQuery) ([]models.Order, int64, error) {
	if q.State != "" && !models.IsValidOrderState(q.State) {
		return nil, 0, invalid("state", "unknown order state %q.", q.State)
	}
	return s.repos.Orders.GetPaginated(ctx,
		repositories.OrderFilter{State: q.State},
		q.Page.Limit, q.Page.Offset(),
		repositories.OrderInclude{User: true},
	)
}

// UpdateState moves an order along pending -> paid -> shipped, or to
// cancelled from pending or paid. Cancelling does not restock products.
func (s *OrderService) UpdateState(ctx context.Context, id uint, state string) (*models.Order, error) {
	if !models.IsValidOrderState(state) {
		return nil, invalid("state", "state must be one of: pending, paid, shipped, cancelled.")
	}

	var updated *models.Order
	err := s.store.Transaction(ctx, func(repos repositories.Repositories) error {
		order, err := repos.Orders.GetByID(ctx, id, repositories.OrderInclude{})
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, id)
			}
			return err
		}
		if !models.CanTransition(order.State, state) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.State, state)
		}
		if err := repos.Orders.UpdateState(ctx, id, state); err != nil {
			return err
		}
		reloaded, err := repos.Orders.GetByID(ctx, id, repositories.OrderWithAll)
		if err != nil {
			return err
		}
		updated = reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *OrderService) ListDetails(ctx context.Context) ([]models.OrderDetail, error) {
	return s.repos.OrderDetails.GetAll(ctx)
}

func (s *OrderService) GetDetail(ctx context.Context, id uint) (*models.OrderDetail, error) {
	d, err := s.repos.OrderDetails.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: order detail %d", ErrNotFound, id)
		}
		return nil, err
	}
	return d, nil
}
