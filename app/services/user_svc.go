package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/repositories"
)

type UserService struct {
	users     repositories.UserRepositoryImpl
	orders    repositories.OrderRepository
	validator *validator.Validate
}

func NewUserService(users repositories.UserRepositoryImpl, orders repositories.OrderRepository, v *validator.Validate) *UserService {
	return &UserService{users: users, orders: orders, validator: v}
}

func (s *UserService) List(ctx context.Context, page helpers.Pagination) ([]models.User, int64, error) {
	return s.users.GetPaginated(ctx, page.Limit, page.Offset())
}

func (s *UserService) Update(ctx context.Context, id uint, patch models.UserPatch) (*models.User, error) {
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		patch.Email = &email
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}

	if patch.Email != nil && *patch.Email != user.Email {
		other, err := s.users.FindByEmail(ctx, *patch.Email)
		switch {
		case err == nil && other.ID != user.ID:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return nil, err
		}
	}

	patch.Apply(user)
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Delete removes a user for good. Users that own orders are kept so order
// history stays intact.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.users.FindByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return err
	}

	count, err := s.orders.CountByUserID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: user %d has %d orders", ErrHasOrders, id, count)
	}

	if err := s.users.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrForeignKey):
			return fmt.Errorf("%w: user %d", ErrHasOrders, id)
		case errors.Is(err, repositories.ErrNotFound):
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		log.Printf("DeleteUser: failed to delete user %d: %v", id, err)
		return err
	}
	return nil
}
