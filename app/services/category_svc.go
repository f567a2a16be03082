package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/repositories"
)

type CategoryInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	ImageURL string `json:"image_url" validate:"omitempty,max=255"`
}

type CategoryService struct {
	categories repositories.CategoryRepositoryImpl
	validator  *validator.Validate
}

func NewCategoryService(categories repositories.CategoryRepositoryImpl, v *validator.Validate) *CategoryService {
	return &CategoryService{categories: categories, validator: v}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categories.GetAll(ctx, true)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil, err
	}
	if !c.Active {
		return nil, fmt.Errorf("%w: category %d is inactive", ErrNotFound, id)
	}
	return c, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	if in.ImageURL == "" {
		in.ImageURL = models.DefaultCategoryImageURL
	}

	c := &models.Category{Name: in.Name, ImageURL: in.ImageURL, Active: true}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, patch models.CategoryPatch) (*models.Category, error) {
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, invalid("name", "name cannot be empty.")
		}
		patch.Name = &trimmed
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}

	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %d", ErrNotFound, id)
		}
		return nil, err
	}
	patch.Apply(c)
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
