package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/repositories"
	"github.com/infinitystore/backend/app/utils/format"
	"github.com/shopspring/decimal"
)

const PlaceholderProductImageURL = "https://placehold.co/400x200/4a4a4a/f0f0f0?text=No+Image"

// maxProductPrice is the largest value the decimal(10,2) price column holds.
var maxProductPrice = decimal.RequireFromString("99999999.99")

// ProductView is a product as exposed by the catalog endpoints. Price is
// the amount checkout charges; offer and discount are informational only.
type ProductView struct {
	models.Product
	CategoryName   string `json:"category_name"`
	ImageURL       string `json:"image_url"`
	FormattedPrice string `json:"formatted_price,omitempty"`
}

// ImageRemover deletes a stored product image.
type ImageRemover interface {
	Remove(relPath string) error
}

type ProductService struct {
	products   repositories.ProductRepositoryImpl
	categories repositories.CategoryRepositoryImpl
	images     ImageRemover
	validator  *validator.Validate
	appURL     string
}

func NewProductService(
	products repositories.ProductRepositoryImpl,
	categories repositories.CategoryRepositoryImpl,
	images ImageRemover,
	v *validator.Validate,
	appURL string,
) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		images:     images,
		validator:  v,
		appURL:     strings.TrimRight(appURL, "/"),
	}
}

func (s *ProductService) imageURL(p *models.Product) string {
	if p.ImagePath == nil || *p.ImagePath == "" {
		return PlaceholderProductImageURL
	}
	path := *p.ImagePath
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return s.appURL + "/" + strings.TrimLeft(path, "/")
}

func (s *ProductService) view(p models.Product) ProductView {
	v := ProductView{
		Product:  p,
		ImageURL: s.imageURL(&p),
	}
	if p.Category != nil {
		v.CategoryName = p.Category.Name
	}
	return v
}

type ProductQuery struct {
	Name       string
	CategoryID uint
	Page       helpers.Pagination
}

// List returns one page of active products ordered by name.
func (s *ProductService) List(ctx context.Context, q ProductQuery) ([]ProductView, int64, error) {
	filter := repositories.ProductFilter{Name: q.Name, CategoryID: q.CategoryID, ActiveOnly: true}
	products, total, err := s.products.GetPaginated(ctx, filter, q.Page.Limit, q.Page.Offset())
	if err != nil {
		return nil, 0, err
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, s.view(p))
	}
	return views, total, nil
}

// Get returns an active product with its formatted price.
func (s *ProductService) Get(ctx context.Context, id uint) (*ProductView, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	if !p.Active {
		return nil, fmt.Errorf("%w: product %d is inactive", ErrNotFound, id)
	}

	v := s.view(*p)
	v.FormattedPrice = format.Price(p.Price)
	return &v, nil
}

func (s *ProductService) validatePatch(ctx context.Context, patch models.ProductPatch) error {
	if err := s.validator.Struct(patch); err != nil {
		return err
	}
	if patch.Price != nil {
		switch {
		case !patch.Price.IsPositive():
			return invalid("price", "price must be greater than 0.")
		case patch.Price.GreaterThan(maxProductPrice):
			return invalid("price", "price must be at most %s.", maxProductPrice.StringFixed(2))
		case !patch.Price.Equal(patch.Price.Round(2)):
			return invalid("price", "price must have at most 2 decimal places.")
		}
	}
	if patch.CategoryID != nil {
		ok, err := s.categories.Exists(ctx, *patch.CategoryID)
		if err != nil {
			return fmt.Errorf("check category %d: %w", *patch.CategoryID, err)
		}
		if !ok {
			return invalid("category_id", "category %d does not exist.", *patch.CategoryID)
		}
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, patch models.ProductPatch) (*ProductView, error) {
	if missing := patch.MissingForCreate(); len(missing) > 0 {
		return nil, invalid("", "missing required fields: %s.", strings.Join(missing, ", "))
	}
	if err := s.validatePatch(ctx, patch); err != nil {
		return nil, err
	}

	product := &models.Product{Active: true}
	patch.Active = nil
	patch.Apply(product)

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.reload(ctx, product.ID)
}

// Update applies only the fields present in patch. A new image replaces the
// previous file.
func (s *ProductService) Update(ctx context.Context, id uint, patch models.ProductPatch) (*ProductView, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	if err := s.validatePatch(ctx, patch); err != nil {
		return nil, err
	}

	var oldImage string
	if patch.ImagePath != nil && product.ImagePath != nil && *product.ImagePath != *patch.ImagePath {
		oldImage = *product.ImagePath
	}

	patch.Apply(product)
	product.Category = nil
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	if oldImage != "" && s.images != nil {
		if err := s.images.Remove(oldImage); err != nil {
			log.Printf("UpdateProduct: failed to remove old image %s: %v", oldImage, err)
		}
	}
	return s.reload(ctx, product.ID)
}

// Delete hides a product from the catalog. The row stays because order
// details keep referencing it.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return err
	}
	product.Active = false
	product.Category = nil
	return s.products.Update(ctx, product)
}

func (s *ProductService) reload(ctx context.Context, id uint) (*ProductView, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := s.view(*p)
	return &v, nil
}
