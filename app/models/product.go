package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// prices and totals are rendered as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;check:stock >= 0" json:"stock"`
	ImagePath   *string         `gorm:"type:text" json:"image_path"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Active      bool            `gorm:"not null;default:true" json:"active"`
	Offer       bool            `gorm:"not null;default:false" json:"offer"`
	Discount    int             `gorm:"not null;default:0;check:discount BETWEEN 0 AND 100" json:"discount"`
}

func (p *Product) TableName() string {
	return "products"
}

// ProductPatch is the partial form of a product used by both create and update.
// Create requires the fields listed by MissingForCreate.
type ProductPatch struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string          `json:"description" validate:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	CategoryID  *uint            `json:"category_id" validate:"omitempty,min=1"`
	Active      *bool            `json:"active"`
	Offer       *bool            `json:"offer"`
	Discount    *int             `json:"discount" validate:"omitempty,min=0,max=100"`
	ImagePath   *string          `json:"-"`
}

// MissingForCreate lists the required fields that are absent from the patch.
func (p ProductPatch) MissingForCreate() []string {
	var missing []string
	if p.Name == nil || *p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Description == nil || *p.Description == "" {
		missing = append(missing, "description")
	}
	if p.Price == nil {
		missing = append(missing, "price")
	}
	if p.Stock == nil {
		missing = append(missing, "stock")
	}
	if p.CategoryID == nil {
		missing = append(missing, "category_id")
	}
	return missing
}

func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
	}
	if p.CategoryID != nil {
		prod.CategoryID = *p.CategoryID
	}
	if p.Active != nil {
		prod.Active = *p.Active
	}
	if p.Offer != nil {
		prod.Offer = *p.Offer
	}
	if p.Discount != nil {
		prod.Discount = *p.Discount
	}
	if p.ImagePath != nil {
		prod.ImagePath = p.ImagePath
	}
}
