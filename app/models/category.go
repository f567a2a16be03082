package models

// DefaultCategoryImageURL is used when a category is created without an image.
const DefaultCategoryImageURL = "https://via.placeholder.com/200x200?text=Categoria"

type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	ImageURL string `gorm:"size:255;not null" json:"image_url"`
	Active   bool   `gorm:"not null;default:true" json:"active"`
}

func (c *Category) TableName() string {
	return "categories"
}

type CategoryPatch struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	ImageURL *string `json:"image_url" validate:"omitempty,max=255"`
	Active   *bool   `json:"active"`
}

func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.ImageURL != nil && *p.ImageURL != "" {
		c.ImageURL = *p.ImageURL
	}
	if p.Active != nil {
		c.Active = *p.Active
	}
}
