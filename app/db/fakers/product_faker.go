package fakers

import (
	"fmt"
	"math/rand"

	"github.com/go-faker/faker/v4"
	"github.com/gosimple/slug"
	"github.com/infinitystore/backend/app/models"
	"github.com/shopspring/decimal"
)

var categoryNames = []string{"Electronics", "Home", "Books", "Sports", "Toys"}

func CategoryFakers() []*models.Category {
	categories := make([]*models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		categories = append(categories, &models.Category{
			Name:     name,
			ImageURL: fmt.Sprintf("https://placehold.co/200x200?text=%s", slug.Make(name)),
			Active:   true,
		})
	}
	return categories
}

func ProductFaker(category *models.Category) *models.Product {
	name := faker.Word() + " " + faker.Word()
	imagePath := "uploads/seed-" + slug.Make(name) + ".jpg"

	offer := rand.Intn(4) == 0
	discount := 0
	if offer {
		discount = (rand.Intn(6) + 1) * 5
	}

	return &models.Product{
		Name:        name,
		Description: faker.Paragraph(),
		Price:       fakePrice(),
		Stock:       rand.Intn(50) + 1,
		ImagePath:   &imagePath,
		CategoryID:  category.ID,
		Active:      true,
		Offer:       offer,
		Discount:    discount,
	}
}

// fakePrice returns a price between 1.00 and 9999.99.
func fakePrice() decimal.Decimal {
	cents := rand.Int63n(999900) + 100
	return decimal.New(cents, -2)
}
