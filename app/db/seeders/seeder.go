package seeders

import (
	"fmt"
	"log"

	"github.com/infinitystore/backend/app/db/fakers"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
	"gorm.io/gorm"
)

const DemoPassword = "Demo#2024"

type Options struct {
	ProductsPerCategory int
	Customers           int
}

// DBSeed fills an empty catalog with demo categories, products and
// customers. Every demo customer logs in with DemoPassword.
func DBSeed(db *gorm.DB, opts Options) error {
	if opts.ProductsPerCategory <= 0 {
		opts.ProductsPerCategory = 8
	}

	var existing int64
	if err := db.Model(&models.Product{}).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		log.Printf("DBSeed: %d products already present, skipping catalog", existing)
		return seedCustomers(db, opts.Customers)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, category := range fakers.CategoryFakers() {
			if err := tx.Create(category).Error; err != nil {
				return fmt.Errorf("seed category %s: %w", category.Name, err)
			}
			for i := 0; i < opts.ProductsPerCategory; i++ {
				product := fakers.ProductFaker(category)
				if err := tx.Omit("Category").Create(product).Error; err != nil {
					return fmt.Errorf("seed product %s: %w", product.Name, err)
				}
			}
		}
		return seedCustomers(tx, opts.Customers)
	})
}

func seedCustomers(db *gorm.DB, n int) error {
	if n <= 0 {
		return nil
	}
	hash, err := helpers.HashPassword(DemoPassword)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		user := fakers.UserFaker(hash)
		if err := db.Where("email = ?", user.Email).FirstOrCreate(user).Error; err != nil {
			return fmt.Errorf("seed user %s: %w", user.Email, err)
		}
	}
	return nil
}
