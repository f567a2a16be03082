package fakers

import (
	"strings"

	"github.com/go-faker/faker/v4"
	"github.com/infinitystore/backend/app/models"
)

// UserFaker builds a customer whose password hash is passwordHash.
func UserFaker(passwordHash string) *models.User {
	name := faker.FirstName() + " " + faker.LastName()
	return &models.User{
		Name:        name,
		Email:       strings.ToLower(faker.Email()),
		Password:    passwordHash,
		Role:        models.RoleCustomer,
		LoginMethod: models.LoginMethodLocal,
	}
}
