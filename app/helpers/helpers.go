package helpers

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyUser contextKey = "authUser"
)

// AuthUser is the identity carried by a verified access token.
type AuthUser struct {
	ID   uint   `json:"id"`
	Role string `json:"role"`
}

func WithAuthUser(ctx context.Context, u AuthUser) context.Context {
	return context.WithValue(ctx, ContextKeyUser, u)
}

func AuthUserFrom(ctx context.Context) (AuthUser, bool) {
	u, ok := ctx.Value(ContextKeyUser).(AuthUser)
	return u, ok
}

func PasswordCompare(hashPass string, password []byte) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashPass), password)
	if err != nil {
		log.Printf("PasswordCompare: password does not match or error: %v", err)
		return false
	}
	return true
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("HashPassword: error hashing password: %v", err)
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}
