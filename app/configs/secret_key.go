package configs

import (
	"encoding/base64"
	"fmt"

	"github.com/gorilla/securecookie"
)

// GenerateJWTSecret returns a random 64-byte key encoded for use as JWT_SECRET.
func GenerateJWTSecret() (string, error) {
	key := securecookie.GenerateRandomKey(64)
	if key == nil {
		return "", fmt.Errorf("could not generate signing key")
	}
	return base64.URLEncoding.EncodeToString(key), nil
}

// ValidateForServe checks the settings the HTTP server cannot start without.
func (e ENV) ValidateForServe() error {
	if e.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable not set (run `generate-secret`)")
	}
	if len(e.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET is too short: %d bytes, need at least 32", len(e.JWTSecret))
	}
	return nil
}
