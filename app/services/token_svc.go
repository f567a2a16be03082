package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/infinitystore/backend/app/helpers"
)

// AccessClaims is the JWT payload: the user id and role under "user" plus
// the registered exp/iat/sub claims.
type AccessClaims struct {
	User helpers.AuthUser `json:"user"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenService) Issue(user helpers.AuthUser) (string, error) {
	now := s.now()
	claims := AccessClaims{
		User: user,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, algorithm and expiry of a token and returns the
// identity it carries. Every failure is reported as ErrUnauthorized.
func (s *TokenService) Verify(raw string) (helpers.AuthUser, error) {
	var claims AccessClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return helpers.AuthUser{}, fmt.Errorf("%w: token expired", ErrUnauthorized)
		}
		return helpers.AuthUser{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid || claims.User.ID == 0 {
		return helpers.AuthUser{}, fmt.Errorf("%w: malformed claims", ErrUnauthorized)
	}
	return claims.User, nil
}
