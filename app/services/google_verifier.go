package services

import (
	"context"
	"fmt"

	"google.golang.org/api/idtoken"
)

// ExternalIdentity is what a federated login provider vouches for.
type ExternalIdentity struct {
	Email         string
	EmailVerified bool
	Name          string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (*ExternalIdentity, error)
}

type GoogleVerifier struct {
	clientID string
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID, validate: idtoken.Validate}
}

func (g *GoogleVerifier) Verify(ctx context.Context, credential string) (*ExternalIdentity, error) {
	if g.clientID == "" {
		return nil, fmt.Errorf("%w: google login is not configured", ErrUnauthorized)
	}
	payload, err := g.validate(ctx, credential, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: google token: %v", ErrUnauthorized, err)
	}

	identity := &ExternalIdentity{}
	if v, ok := payload.Claims["email"].(string); ok {
		identity.Email = v
	}
	if v, ok := payload.Claims["email_verified"].(bool); ok {
		identity.EmailVerified = v
	}
	if v, ok := payload.Claims["name"].(string); ok {
		identity.Name = v
	}
	return identity, nil
}
