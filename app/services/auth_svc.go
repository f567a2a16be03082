package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/repositories"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,min=5,max=254"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72,hasupper,hasdigit,hasspecial"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	userRepo  repositories.UserRepositoryImpl
	tokens    *TokenService
	verifier  IdentityVerifier
	validator *validator.Validate
}

func NewAuthService(userRepo repositories.UserRepositoryImpl, tokens *TokenService, verifier IdentityVerifier, v *validator.Validate) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, verifier: verifier, validator: v}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:        in.Name,
		Email:       in.Email,
		Password:    hash,
		Role:        models.RoleCustomer,
		LoginMethod: models.LoginMethodLocal,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !helpers.PasswordCompare(user.Password, []byte(in.Password)) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// LoginWithGoogle trusts a verified Google ID token, creating the account the
// first time the email is seen.
func (s *AuthService) LoginWithGoogle(ctx context.Context, credential string) (*AuthResult, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, invalid("credential", "credential is required.")
	}

	identity, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		log.Printf("LoginWithGoogle: token verification failed: %v", err)
		return nil, ErrUnauthorized
	}
	email := normalizeEmail(identity.Email)
	if email == "" || !identity.EmailVerified {
		return nil, fmt.Errorf("%w: google account email is missing or unverified", ErrUnauthorized)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		user, err = s.createFederatedUser(ctx, email, identity.Name)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	return s.issue(user)
}

func (s *AuthService) createFederatedUser(ctx context.Context, email, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	if r := []rune(name); len(r) > 50 {
		name = string(r[:50])
	}

	// random secret nobody knows, so password login never succeeds
	hash, err := helpers.HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:        name,
		Email:       email,
		Password:    hash,
		Role:        models.RoleCustomer,
		LoginMethod: models.LoginMethodGoogle,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return s.userRepo.FindByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

// CreateAdmin registers an administrator or promotes an existing account.
func (s *AuthService) CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(in.Email))
	if err == nil {
		user.Role = models.RoleAdmin
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	user, err = s.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	user.Role = models.RoleAdmin
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(helpers.AuthUser{ID: user.ID, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
