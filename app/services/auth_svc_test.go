package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
	"github.com/infinitystore/backend/app/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-with-at-least-32-bytes!!"

type stubVerifier struct {
	identity *ExternalIdentity
	err      error
	calls    int
}

func (s *stubVerifier) Verify(ctx context.Context, credential string) (*ExternalIdentity, error) {
	s.calls++
	return s.identity, s.err
}

func newAuthService(mem *repotest.Memory, verifier IdentityVerifier) *AuthService {
	return NewAuthService(mem.Repositories().Users, NewTokenService(testSecret, time.Hour), verifier, helpers.NewValidator())
}

func TestRegister_CreatesCustomerWithHashedPassword(t *testing.T) {
	mem := repotest.NewMemory()
	svc := newAuthService(mem, nil)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ana Gómez",
		Email:    "  Ana@Example.com ",
		Password: "Secret#123",
	})

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Equal(t, models.LoginMethodLocal, user.LoginMethod)
	assert.NotEqual(t, "Secret#123", user.Password)
	assert.True(t, helpers.PasswordCompare(user.Password, []byte("Secret#123")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mem := repotest.NewMemory()
	mem.AddUser(models.User{Name: "Ana", Email: "ana@example.com", Password: "x"})
	svc := newAuthService(mem, nil)

	_, err := svc.Register(context.Background(), RegisterInput{Name: "Other", Email: "ana@example.com", Password: "Secret#123"})

	assert.True(t, errors.Is(err, ErrEmailTaken))
	assert.Equal(t, 1, mem.CountUsers())
}

func TestRegister_PasswordRules(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		message  string
	}{
		{name: "too short", password: "Ab#1", message: "password must be at least 8 characters long."},
		{name: "no uppercase", password: "secret#123", message: "password must contain at least one uppercase letter."},
		{name: "no digit", password: "Secret#abc", message: "password must contain at least one number."},
		{name: "no special", password: "Secret1234", message: "password must contain at least one special character."},
		{name: "missing", password: "", message: "password is required."},
		{name: "longer than bcrypt accepts", password: "Aa1#" + strings.Repeat("x", 80), message: "password must be at most 72 bytes long."},
		{name: "multibyte runes over byte limit", password: "Aa1#" + strings.Repeat("ñ", 35), message: "password must be at most 72 bytes long."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mem := repotest.NewMemory()
			svc := newAuthService(mem, nil)

			_, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@example.com", Password: tc.password})

			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs), "got %v", err)
			assert.Equal(t, tc.message, helpers.FormatValidationErrors(vErrs)["password"])
			assert.Equal(t, 0, mem.CountUsers())
		})
	}
}

func TestRegister_LongestAcceptedPassword(t *testing.T) {
	mem := repotest.NewMemory()
	svc := newAuthService(mem, nil)
	password := "Aa1#" + strings.Repeat("x", 68)

	user, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@example.com", Password: password})

	require.NoError(t, err)
	stored, _ := mem.User(user.ID)
	assert.True(t, helpers.PasswordCompare(stored.Password, []byte(password)))
}

func TestRegister_FieldRules(t *testing.T) {
	testCases := []struct {
		name  string
		input RegisterInput
		field string
	}{
		{name: "missing name", input: RegisterInput{Email: "ana@example.com", Password: "Secret#123"}, field: "name"},
		{name: "long name", input: RegisterInput{Name: string(make([]byte, 51)), Email: "ana@example.com", Password: "Secret#123"}, field: "name"},
		{name: "bad email", input: RegisterInput{Name: "Ana", Email: "not-an-email", Password: "Secret#123"}, field: "email"},
		{name: "missing email", input: RegisterInput{Name: "Ana", Password: "Secret#123"}, field: "email"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newAuthService(repotest.NewMemory(), nil)
			_, err := svc.Register(context.Background(), tc.input)

			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs), "got %v", err)
			assert.Contains(t, helpers.FormatValidationErrors(vErrs), tc.field)
		})
	}
}

func TestLogin(t *testing.T) {
	mem := repotest.NewMemory()
	svc := newAuthService(mem, nil)
	registered, err := svc.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "Secret#123"})
	require.NoError(t, err)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		res, err := svc.Login(context.Background(), LoginInput{Email: "ANA@example.com", Password: "Secret#123"})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, res.User.ID)

		claims, err := svc.tokens.Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, helpers.AuthUser{ID: registered.ID, Role: models.RoleCustomer}, claims)
	})

	t.Run("wrong password and unknown email fail the same way", func(t *testing.T) {
		_, wrongPassword := svc.Login(context.Background(), LoginInput{Email: "ana@example.com", Password: "Wrong#123"})
		_, unknownEmail := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "Secret#123"})

		assert.True(t, errors.Is(wrongPassword, ErrInvalidCredentials))
		assert.True(t, errors.Is(unknownEmail, ErrInvalidCredentials))
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginInput{Email: "ana@example.com"})
		var vErrs validator.ValidationErrors
		assert.True(t, errors.As(err, &vErrs))
	})
}

func TestLoginWithGoogle(t *testing.T) {
	t.Run("first login creates the account", func(t *testing.T) {
		mem := repotest.NewMemory()
		verifier := &stubVerifier{identity: &ExternalIdentity{Email: "Lu@Gmail.com", EmailVerified: true, Name: "Lu"}}
		svc := newAuthService(mem, verifier)

		res, err := svc.LoginWithGoogle(context.Background(), "google-id-token")

		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "lu@gmail.com", res.User.Email)
		assert.Equal(t, models.LoginMethodGoogle, res.User.LoginMethod)
		assert.Equal(t, 1, mem.CountUsers())

		_, err = svc.Login(context.Background(), LoginInput{Email: "lu@gmail.com", Password: "anything"})
		assert.True(t, errors.Is(err, ErrInvalidCredentials), "federated accounts have no usable password")
	})

	t.Run("existing account is reused", func(t *testing.T) {
		mem := repotest.NewMemory()
		existing := mem.AddUser(models.User{Name: "Lu", Email: "lu@gmail.com", Password: "x", Role: models.RoleAdmin})
		svc := newAuthService(mem, &stubVerifier{identity: &ExternalIdentity{Email: "lu@gmail.com", EmailVerified: true}})

		res, err := svc.LoginWithGoogle(context.Background(), "google-id-token")

		require.NoError(t, err)
		assert.Equal(t, existing.ID, res.User.ID)
		assert.Equal(t, 1, mem.CountUsers())
	})

	t.Run("verification failure", func(t *testing.T) {
		svc := newAuthService(repotest.NewMemory(), &stubVerifier{err: errors.New("bad signature")})
		_, err := svc.LoginWithGoogle(context.Background(), "forged")
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("unverified email", func(t *testing.T) {
		svc := newAuthService(repotest.NewMemory(), &stubVerifier{identity: &ExternalIdentity{Email: "lu@gmail.com"}})
		_, err := svc.LoginWithGoogle(context.Background(), "token")
		assert.True(t, errors.Is(err, ErrUnauthorized))
	})

	t.Run("missing credential", func(t *testing.T) {
		verifier := &stubVerifier{}
		svc := newAuthService(repotest.NewMemory(), verifier)
		_, err := svc.LoginWithGoogle(context.Background(), " ")
		assert.True(t, errors.Is(err, ErrValidation))
		assert.Zero(t, verifier.calls)
	})
}

func TestMe_DeletedUser(t *testing.T) {
	svc := newAuthService(repotest.NewMemory(), nil)
	_, err := svc.Me(context.Background(), 42)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateAdmin_PromotesExistingUser(t *testing.T) {
	mem := repotest.NewMemory()
	existing := mem.AddUser(models.User{Name: "Root", Email: "root@example.com", Password: "x"})
	svc := newAuthService(mem, nil)

	user, err := svc.CreateAdmin(context.Background(), RegisterInput{Email: "root@example.com"})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
	stored, _ := mem.User(existing.ID)
	assert.Equal(t, models.RoleAdmin, stored.Role)
}
