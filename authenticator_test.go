package content_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	content "github.com/goliatone/go-content-api"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIdentity is a simple implementation of Identity interface for testing
type TestIdentity struct {
	id       string
	username string
	email    string
	role     string
	active   bool
}

func (t TestIdentity) ID() string       { return t.id }
func (t TestIdentity) Username() string { return t.username }
func (t TestIdentity) Email() string    { return t.email }
func (t TestIdentity) Role() string     { return t.role }
func (t TestIdentity) IsActive() bool   { return t.active }

func TestLogin(t *testing.T) {
	ctx := context.Background()
	mockProvider := new(MockIdentityProvider)
	mockConfig := newMockConfig()

	authenticator := content.NewAuthenticator(mockProvider, mockConfig)

	t.Run("Successful login", func(t *testing.T) {
		identity := TestIdentity{
			id:       uuid.New().String(),
			username: "testuser",
			email:    "test@example.com",
			role:     content.RoleAdmin,
			active:   true,
		}

		mockProvider.On("VerifyIdentity", ctx, "test@example.com", "password123").
			Return(identity, nil).Once()

		got, token, err := authenticator.Login(ctx, "test@example.com", "password123")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		require.NotNil(t, got)
		assert.Equal(t, identity.Username(), got.Username())

		// Verify token can be parsed and carries the expected claims
		parsedToken, err := jwt.ParseWithClaims(token, &content.JWTClaims{}, func(t *jwt.Token) (any, error) {
			return []byte("test-signing-key"), nil
		})

		assert.NoError(t, err)
		assert.True(t, parsedToken.Valid)

		claims, ok := parsedToken.Claims.(*content.JWTClaims)
		require.True(t, ok)
		assert.Equal(t, identity.Username(), claims.Subject())
		assert.Equal(t, identity.ID(), claims.UserID())
		assert.Equal(t, "test-issuer", claims.RegisteredClaims.Issuer)
		assert.Equal(t, jwt.ClaimStrings{"test:audience"}, claims.RegisteredClaims.Audience)
		assert.NotEmpty(t, claims.RegisteredClaims.ID)
		assert.Equal(t, content.RoleAdmin, claims.UserRole)
	})

	t.Run("Failed login - invalid credentials", func(t *testing.T) {
		mockProvider.On("VerifyIdentity", ctx, "bad@example.com", "wrongpassword").
			Return(nil, content.ErrInvalidCredentials).Once()

		got, token, err := authenticator.Login(ctx, "bad@example.com", "wrongpassword")

		assert.ErrorIs(t, err, content.ErrInvalidCredentials)
		assert.Empty(t, token)
		assert.Nil(t, got)
	})

	t.Run("Failed login - provider returns nil identity", func(t *testing.T) {
		mockProvider.On("VerifyIdentity", ctx, "ghost@example.com", "password123").
			Return(nil, nil).Once()

		got, token, err := authenticator.Login(ctx, "ghost@example.com", "password123")

		assert.ErrorIs(t, err, content.ErrInvalidCredentials)
		assert.Empty(t, token)
		assert.Nil(t, got)
	})

	t.Run("Failed login - disabled account", func(t *testing.T) {
		mockProvider.On("VerifyIdentity", ctx, "frozen@example.com", "password123").
			Return(nil, content.ErrAccountDisabled).Once()

		got, token, err := authenticator.Login(ctx, "frozen@example.com", "password123")

		assert.ErrorIs(t, err, content.ErrAccountDisabled)
		assert.Empty(t, token)
		assert.Nil(t, got)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	mockProvider := new(MockIdentityProvider)
	mockConfig := newMockConfig()

	authenticator := content.NewAuthenticator(mockProvider, mockConfig)
	tokenService := authenticator.TokenService()

	identity := TestIdentity{
		id:       uuid.New().String(),
		username: "testuser",
		email:    "test@example.com",
		role:     content.RoleMember,
		active:   true,
	}

	t.Run("Valid token resolves identity from the store", func(t *testing.T) {
		token, err := tokenService.Issue(identity)
		require.NoError(t, err)

		mockProvider.On("FindIdentityByIdentifier", ctx, "testuser").
			Return(identity, nil).Once()

		got, err := authenticator.Authenticate(ctx, token)

		assert.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, identity.ID(), got.ID())
	})

	t.Run("Deactivated account fails even with a valid token", func(t *testing.T) {
		token, err := tokenService.Issue(identity)
		require.NoError(t, err)

		mockProvider.On("FindIdentityByIdentifier", ctx, "testuser").
			Return(nil, content.ErrAccountDisabled).Once()

		got, err := authenticator.Authenticate(ctx, token)

		assert.ErrorIs(t, err, content.ErrAccountDisabled)
		assert.Nil(t, got)
	})

	t.Run("Deleted account fails even with a valid token", func(t *testing.T) {
		token, err := tokenService.Issue(identity)
		require.NoError(t, err)

		mockProvider.On("FindIdentityByIdentifier", ctx, "testuser").
			Return(nil, content.ErrTokenInvalid).Once()

		got, err := authenticator.Authenticate(ctx, token)

		assert.ErrorIs(t, err, content.ErrTokenInvalid)
		assert.Nil(t, got)
	})

	t.Run("Garbage token fails without a store lookup", func(t *testing.T) {
		got, err := authenticator.Authenticate(ctx, "not-a-jwt")

		assert.Error(t, err)
		assert.Nil(t, got)
		mockProvider.AssertNotCalled(t, "FindIdentityByIdentifier", ctx, "not-a-jwt")
	})

	t.Run("Expired token fails with the expiry error", func(t *testing.T) {
		now := time.Now()
		claims := &content.JWTClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "test-issuer",
				Subject:   identity.Username(),
				Audience:  jwt.ClaimStrings{"test:audience"},
				IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(now.Add(-1 * time.Hour)),
			},
			UID:      identity.ID(),
			UserRole: identity.Role(),
		}

		token, err := tokenService.SignClaims(claims)
		require.NoError(t, err)

		got, err := authenticator.Authenticate(ctx, token)

		assert.ErrorIs(t, err, content.ErrTokenExpired)
		assert.Nil(t, got)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	mockProvider := new(MockIdentityProvider)
	mockConfig := newMockConfig()

	authenticator := content.NewAuthenticator(mockProvider, mockConfig)

	identity := TestIdentity{
		id:       uuid.New().String(),
		username: "testuser",
		email:    "test@example.com",
		role:     content.RoleMember,
		active:   true,
	}

	t.Run("Refresh re-reads the store and issues a fresh token", func(t *testing.T) {
		// Return a different role to prove the new token reflects the
		// stored record, not the stale identity
		fresh := TestIdentity{
			id:       identity.id,
			username: identity.username,
			email:    identity.email,
			role:     content.RoleAdmin,
			active:   true,
		}

		mockProvider.On("FindIdentityByIdentifier", ctx, "testuser").
			Return(fresh, nil).Once()

		token, err := authenticator.Refresh(ctx, identity)

		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := authenticator.TokenService().Validate(token)
		require.NoError(t, err)
		assert.Equal(t, content.RoleAdmin, claims.Role())
	})

	t.Run("Refresh fails when the account is gone", func(t *testing.T) {
		mockProvider.On("FindIdentityByIdentifier", ctx, "testuser").
			Return(nil, content.ErrTokenInvalid).Once()

		token, err := authenticator.Refresh(ctx, identity)

		assert.ErrorIs(t, err, content.ErrTokenInvalid)
		assert.Empty(t, token)
	})

	t.Run("Refresh requires an identity", func(t *testing.T) {
		token, err := authenticator.Refresh(ctx, nil)

		assert.ErrorIs(t, err, content.ErrUnauthenticated)
		assert.Empty(t, token)
	})
}

func TestAutherWithTokenService(t *testing.T) {
	mockProvider := new(MockIdentityProvider)
	authenticator := content.NewAuthenticator(mockProvider, newMockConfig())

	custom := content.NewTokenService([]byte("other-key"), 60, "other-issuer", nil, nil)
	authenticator.WithTokenService(custom)

	assert.Equal(t, custom, authenticator.TokenService())

	// nil is ignored
	authenticator.WithTokenService(nil)
	assert.Equal(t, custom, authenticator.TokenService())
}

var errBoom = errors.New("boom")
