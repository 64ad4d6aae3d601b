package content_test

import (
	"context"
	"testing"
	"time"

	content "github.com/goliatone/go-content-api"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStoredUser(t *testing.T, password string) *content.User {
	t.Helper()

	hash, err := content.HashPassword(password)
	require.NoError(t, err)

	return &content.User{
		ID:           uuid.New(),
		Username:     "jdoe",
		Email:        "jdoe@example.com",
		Role:         content.RoleMember,
		PasswordHash: hash,
		Active:       true,
	}
}

func TestVerifyIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)

		user := newStoredUser(t, "password123")
		store.On("GetByIdentifier", ctx, "jdoe").Return(user, nil).Once()
		store.On("TrackSucccessfulLogin", ctx, user).Return(nil).Once()

		identity, err := provider.VerifyIdentity(ctx, "jdoe", "password123")

		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, "jdoe", identity.Username())
		assert.Equal(t, content.RoleMember, identity.Role())
		assert.True(t, identity.IsActive())
		store.AssertExpectations(t)
	})

	t.Run("unknown identifier and wrong password fail alike", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)

		store.On("GetByIdentifier", ctx, "nobody").
			Return(nil, repository.NewRecordNotFound()).Once()

		_, errUnknown := provider.VerifyIdentity(ctx, "nobody", "password123")

		user := newStoredUser(t, "password123")
		store.On("GetByIdentifier", ctx, "jdoe").Return(user, nil).Once()
		store.On("TrackAttemptedLogin", ctx, user).Return(nil).Once()

		_, errWrongPass := provider.VerifyIdentity(ctx, "jdoe", "not-the-password")

		assert.ErrorIs(t, errUnknown, content.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrongPass, content.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
		store.AssertExpectations(t)
	})

	t.Run("wrong password increments the attempt counter", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)

		user := newStoredUser(t, "password123")
		store.On("GetByIdentifier", ctx, "jdoe").Return(user, nil).Once()
		store.On("TrackAttemptedLogin", ctx, user).Return(nil).Once()

		_, err := provider.VerifyIdentity(ctx, "jdoe", "bad-password")

		assert.ErrorIs(t, err, content.ErrInvalidCredentials)
		store.AssertCalled(t, "TrackAttemptedLogin", ctx, user)
	})

	t.Run("disabled account", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)

		user := newStoredUser(t, "password123")
		user.Active = false
		store.On("GetByIdentifier", ctx, "jdoe").Return(user, nil).Once()

		_, err := provider.VerifyIdentity(ctx, "jdoe", "password123")

		assert.ErrorIs(t, err, content.ErrAccountDisabled)
		store.AssertNotCalled(t, "TrackSucccessfulLogin", mock.Anything, mock.Anything)
	})

	t.Run("too many recent attempts", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)

		recent := time.Now().Add(-time.Hour)
		user := newStoredUser(t, "password123")
		user.LoginAttempts = content.MaxLoginAttempts + 1
		user.LoginAttemptAt = &recent

		store.On("GetByIdentifier", ctx, "jdoe").Return(user, nil).Once()

		_, err := provider.VerifyIdentity(ctx, "jdoe", "password123")

		assert.ErrorIs(t, err, content.ErrTooManyLoginAttempts)
	})

	t.Run("attempt counter resets after the cooldown period", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)

		stale := time.Now().Add(-25 * time.Hour)
		user := newStoredUser(t, "password123")
		user.LoginAttempts = content.MaxLoginAttempts + 3
		user.LoginAttemptAt = &stale

		store.On("GetByIdentifier", ctx, "jdoe").Return(user, nil).Once()
		store.On("TrackSucccessfulLogin", ctx, user).Return(nil).Once()

		identity, err := provider.VerifyIdentity(ctx, "jdoe", "password123")

		require.NoError(t, err)
		assert.NotNil(t, identity)
		assert.Equal(t, 0, user.LoginAttempts)
	})

	t.Run("invalid role is rejected", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)

		user := newStoredUser(t, "password123")
		user.Role = "superuser"
		store.On("GetByIdentifier", ctx, "jdoe").Return(user, nil).Once()
		store.On("TrackSucccessfulLogin", ctx, user).Return(nil).Once()

		_, err := provider.VerifyIdentity(ctx, "jdoe", "password123")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "role")
	})

	t.Run("custom validator is honored", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)
		provider.Validator = func(u *content.User) error {
			return errBoom
		}

		user := newStoredUser(t, "password123")
		store.On("GetByIdentifier", ctx, "jdoe").Return(user, nil).Once()
		store.On("TrackSucccessfulLogin", ctx, user).Return(nil).Once()

		_, err := provider.VerifyIdentity(ctx, "jdoe", "password123")

		assert.ErrorIs(t, err, errBoom)
	})
}

func TestFindIdentityByIdentifier(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves an active user", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)

		user := newStoredUser(t, "password123")
		store.On("GetByIdentifier", ctx, "jdoe").Return(user, nil).Once()

		identity, err := provider.FindIdentityByIdentifier(ctx, "jdoe")

		require.NoError(t, err)
		assert.Equal(t, user.Username, identity.Username())
		assert.Equal(t, user.Email, identity.Email())
	})

	t.Run("unknown identifier maps to an invalid token", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)

		store.On("GetByIdentifier", ctx, "ghost").
			Return(nil, repository.NewRecordNotFound()).Once()

		identity, err := provider.FindIdentityByIdentifier(ctx, "ghost")

		assert.ErrorIs(t, err, content.ErrTokenInvalid)
		assert.Nil(t, identity)
	})

	t.Run("deactivated account is rejected", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)

		user := newStoredUser(t, "password123")
		user.Active = false
		store.On("GetByIdentifier", ctx, "jdoe").Return(user, nil).Once()

		identity, err := provider.FindIdentityByIdentifier(ctx, "jdoe")

		assert.ErrorIs(t, err, content.ErrAccountDisabled)
		assert.Nil(t, identity)
	})

	t.Run("missing role gets the default before validation", func(t *testing.T) {
		store := new(MockUserTracker)
		provider := content.NewUserProvider(store)

		user := newStoredUser(t, "password123")
		user.Role = ""
		store.On("GetByIdentifier", ctx, "jdoe").Return(user, nil).Once()

		identity, err := provider.FindIdentityByIdentifier(ctx, "jdoe")

		require.NoError(t, err)
		assert.Equal(t, content.RoleMember, identity.Role())
	})
}
