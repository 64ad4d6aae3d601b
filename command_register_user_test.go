package content_test

import (
	"context"
	"testing"

	content "github.com/goliatone/go-content-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUserMessageType(t *testing.T) {
	assert.Equal(t, "user.register", content.RegisterUserMessage{}.Type())
}

func TestRegisterUserHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a member with defaults", func(t *testing.T) {
		repo := newFakeRepo()
		handler := content.NewRegisterUserHandler(repo)

		var registered *content.User
		err := handler.Execute(ctx, content.RegisterUserMessage{
			FullName:     "John Doe",
			Email:        "jdoe@example.com",
			Password:     "password123",
			OnRegistered: func(u *content.User) { registered = u },
		})

		require.NoError(t, err)
		require.NotNil(t, repo.users.created)
		require.NotNil(t, registered)

		user := repo.users.created
		// username falls back to the email local part
		assert.Equal(t, "jdoe", user.Username)
		assert.Equal(t, content.RoleMember, user.Role)
		assert.True(t, user.Active)
		assert.NoError(t, content.ComparePasswordAndHash("password123", user.PasswordHash))
	})

	t.Run("explicit username wins over the email local part", func(t *testing.T) {
		repo := newFakeRepo()
		handler := content.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, content.RegisterUserMessage{
			Username: "johnny",
			Email:    "jdoe@example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, "johnny", repo.users.created.Username)
	})

	t.Run("phone numbers are normalized to E.164", func(t *testing.T) {
		repo := newFakeRepo()
		handler := content.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, content.RegisterUserMessage{
			Email:    "jdoe@example.com",
			Password: "password123",
			Phone:    "(415) 555-2671",
		})

		require.NoError(t, err)
		assert.Equal(t, "+14155552671", repo.users.created.Phone)
	})

	t.Run("bogus phone numbers are rejected", func(t *testing.T) {
		repo := newFakeRepo()
		handler := content.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, content.RegisterUserMessage{
			Email:    "jdoe@example.com",
			Password: "password123",
			Phone:    "12",
		})

		assert.Error(t, err)
		assert.Nil(t, repo.users.created)
	})

	t.Run("hashid gives the same id for the same email", func(t *testing.T) {
		repoA := newFakeRepo()
		require.NoError(t, content.NewRegisterUserHandler(repoA).Execute(ctx, content.RegisterUserMessage{
			Email: "jdoe@example.com", Password: "password123", UseHashid: true,
		}))

		repoB := newFakeRepo()
		require.NoError(t, content.NewRegisterUserHandler(repoB).Execute(ctx, content.RegisterUserMessage{
			Email: "jdoe@example.com", Password: "password123", UseHashid: true,
		}))

		assert.Equal(t, repoA.users.created.ID, repoB.users.created.ID)
	})

	t.Run("taken username or email conflicts", func(t *testing.T) {
		repo := newFakeRepo()
		repo.users.taken = true
		handler := content.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, content.RegisterUserMessage{
			Email:    "jdoe@example.com",
			Password: "password123",
		})

		assert.ErrorIs(t, err, content.ErrConflict)
	})

	t.Run("empty password is rejected", func(t *testing.T) {
		repo := newFakeRepo()
		handler := content.NewRegisterUserHandler(repo)

		err := handler.Execute(ctx, content.RegisterUserMessage{
			Email: "jdoe@example.com",
		})

		assert.Error(t, err)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		repo := newFakeRepo()
		handler := content.NewRegisterUserHandler(repo)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err := handler.Execute(cancelled, content.RegisterUserMessage{
			Email:    "jdoe@example.com",
			Password: "password123",
		})

		assert.Error(t, err)
		assert.Nil(t, repo.users.created)
	})
}
