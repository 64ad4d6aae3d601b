package content_test

import (
	"encoding/json"
	"testing"

	content "github.com/goliatone/go-content-api"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIsAdmin(t *testing.T) {
	admin := &content.User{Role: content.RoleAdmin}
	member := &content.User{Role: content.RoleMember}
	var missing *content.User

	assert.True(t, admin.IsAdmin())
	assert.False(t, member.IsAdmin())
	assert.False(t, missing.IsAdmin())
}

func TestUserEnsureRole(t *testing.T) {
	user := &content.User{}
	user.EnsureRole()
	assert.Equal(t, content.RoleMember, user.Role)

	admin := &content.User{Role: content.RoleAdmin}
	admin.EnsureRole()
	assert.Equal(t, content.RoleAdmin, admin.Role)
}

func TestUserJSONHidesSensitiveFields(t *testing.T) {
	user := &content.User{
		ID:            uuid.New(),
		Username:      "jdoe",
		Email:         "jdoe@example.com",
		PasswordHash:  "$2a$12$abcdefghijklmnopqrstuv",
		LoginAttempts: 3,
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.NotContains(t, out, "password_hash")
	assert.NotContains(t, out, "login_attempts")
	assert.NotContains(t, out, "login_attempt_at")
	assert.Equal(t, "jdoe", out["username"])
}

func TestNewUserDTO(t *testing.T) {
	user := &content.User{
		ID:           uuid.New(),
		Username:     "jdoe",
		Email:        "jdoe@example.com",
		FullName:     "John Doe",
		Role:         content.RoleAdmin,
		Active:       true,
		PasswordHash: "hidden",
	}

	dto := content.NewUserDTO(user)

	assert.Equal(t, user.ID, dto.ID)
	assert.Equal(t, "jdoe", dto.Username)
	assert.Equal(t, "jdoe@example.com", dto.Email)
	assert.Equal(t, "John Doe", dto.FullName)
	assert.True(t, dto.IsAdmin)
	assert.True(t, dto.IsActive)

	raw, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hidden")
}

func TestNewUserDTONil(t *testing.T) {
	dto := content.NewUserDTO(nil)
	assert.Equal(t, content.UserDTO{}, dto)
}

func TestNewUserDTOs(t *testing.T) {
	users := []*content.User{
		{ID: uuid.New(), Username: "a", Role: content.RoleMember},
		{ID: uuid.New(), Username: "b", Role: content.RoleAdmin},
	}

	dtos := content.NewUserDTOs(users)
	require.Len(t, dtos, 2)
	assert.Equal(t, "a", dtos[0].Username)
	assert.False(t, dtos[0].IsAdmin)
	assert.True(t, dtos[1].IsAdmin)

	assert.Empty(t, content.NewUserDTOs(nil))
}
