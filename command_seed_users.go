package content

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SeedUser is one bootstrap account. Passwords are hashed at seed time
// so no hash material lives in the repository.
type SeedUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Password string    `json:"password"`
	IsAdmin  bool      `json:"is_admin"`
}

type SeedUsersMessage struct {
	Users []SeedUser `json:"users"`
}

func (e SeedUsersMessage) Type() string { return "user.seed" }

// DefaultSeedUsers is the development dataset. Article fixtures point
// at these ids.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{
			ID:       uuid.MustParse("8f9c1b62-5a4e-4d3a-9b1f-000000000001"),
			Username: "admin",
			Email:    "admin@example.com",
			FullName: "System Administrator",
			Password: "admin123",
			IsAdmin:  true,
		},
		{
			ID:       uuid.MustParse("8f9c1b62-5a4e-4d3a-9b1f-000000000002"),
			Username: "john_doe",
			Email:    "john@example.com",
			FullName: "John Doe",
			Password: "password123",
		},
		{
			ID:       uuid.MustParse("8f9c1b62-5a4e-4d3a-9b1f-000000000003"),
			Username: "jane_smith",
			Email:    "jane@example.com",
			FullName: "Jane Smith",
			Password: "password123",
		},
		{
			ID:       uuid.MustParse("8f9c1b62-5a4e-4d3a-9b1f-000000000004"),
			Username: "bob_wilson",
			Email:    "bob@example.com",
			FullName: "Bob Wilson",
			Password: "password123",
		},
	}
}

type SeedUsersHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewSeedUsersHandler(repo RepositoryManager) *SeedUsersHandler {
	return &SeedUsersHandler{repo: repo, logger: defLogger{}}
}

func (h *SeedUsersHandler) WithLogger(logger Logger) *SeedUsersHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Execute creates each seed account once, accounts that already exist
// are skipped.
func (h *SeedUsersHandler) Execute(ctx context.Context, event SeedUsersMessage) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*30)
	defer cancel()

	return h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, seed := range event.Users {
			exists, err := h.repo.Users().ExistsWithUsernameOrEmail(ctx, seed.Username, seed.Email, uuid.Nil)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check seed user")
			}

			if exists {
				h.logger.Debug("seed user %s exists, skipping", seed.Username)
				continue
			}

			hash, err := HashPassword(seed.Password)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash seed password")
			}

			role := RoleMember
			if seed.IsAdmin {
				role = RoleAdmin
			}

			user := &User{
				ID:           seed.ID,
				Username:     seed.Username,
				Email:        seed.Email,
				FullName:     seed.FullName,
				PasswordHash: hash,
				Role:         role,
				Active:       true,
			}

			if _, err := h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create seed user")
			}

			h.logger.Info("seed user %s created (admin=%v)", seed.Username, seed.IsAdmin)
		}

		return nil
	})
}
