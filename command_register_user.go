package content

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/nyaruka/phonenumbers"
	"github.com/uptrace/bun"
)

type RegisterUserMessage struct {
	FullName  string `json:"full_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone_number"`
	Password  string `json:"password"`
	UseHashid bool   `json:"-"`

	OnRegistered func(*User) `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserHandler struct {
	repo RepositoryManager
}

func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	user := &User{}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		phone, err := normalizePhone(event.Phone)
		if err != nil {
			return err
		}

		user.PasswordHash = hash
		user.Email = event.Email
		user.Phone = phone
		user.FullName = event.FullName
		user.Role = RoleMember
		user.Active = true
		user.Username = getUsername(event.Username, event.Email)
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				user.ID = id
			}
		}

		taken, err := h.repo.Users().ExistsWithUsernameOrEmail(ctx, user.Username, user.Email, user.ID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check user uniqueness")
		}
		if taken {
			return ErrConflict
		}

		if user, err = h.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	if event.OnRegistered != nil {
		event.OnRegistered(user)
	}

	return nil
}

func getUsername(username, email string) string {
	if username != "" {
		return username
	}

	if strings.Contains(email, "@") {
		username = strings.Split(email, "@")[0]
	}

	return username
}

// normalizePhone formats a phone number to E.164, empty in empty out.
func normalizePhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	parsed, err := phonenumbers.Parse(trimmed, "US")
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, "invalid phone number").
			WithTextCode("INVALID_PHONE")
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return "", goerrors.New("invalid phone number", goerrors.CategoryValidation).
			WithTextCode("INVALID_PHONE")
	}

	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
