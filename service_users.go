package content

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// UserService implements identity management. Every operation runs the
// guard before touching records; reads are admin only, updates allow
// the account owner as well.
type UserService struct {
	repo            RepositoryManager
	guard           *Guard
	logger          Logger
	defaultPageSize int
	maxPageSize     int
}

func NewUserService(repo RepositoryManager, opts Config) *UserService {
	return &UserService{
		repo:            repo,
		guard:           NewGuard(),
		logger:          defLogger{},
		defaultPageSize: opts.GetDefaultPageSize(),
		maxPageSize:     opts.GetMaxPageSize(),
	}
}

func (s *UserService) WithLogger(logger Logger) *UserService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// UserPage is a page of users plus the unpaged total.
type UserPage struct {
	Items []UserDTO `json:"items"`
	Total int       `json:"total"`
	Skip  int       `json:"skip"`
	Limit int       `json:"limit"`
}

// CreateUserInput carries the fields accepted on user creation.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
	IsAdmin  bool
	IsActive *bool
}

// UpdateUserInput carries partial updates; nil fields stay untouched.
type UpdateUserInput struct {
	Email    *string
	FullName *string
	Phone    *string
	Password *string
	IsAdmin  *bool
	IsActive *bool
}

func (s *UserService) List(ctx context.Context, subject *Subject, params ListParams) (*UserPage, error) {
	if err := s.guard.Authorize(subject, ActionRead, ResourceUser, uuid.Nil); err != nil {
		return nil, err
	}

	params = clampListParams(params, s.defaultPageSize, s.maxPageSize)

	records, total, err := s.repo.Users().List(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}

	return &UserPage{
		Items: NewUserDTOs(records),
		Total: total,
		Skip:  params.Skip,
		Limit: params.Limit,
	}, nil
}

func (s *UserService) Get(ctx context.Context, subject *Subject, id uuid.UUID) (*UserDTO, error) {
	if err := s.guard.Authorize(subject, ActionRead, ResourceUser, uuid.Nil); err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := NewUserDTO(user)
	return &dto, nil
}

func (s *UserService) Create(ctx context.Context, subject *Subject, input CreateUserInput) (*UserDTO, error) {
	if err := s.guard.Authorize(subject, ActionCreate, ResourceUser, uuid.Nil); err != nil {
		return nil, err
	}

	taken, err := s.repo.Users().ExistsWithUsernameOrEmail(ctx, input.Username, input.Email, uuid.Nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check user uniqueness")
	}
	if taken {
		return nil, ErrConflict
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := RoleMember
	if input.IsAdmin {
		role = RoleAdmin
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		Phone:        input.Phone,
		PasswordHash: hash,
		Role:         role,
		Active:       active,
	}

	created, err := s.repo.Users().Create(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	s.logger.Info("user %s created: %s", created.ID.String(), created.Username)

	dto := NewUserDTO(created)
	return &dto, nil
}

func (s *UserService) Update(ctx context.Context, subject *Subject, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Authorize(subject, ActionUpdate, ResourceUser, user.ID); err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		taken, err := s.repo.Users().ExistsWithUsernameOrEmail(ctx, user.Username, *input.Email, user.ID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check user uniqueness")
		}
		if taken {
			return nil, ErrConflict
		}
		user.Email = *input.Email
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}

	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if input.Password != nil {
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	// Only admins may change role and activation; the guard has already
	// let owners through at this point.
	if input.IsAdmin != nil {
		if !subject.IsAdmin() {
			return nil, ErrForbidden
		}
		user.Role = RoleMember
		if *input.IsAdmin {
			user.Role = RoleAdmin
		}
	}

	if input.IsActive != nil {
		if !subject.IsAdmin() {
			return nil, ErrForbidden
		}
		user.Active = *input.IsActive
	}

	updated, err := s.repo.Users().Update(ctx, user, repository.UpdateByID(user.ID.String()))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}

	dto := NewUserDTO(updated)
	return &dto, nil
}

func (s *UserService) Delete(ctx context.Context, subject *Subject, id uuid.UUID) error {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guard.Authorize(subject, ActionDelete, ResourceUser, uuid.Nil); err != nil {
		return err
	}

	if subject != nil && subject.ID == user.ID {
		return ErrSelfDelete
	}

	if err := s.repo.Users().DeleteByID(ctx, user.ID); err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
	}

	s.logger.Info("user %s deleted", id.String())

	return nil
}

func (s *UserService) loadUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.Users().GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load user")
	}
	return user, nil
}
