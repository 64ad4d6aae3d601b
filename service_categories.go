package content

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// CategoryService implements category CRUD. Reads are open to anyone,
// including anonymous callers; writes are admin only.
type CategoryService struct {
	repo            RepositoryManager
	guard           *Guard
	logger          Logger
	defaultPageSize int
	maxPageSize     int
}

func NewCategoryService(repo RepositoryManager, opts Config) *CategoryService {
	return &CategoryService{
		repo:            repo,
		guard:           NewGuard(),
		logger:          defLogger{},
		defaultPageSize: opts.GetDefaultPageSize(),
		maxPageSize:     opts.GetMaxPageSize(),
	}
}

func (s *CategoryService) WithLogger(logger Logger) *CategoryService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// CategoryPage is a page of categories plus the unpaged total.
type CategoryPage struct {
	Items []*Category `json:"items"`
	Total int         `json:"total"`
	Skip  int         `json:"skip"`
	Limit int         `json:"limit"`
}

// CreateCategoryInput carries the fields accepted on category creation.
type CreateCategoryInput struct {
	Name        string
	Description string
	Color       string
	IsActive    *bool
}

// UpdateCategoryInput carries partial updates; nil fields stay untouched.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	Color       *string
	IsActive    *bool
}

func (s *CategoryService) List(ctx context.Context, subject *Subject, params ListParams) (*CategoryPage, error) {
	return s.listPage(ctx, subject, params, s.repo.Categories().List)
}

func (s *CategoryService) ListActive(ctx context.Context, subject *Subject, params ListParams) (*CategoryPage, error) {
	return s.listPage(ctx, subject, params, s.repo.Categories().ListActive)
}

func (s *CategoryService) listPage(ctx context.Context, subject *Subject, params ListParams, fetch func(context.Context, ListParams) ([]*Category, int, error)) (*CategoryPage, error) {
	if err := s.guard.Authorize(subject, ActionRead, ResourceCategory, uuid.Nil); err != nil {
		return nil, err
	}

	params = clampListParams(params, s.defaultPageSize, s.maxPageSize)

	records, total, err := fetch(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list categories")
	}

	return &CategoryPage{
		Items: records,
		Total: total,
		Skip:  params.Skip,
		Limit: params.Limit,
	}, nil
}

func (s *CategoryService) Get(ctx context.Context, subject *Subject, id uuid.UUID) (*Category, error) {
	if err := s.guard.Authorize(subject, ActionRead, ResourceCategory, uuid.Nil); err != nil {
		return nil, err
	}

	return s.loadCategory(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, subject *Subject, input CreateCategoryInput) (*Category, error) {
	if err := s.guard.Authorize(subject, ActionCreate, ResourceCategory, uuid.Nil); err != nil {
		return nil, err
	}

	taken, err := s.repo.Categories().ExistsWithName(ctx, input.Name, uuid.Nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check category uniqueness")
	}
	if taken {
		return nil, ErrConflict
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	category := &Category{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Active:      active,
	}

	created, err := s.repo.Categories().Create(ctx, category)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create category")
	}

	s.logger.Info("category %s created: %s", created.ID.String(), created.Name)

	return created, nil
}

func (s *CategoryService) Update(ctx context.Context, subject *Subject, id uuid.UUID, input UpdateCategoryInput) (*Category, error) {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Authorize(subject, ActionUpdate, ResourceCategory, uuid.Nil); err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != category.Name {
		taken, err := s.repo.Categories().ExistsWithName(ctx, *input.Name, category.ID)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check category uniqueness")
		}
		if taken {
			return nil, ErrConflict
		}
		category.Name = *input.Name
	}

	if input.Description != nil {
		category.Description = *input.Description
	}

	if input.Color != nil {
		category.Color = *input.Color
	}

	if input.IsActive != nil {
		category.Active = *input.IsActive
	}

	updated, err := s.repo.Categories().Update(ctx, category, repository.UpdateByID(category.ID.String()))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update category")
	}

	return updated, nil
}

// Delete removes a category. Articles referencing it block the delete
// so no article ends up pointing at a missing record.
func (s *CategoryService) Delete(ctx context.Context, subject *Subject, id uuid.UUID) error {
	category, err := s.loadCategory(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guard.Authorize(subject, ActionDelete, ResourceCategory, uuid.Nil); err != nil {
		return err
	}

	inUse, err := s.repo.Articles().CountByCategory(ctx, category.ID)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to count category references")
	}
	if inUse > 0 {
		return ErrConflict
	}

	if err := s.repo.Categories().DeleteByID(ctx, category.ID); err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete category")
	}

	s.logger.Info("category %s deleted", id.String())

	return nil
}

func (s *CategoryService) loadCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	category, err := s.repo.Categories().GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load category")
	}
	return category, nil
}
