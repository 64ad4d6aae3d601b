package content

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

// ArticleService implements article CRUD. Reads and creation require an
// authenticated subject; updates and deletes additionally require the
// author or an admin. Ownership comes from the stored record, never
// from the request.
type ArticleService struct {
	repo            RepositoryManager
	guard           *Guard
	logger          Logger
	defaultPageSize int
	maxPageSize     int
}

func NewArticleService(repo RepositoryManager, opts Config) *ArticleService {
	return &ArticleService{
		repo:            repo,
		guard:           NewGuard(),
		logger:          defLogger{},
		defaultPageSize: opts.GetDefaultPageSize(),
		maxPageSize:     opts.GetMaxPageSize(),
	}
}

func (s *ArticleService) WithLogger(logger Logger) *ArticleService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// ArticlePage is a page of articles plus the unpaged total.
type ArticlePage struct {
	Items []*Article `json:"items"`
	Total int        `json:"total"`
	Skip  int        `json:"skip"`
	Limit int        `json:"limit"`
}

// CreateArticleInput carries the fields accepted on article creation.
// The author is always the acting subject.
type CreateArticleInput struct {
	Title      string
	Content    string
	Summary    string
	Published  bool
	CategoryID uuid.UUID
}

// UpdateArticleInput carries partial updates; nil fields stay untouched.
type UpdateArticleInput struct {
	Title      *string
	Content    *string
	Summary    *string
	Published  *bool
	CategoryID *uuid.UUID
}

func (s *ArticleService) List(ctx context.Context, subject *Subject, params ListParams) (*ArticlePage, error) {
	return s.listPage(ctx, subject, params, s.repo.Articles().List)
}

func (s *ArticleService) ListPublished(ctx context.Context, subject *Subject, params ListParams) (*ArticlePage, error) {
	return s.listPage(ctx, subject, params, s.repo.Articles().ListPublished)
}

func (s *ArticleService) ListByAuthor(ctx context.Context, subject *Subject, authorID uuid.UUID, params ListParams) (*ArticlePage, error) {
	return s.listPage(ctx, subject, params, func(ctx context.Context, p ListParams) ([]*Article, int, error) {
		return s.repo.Articles().ListByAuthor(ctx, authorID, p)
	})
}

func (s *ArticleService) listPage(ctx context.Context, subject *Subject, params ListParams, fetch func(context.Context, ListParams) ([]*Article, int, error)) (*ArticlePage, error) {
	if err := s.guard.Authorize(subject, ActionRead, ResourceArticle, uuid.Nil); err != nil {
		return nil, err
	}

	params = clampListParams(params, s.defaultPageSize, s.maxPageSize)

	records, total, err := fetch(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list articles")
	}

	return &ArticlePage{
		Items: records,
		Total: total,
		Skip:  params.Skip,
		Limit: params.Limit,
	}, nil
}

func (s *ArticleService) Get(ctx context.Context, subject *Subject, id uuid.UUID) (*Article, error) {
	if err := s.guard.Authorize(subject, ActionRead, ResourceArticle, uuid.Nil); err != nil {
		return nil, err
	}

	return s.loadArticle(ctx, id)
}

func (s *ArticleService) Create(ctx context.Context, subject *Subject, input CreateArticleInput) (*Article, error) {
	if err := s.guard.Authorize(subject, ActionCreate, ResourceArticle, uuid.Nil); err != nil {
		return nil, err
	}

	if input.CategoryID != uuid.Nil {
		if err := s.ensureCategoryExists(ctx, input.CategoryID); err != nil {
			return nil, err
		}
	}

	article := &Article{
		Title:      input.Title,
		Content:    input.Content,
		Summary:    input.Summary,
		Published:  input.Published,
		AuthorID:   subject.ID,
		CategoryID: input.CategoryID,
	}

	created, err := s.repo.Articles().Create(ctx, article)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create article")
	}

	s.logger.Info("article %s created by %s", created.ID.String(), subject.Username)

	return s.loadArticle(ctx, created.ID)
}

func (s *ArticleService) Update(ctx context.Context, subject *Subject, id uuid.UUID, input UpdateArticleInput) (*Article, error) {
	article, err := s.loadArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.Authorize(subject, ActionUpdate, ResourceArticle, article.AuthorID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		article.Title = *input.Title
	}

	if input.Content != nil {
		article.Content = *input.Content
	}

	if input.Summary != nil {
		article.Summary = *input.Summary
	}

	if input.Published != nil {
		article.Published = *input.Published
	}

	if input.CategoryID != nil {
		if *input.CategoryID != uuid.Nil {
			if err := s.ensureCategoryExists(ctx, *input.CategoryID); err != nil {
				return nil, err
			}
		}
		article.CategoryID = *input.CategoryID
	}

	// Clear loaded relations so the update writes scalar columns only.
	article.Author = nil
	article.Category = nil

	if _, err := s.repo.Articles().Update(ctx, article, repository.UpdateByID(article.ID.String())); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update article")
	}

	return s.loadArticle(ctx, article.ID)
}

func (s *ArticleService) Delete(ctx context.Context, subject *Subject, id uuid.UUID) error {
	article, err := s.loadArticle(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guard.Authorize(subject, ActionDelete, ResourceArticle, article.AuthorID); err != nil {
		return err
	}

	if err := s.repo.Articles().DeleteByID(ctx, article.ID); err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete article")
	}

	s.logger.Info("article %s deleted by %s", id.String(), subject.Username)

	return nil
}

func (s *ArticleService) loadArticle(ctx context.Context, id uuid.UUID) (*Article, error) {
	article, err := s.repo.Articles().GetWithRelations(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load article")
	}
	return article, nil
}

func (s *ArticleService) ensureCategoryExists(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.Categories().GetByID(ctx, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrNotFound
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load category")
	}
	return nil
}
