package content

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Users() Users
	Articles() Articles
	Categories() Categories
	Stats(ctx context.Context) (*Stats, error)
}

// Stats aggregates record counts for the system endpoint.
type Stats struct {
	TotalUsers        int `json:"total_users"`
	ActiveUsers       int `json:"active_users"`
	TotalArticles     int `json:"total_articles"`
	PublishedArticles int `json:"published_articles"`
	TotalCategories   int `json:"total_categories"`
	ActiveCategories  int `json:"active_categories"`
}

// ListParams carries offset pagination and an optional search term.
// Limit is expected to be clamped by the caller before it gets here.
type ListParams struct {
	Skip   int
	Limit  int
	Search string
}

// clampListParams normalizes pagination: negative skips become zero,
// missing limits take the default, oversized limits take the cap.
func clampListParams(params ListParams, def, max int) ListParams {
	if params.Skip < 0 {
		params.Skip = 0
	}
	if params.Limit <= 0 {
		params.Limit = def
	}
	if params.Limit > max {
		params.Limit = max
	}
	return params
}

type mngr struct {
	db         *bun.DB
	users      Users
	articles   Articles
	categories Categories
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:         db,
		users:      NewUsersRepository(db),
		articles:   NewArticlesRepository(db),
		categories: NewCategoriesRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.articles == nil {
		return errors.New("repository articles should be initialized")
	}

	if m.categories == nil {
		return errors.New("repository categories should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		dest  *int
		model any
		scope func(*bun.SelectQuery) *bun.SelectQuery
	}{
		{&stats.TotalUsers, (*User)(nil), nil},
		{&stats.ActiveUsers, (*User)(nil), func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.is_active = ?", true)
		}},
		{&stats.TotalArticles, (*Article)(nil), nil},
		{&stats.PublishedArticles, (*Article)(nil), func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.is_published = ?", true)
		}},
		{&stats.TotalCategories, (*Category)(nil), nil},
		{&stats.ActiveCategories, (*Category)(nil), func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.is_active = ?", true)
		}},
	}

	for _, c := range counts {
		q := m.db.NewSelect().Model(c.model)
		if c.scope != nil {
			q = c.scope(q)
		}

		n, err := q.Count(ctx)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}

	return stats, nil
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Articles() Articles {
	return m.articles
}

func (m mngr) Categories() Categories {
	return m.categories
}
