package content

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Categories interface {
	repository.Repository[*Category]

	Create(ctx context.Context, record *Category, criteria ...repository.InsertCriteria) (*Category, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Category, criteria ...repository.InsertCriteria) (*Category, error)

	List(ctx context.Context, params ListParams) ([]*Category, int, error)
	ListActive(ctx context.Context, params ListParams) ([]*Category, int, error)
	ExistsWithName(ctx context.Context, name string, exclude uuid.UUID) (bool, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type categories struct {
	repository.Repository[*Category]
	db *bun.DB
}

var (
	_ Categories                       = (*categories)(nil)
	_ repository.Repository[*Category] = (*categories)(nil)
)

func NewCategoriesRepository(db *bun.DB) Categories {
	repo := repository.NewRepository[*Category](db, repository.ModelHandlers[*Category]{
		NewRecord: func() *Category { return &Category{} },
		GetID: func(c *Category) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Category, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &categories{
		Repository: repo,
		db:         db,
	}
}

func (a *categories) Create(ctx context.Context, record *Category, criteria ...repository.InsertCriteria) (*Category, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *categories) CreateTx(ctx context.Context, tx bun.IDB, record *Category, criteria ...repository.InsertCriteria) (*Category, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *categories) List(ctx context.Context, params ListParams) ([]*Category, int, error) {
	return a.list(ctx, params, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q
	})
}

func (a *categories) ListActive(ctx context.Context, params ListParams) ([]*Category, int, error) {
	return a.list(ctx, params, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.is_active = ?", true)
	})
}

func (a *categories) list(ctx context.Context, params ListParams, scope func(*bun.SelectQuery) *bun.SelectQuery) ([]*Category, int, error) {
	var records []*Category

	q := scope(a.db.NewSelect().Model(&records))
	if term := likeTerm(params.Search); term != "" {
		q = q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				Where("LOWER(?TableAlias.name) LIKE ?", term).
				WhereOr("LOWER(?TableAlias.description) LIKE ?", term)
		})
	}

	total, err := q.
		Order("cat.name ASC").
		Offset(params.Skip).
		Limit(params.Limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (a *categories) ExistsWithName(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	q := a.db.NewSelect().
		Model((*Category)(nil)).
		Where("?TableAlias.name = ?", name)

	if exclude != uuid.Nil {
		q = q.Where("?TableAlias.id != ?", exclude)
	}

	return q.Exists(ctx)
}

func (a *categories) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*Category)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}
