package content

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Articles interface {
	repository.Repository[*Article]

	Create(ctx context.Context, record *Article, criteria ...repository.InsertCriteria) (*Article, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Article, criteria ...repository.InsertCriteria) (*Article, error)

	GetWithRelations(ctx context.Context, id uuid.UUID) (*Article, error)
	List(ctx context.Context, params ListParams) ([]*Article, int, error)
	ListPublished(ctx context.Context, params ListParams) ([]*Article, int, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, params ListParams) ([]*Article, int, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

type articles struct {
	repository.Repository[*Article]
	db *bun.DB
}

var (
	_ Articles                        = (*articles)(nil)
	_ repository.Repository[*Article] = (*articles)(nil)
)

func NewArticlesRepository(db *bun.DB) Articles {
	repo := repository.NewRepository[*Article](db, repository.ModelHandlers[*Article]{
		NewRecord: func() *Article { return &Article{} },
		GetID: func(a *Article) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Article, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
	})

	return &articles{
		Repository: repo,
		db:         db,
	}
}

func (a *articles) Create(ctx context.Context, record *Article, criteria ...repository.InsertCriteria) (*Article, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *articles) CreateTx(ctx context.Context, tx bun.IDB, record *Article, criteria ...repository.InsertCriteria) (*Article, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

// GetWithRelations loads an article with its author and category.
func (a *articles) GetWithRelations(ctx context.Context, id uuid.UUID) (*Article, error) {
	record := &Article{}
	err := a.db.NewSelect().
		Model(record).
		Relation("Author").
		Relation("Category").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (a *articles) List(ctx context.Context, params ListParams) ([]*Article, int, error) {
	return a.list(ctx, params, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q
	})
}

func (a *articles) ListPublished(ctx context.Context, params ListParams) ([]*Article, int, error) {
	return a.list(ctx, params, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.is_published = ?", true)
	})
}

func (a *articles) ListByAuthor(ctx context.Context, authorID uuid.UUID, params ListParams) ([]*Article, int, error) {
	return a.list(ctx, params, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.author_id = ?", authorID)
	})
}

func (a *articles) list(ctx context.Context, params ListParams, scope func(*bun.SelectQuery) *bun.SelectQuery) ([]*Article, int, error) {
	var records []*Article

	q := scope(a.db.NewSelect().Model(&records))
	if term := likeTerm(params.Search); term != "" {
		q = q.WhereGroup(" AND ", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.
				Where("LOWER(?TableAlias.title) LIKE ?", term).
				WhereOr("LOWER(?TableAlias.content) LIKE ?", term).
				WhereOr("LOWER(?TableAlias.summary) LIKE ?", term)
		})
	}

	total, err := q.
		Relation("Author").
		Relation("Category").
		Order("art.created_at ASC").
		Offset(params.Skip).
		Limit(params.Limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (a *articles) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	return a.db.NewSelect().
		Model((*Article)(nil)).
		Where("?TableAlias.category_id = ?", categoryID).
		Count(ctx)
}

func (a *articles) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res, err := a.db.NewDelete().
		Model((*Article)(nil)).
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
