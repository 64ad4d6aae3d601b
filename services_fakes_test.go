package content_test

import (
	"context"
	"database/sql"

	content "github.com/goliatone/go-content-api"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// The fakes embed the repository interfaces so only the methods the
// services exercise need real implementations.

type fakeUsers struct {
	content.Users

	byID     map[string]*content.User
	taken    bool
	listed   []*content.User
	created  *content.User
	updated  *content.User
	deleted  []uuid.UUID
	lastList content.ListParams
}

func newFakeUsers(users ...*content.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*content.User{}}
	for _, u := range users {
		f.byID[u.ID.String()] = u
		f.listed = append(f.listed, u)
	}
	return f
}

func (f *fakeUsers) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*content.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeUsers) List(ctx context.Context, params content.ListParams) ([]*content.User, int, error) {
	f.lastList = params
	return f.listed, len(f.listed), nil
}

func (f *fakeUsers) ExistsWithUsernameOrEmail(ctx context.Context, username, email string, exclude uuid.UUID) (bool, error) {
	return f.taken, nil
}

func (f *fakeUsers) Create(ctx context.Context, record *content.User, criteria ...repository.InsertCriteria) (*content.User, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.created = record
	f.byID[record.ID.String()] = record
	return record, nil
}

func (f *fakeUsers) Update(ctx context.Context, record *content.User, criteria ...repository.UpdateCriteria) (*content.User, error) {
	f.updated = record
	f.byID[record.ID.String()] = record
	return record, nil
}

func (f *fakeUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *content.User) (*content.User, error) {
	return f.Create(ctx, user)
}

func (f *fakeUsers) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id.String()]; !ok {
		return repository.NewRecordNotFound()
	}
	delete(f.byID, id.String())
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeArticles struct {
	content.Articles

	byID       map[string]*content.Article
	listed     []*content.Article
	created    *content.Article
	updated    *content.Article
	deleted    []uuid.UUID
	inCategory int
	lastList   content.ListParams
}

func newFakeArticles(articles ...*content.Article) *fakeArticles {
	f := &fakeArticles{byID: map[string]*content.Article{}}
	for _, a := range articles {
		f.byID[a.ID.String()] = a
		f.listed = append(f.listed, a)
	}
	return f
}

func (f *fakeArticles) GetWithRelations(ctx context.Context, id uuid.UUID) (*content.Article, error) {
	if a, ok := f.byID[id.String()]; ok {
		return a, nil
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeArticles) List(ctx context.Context, params content.ListParams) ([]*content.Article, int, error) {
	f.lastList = params
	return f.listed, len(f.listed), nil
}

func (f *fakeArticles) ListPublished(ctx context.Context, params content.ListParams) ([]*content.Article, int, error) {
	f.lastList = params
	out := make([]*content.Article, 0, len(f.listed))
	for _, a := range f.listed {
		if a.Published {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (f *fakeArticles) ListByAuthor(ctx context.Context, authorID uuid.UUID, params content.ListParams) ([]*content.Article, int, error) {
	f.lastList = params
	out := make([]*content.Article, 0, len(f.listed))
	for _, a := range f.listed {
		if a.AuthorID == authorID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (f *fakeArticles) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	return f.inCategory, nil
}

func (f *fakeArticles) Create(ctx context.Context, record *content.Article, criteria ...repository.InsertCriteria) (*content.Article, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.created = record
	f.byID[record.ID.String()] = record
	return record, nil
}

func (f *fakeArticles) Update(ctx context.Context, record *content.Article, criteria ...repository.UpdateCriteria) (*content.Article, error) {
	f.updated = record
	f.byID[record.ID.String()] = record
	return record, nil
}

func (f *fakeArticles) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id.String()]; !ok {
		return repository.NewRecordNotFound()
	}
	delete(f.byID, id.String())
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCategories struct {
	content.Categories

	byID    map[string]*content.Category
	taken   bool
	listed  []*content.Category
	created *content.Category
	updated *content.Category
	deleted []uuid.UUID
}

func newFakeCategories(categories ...*content.Category) *fakeCategories {
	f := &fakeCategories{byID: map[string]*content.Category{}}
	for _, c := range categories {
		f.byID[c.ID.String()] = c
		f.listed = append(f.listed, c)
	}
	return f
}

func (f *fakeCategories) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*content.Category, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeCategories) List(ctx context.Context, params content.ListParams) ([]*content.Category, int, error) {
	return f.listed, len(f.listed), nil
}

func (f *fakeCategories) ListActive(ctx context.Context, params content.ListParams) ([]*content.Category, int, error) {
	out := make([]*content.Category, 0, len(f.listed))
	for _, c := range f.listed {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (f *fakeCategories) ExistsWithName(ctx context.Context, name string, exclude uuid.UUID) (bool, error) {
	return f.taken, nil
}

func (f *fakeCategories) Create(ctx context.Context, record *content.Category, criteria ...repository.InsertCriteria) (*content.Category, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	f.created = record
	f.byID[record.ID.String()] = record
	return record, nil
}

func (f *fakeCategories) Update(ctx context.Context, record *content.Category, criteria ...repository.UpdateCriteria) (*content.Category, error) {
	f.updated = record
	f.byID[record.ID.String()] = record
	return record, nil
}

func (f *fakeCategories) DeleteByID(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id.String()]; !ok {
		return repository.NewRecordNotFound()
	}
	delete(f.byID, id.String())
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeRepo struct {
	content.RepositoryManager

	users      *fakeUsers
	articles   *fakeArticles
	categories *fakeCategories
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:      newFakeUsers(),
		articles:   newFakeArticles(),
		categories: newFakeCategories(),
	}
}

func (f *fakeRepo) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

func (f *fakeRepo) Users() content.Users           { return f.users }
func (f *fakeRepo) Articles() content.Articles     { return f.articles }
func (f *fakeRepo) Categories() content.Categories { return f.categories }

// Test subjects shared by the service tests.
func adminSubject() *content.Subject {
	return &content.Subject{ID: uuid.New(), Username: "admin", Role: content.RoleAdmin}
}

func memberSubject() *content.Subject {
	return &content.Subject{ID: uuid.New(), Username: "member", Role: content.RoleMember}
}
