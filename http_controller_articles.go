package content

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// ArticlesController serves article CRUD for authenticated users.
type ArticlesController struct {
	Logger  Logger
	Service *ArticleService
	cfg     Config
}

func NewArticlesController(service *ArticleService, cfg Config, logger Logger) *ArticlesController {
	if logger == nil {
		logger = defLogger{}
	}
	return &ArticlesController{
		Logger:  logger,
		Service: service,
		cfg:     cfg,
	}
}

func RegisterArticleRoutes[T any](app router.Router[T], auther *RouteAuthenticator, controller *ArticlesController) {
	protected := auther.Protected()

	app.Get("/articles", controller.Index, protected).SetName("articles.index")
	app.Get("/articles/published", controller.Published, protected).SetName("articles.published")
	app.Get("/articles/search", controller.Search, protected).SetName("articles.search")
	app.Get("/articles/:id", controller.Show, protected).SetName("articles.show")
	app.Post("/articles", controller.Create, protected).SetName("articles.create")
	app.Put("/articles/:id", controller.Update, protected).SetName("articles.update")
	app.Delete("/articles/:id", controller.Delete, protected).SetName("articles.delete")
}

// CreateArticlePayload is the article creation payload. The author is
// always the acting subject, never taken from the body.
type CreateArticlePayload struct {
	Title      string `form:"title" json:"title"`
	Content    string `form:"content" json:"content"`
	Summary    string `form:"summary" json:"summary"`
	Published  bool   `form:"is_published" json:"is_published"`
	CategoryID string `form:"category_id" json:"category_id"`
}

// Validate will run validation rules
func (r CreateArticlePayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Title, validation.Required, validation.Length(1, 300)),
			validation.Field(&r.Content, validation.Required),
			validation.Field(&r.Summary, validation.Length(0, 500)),
			validation.Field(&r.CategoryID, is.UUID),
		)
	}, "Invalid article payload")
}

// UpdateArticlePayload is the partial update payload.
type UpdateArticlePayload struct {
	Title      *string `form:"title" json:"title"`
	Content    *string `form:"content" json:"content"`
	Summary    *string `form:"summary" json:"summary"`
	Published  *bool   `form:"is_published" json:"is_published"`
	CategoryID *string `form:"category_id" json:"category_id"`
}

// Validate will run validation rules
func (r UpdateArticlePayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Title, validation.Length(1, 300)),
			validation.Field(&r.Summary, validation.Length(0, 500)),
		)
	}, "Invalid article payload")
}

func (a *ArticlesController) Index(ctx router.Context) error {
	page, err := a.Service.List(ctx.Context(), a.subject(ctx), ParseListParams(ctx))
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, page)
}

func (a *ArticlesController) Published(ctx router.Context) error {
	page, err := a.Service.ListPublished(ctx.Context(), a.subject(ctx), ParseListParams(ctx))
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, page)
}

func (a *ArticlesController) Search(ctx router.Context) error {
	params := ParseListParams(ctx)
	if params.Search == "" {
		params.Search = ctx.Query("search", "")
	}

	page, err := a.Service.List(ctx.Context(), a.subject(ctx), params)
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, page)
}

func (a *ArticlesController) Show(ctx router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	article, err := a.Service.Get(ctx.Context(), a.subject(ctx), id)
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, article)
}

func (a *ArticlesController) Create(ctx router.Context) error {
	payload := new(CreateArticlePayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("create article parse payload: %s", err)
		return RenderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if verr := payload.Validate(); verr != nil {
		return RenderError(ctx, verr)
	}

	categoryID, err := optionalUUID(payload.CategoryID)
	if err != nil {
		return RenderError(ctx, err)
	}

	article, err := a.Service.Create(ctx.Context(), a.subject(ctx), CreateArticleInput{
		Title:      payload.Title,
		Content:    payload.Content,
		Summary:    payload.Summary,
		Published:  payload.Published,
		CategoryID: categoryID,
	})
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, article)
}

func (a *ArticlesController) Update(ctx router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	payload := new(UpdateArticlePayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("update article parse payload: %s", err)
		return RenderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if verr := payload.Validate(); verr != nil {
		return RenderError(ctx, verr)
	}

	input := UpdateArticleInput{
		Title:     payload.Title,
		Content:   payload.Content,
		Summary:   payload.Summary,
		Published: payload.Published,
	}

	if payload.CategoryID != nil {
		categoryID, err := optionalUUID(*payload.CategoryID)
		if err != nil {
			return RenderError(ctx, err)
		}
		input.CategoryID = &categoryID
	}

	article, err := a.Service.Update(ctx.Context(), a.subject(ctx), id, input)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, article)
}

func (a *ArticlesController) Delete(ctx router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if err := a.Service.Delete(ctx.Context(), a.subject(ctx), id); err != nil {
		return RenderError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (a *ArticlesController) subject(ctx router.Context) *Subject {
	return RouterSubject(ctx, a.cfg.GetContextKey())
}

// optionalUUID parses an id field that may be empty.
func optionalUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("invalid id parameter", errors.CategoryBadInput).
			WithTextCode("INVALID_ID")
	}
	return id, nil
}
