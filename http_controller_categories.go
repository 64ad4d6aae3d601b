package content

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// CategoriesController serves category CRUD. Reads are public; writes
// go through the admin guard in the service.
type CategoriesController struct {
	Logger  Logger
	Service *CategoryService
	cfg     Config
}

func NewCategoriesController(service *CategoryService, cfg Config, logger Logger) *CategoriesController {
	if logger == nil {
		logger = defLogger{}
	}
	return &CategoriesController{
		Logger:  logger,
		Service: service,
		cfg:     cfg,
	}
}

func RegisterCategoryRoutes[T any](app router.Router[T], auther *RouteAuthenticator, controller *CategoriesController) {
	protected := auther.Protected()
	optional := auther.Optional()

	app.Get("/categories", controller.Index, optional).SetName("categories.index")
	app.Get("/categories/active", controller.Active, optional).SetName("categories.active")
	app.Get("/categories/:id", controller.Show, optional).SetName("categories.show")
	app.Post("/categories", controller.Create, protected).SetName("categories.create")
	app.Put("/categories/:id", controller.Update, protected).SetName("categories.update")
	app.Delete("/categories/:id", controller.Delete, protected).SetName("categories.delete")
}

// CreateCategoryPayload is the category creation payload.
type CreateCategoryPayload struct {
	Name        string `form:"name" json:"name"`
	Description string `form:"description" json:"description"`
	Color       string `form:"color" json:"color"`
	IsActive    *bool  `form:"is_active" json:"is_active"`
}

// Validate will run validation rules
func (r CreateCategoryPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
			validation.Field(&r.Description, validation.Length(0, 500)),
			validation.Field(&r.Color, validation.Length(0, 20)),
		)
	}, "Invalid category payload")
}

// UpdateCategoryPayload is the partial update payload.
type UpdateCategoryPayload struct {
	Name        *string `form:"name" json:"name"`
	Description *string `form:"description" json:"description"`
	Color       *string `form:"color" json:"color"`
	IsActive    *bool   `form:"is_active" json:"is_active"`
}

// Validate will run validation rules
func (r UpdateCategoryPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Name, validation.Length(1, 100)),
			validation.Field(&r.Description, validation.Length(0, 500)),
			validation.Field(&r.Color, validation.Length(0, 20)),
		)
	}, "Invalid category payload")
}

func (c *CategoriesController) Index(ctx router.Context) error {
	page, err := c.Service.List(ctx.Context(), c.subject(ctx), ParseListParams(ctx))
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, page)
}

func (c *CategoriesController) Active(ctx router.Context) error {
	page, err := c.Service.ListActive(ctx.Context(), c.subject(ctx), ParseListParams(ctx))
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, page)
}

func (c *CategoriesController) Show(ctx router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	category, err := c.Service.Get(ctx.Context(), c.subject(ctx), id)
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, category)
}

func (c *CategoriesController) Create(ctx router.Context) error {
	payload := new(CreateCategoryPayload)

	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("create category parse payload: %s", err)
		return RenderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if verr := payload.Validate(); verr != nil {
		return RenderError(ctx, verr)
	}

	category, err := c.Service.Create(ctx.Context(), c.subject(ctx), CreateCategoryInput{
		Name:        payload.Name,
		Description: payload.Description,
		Color:       payload.Color,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, category)
}

func (c *CategoriesController) Update(ctx router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	payload := new(UpdateCategoryPayload)
	if err := ctx.Bind(payload); err != nil {
		c.Logger.Error("update category parse payload: %s", err)
		return RenderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if verr := payload.Validate(); verr != nil {
		return RenderError(ctx, verr)
	}

	category, err := c.Service.Update(ctx.Context(), c.subject(ctx), id, UpdateCategoryInput{
		Name:        payload.Name,
		Description: payload.Description,
		Color:       payload.Color,
		IsActive:    payload.IsActive,
	})
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, category)
}

func (c *CategoriesController) Delete(ctx router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if err := c.Service.Delete(ctx.Context(), c.subject(ctx), id); err != nil {
		return RenderError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (c *CategoriesController) subject(ctx router.Context) *Subject {
	return RouterSubject(ctx, c.cfg.GetContextKey())
}
