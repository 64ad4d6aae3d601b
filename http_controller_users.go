package content

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// UsersController serves identity management, admin only except for
// self updates.
type UsersController struct {
	Logger  Logger
	Service *UserService
	cfg     Config
}

func NewUsersController(service *UserService, cfg Config, logger Logger) *UsersController {
	if logger == nil {
		logger = defLogger{}
	}
	return &UsersController{
		Logger:  logger,
		Service: service,
		cfg:     cfg,
	}
}

func RegisterUserRoutes[T any](app router.Router[T], auther *RouteAuthenticator, controller *UsersController) {
	protected := auther.Protected()

	app.Get("/users", controller.Index, protected).SetName("users.index")
	app.Get("/users/search", controller.Search, protected).SetName("users.search")
	app.Get("/users/:id", controller.Show, protected).SetName("users.show")
	app.Post("/users", controller.Create, protected).SetName("users.create")
	app.Put("/users/:id", controller.Update, protected).SetName("users.update")
	app.Delete("/users/:id", controller.Delete, protected).SetName("users.delete")
}

// CreateUserPayload is the admin user creation payload.
type CreateUserPayload struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	FullName string `form:"full_name" json:"full_name"`
	Phone    string `form:"phone_number" json:"phone_number"`
	IsAdmin  bool   `form:"is_admin" json:"is_admin"`
	IsActive *bool  `form:"is_active" json:"is_active"`
}

// Validate will run validation rules
func (r CreateUserPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
			validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
			validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
			validation.Field(&r.FullName, validation.Length(0, 200)),
		)
	}, "Invalid user payload")
}

// UpdateUserPayload is the partial update payload; absent fields stay
// untouched.
type UpdateUserPayload struct {
	Email    *string `form:"email" json:"email"`
	FullName *string `form:"full_name" json:"full_name"`
	Phone    *string `form:"phone_number" json:"phone_number"`
	Password *string `form:"password" json:"password"`
	IsAdmin  *bool   `form:"is_admin" json:"is_admin"`
	IsActive *bool   `form:"is_active" json:"is_active"`
}

// Validate will run validation rules
func (r UpdateUserPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Email, validation.Length(6, 100), is.Email),
			validation.Field(&r.Password, validation.Length(8, 100)),
			validation.Field(&r.FullName, validation.Length(0, 200)),
		)
	}, "Invalid user payload")
}

func (u *UsersController) Index(ctx router.Context) error {
	page, err := u.Service.List(ctx.Context(), u.subject(ctx), ParseListParams(ctx))
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, page)
}

func (u *UsersController) Search(ctx router.Context) error {
	params := ParseListParams(ctx)
	if params.Search == "" {
		params.Search = ctx.Query("search", "")
	}

	page, err := u.Service.List(ctx.Context(), u.subject(ctx), params)
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, page)
}

func (u *UsersController) Show(ctx router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	dto, err := u.Service.Get(ctx.Context(), u.subject(ctx), id)
	if err != nil {
		return RenderError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, dto)
}

func (u *UsersController) Create(ctx router.Context) error {
	payload := new(CreateUserPayload)

	if err := ctx.Bind(payload); err != nil {
		u.Logger.Error("create user parse payload: %s", err)
		return RenderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if verr := payload.Validate(); verr != nil {
		return RenderError(ctx, verr)
	}

	dto, err := u.Service.Create(ctx.Context(), u.subject(ctx), CreateUserInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		FullName: payload.FullName,
		Phone:    payload.Phone,
		IsAdmin:  payload.IsAdmin,
		IsActive: payload.IsActive,
	})
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, dto)
}

func (u *UsersController) Update(ctx router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	payload := new(UpdateUserPayload)
	if err := ctx.Bind(payload); err != nil {
		u.Logger.Error("update user parse payload: %s", err)
		return RenderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if verr := payload.Validate(); verr != nil {
		return RenderError(ctx, verr)
	}

	dto, err := u.Service.Update(ctx.Context(), u.subject(ctx), id, UpdateUserInput{
		Email:    payload.Email,
		FullName: payload.FullName,
		Phone:    payload.Phone,
		Password: payload.Password,
		IsAdmin:  payload.IsAdmin,
		IsActive: payload.IsActive,
	})
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, dto)
}

func (u *UsersController) Delete(ctx router.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return RenderError(ctx, err)
	}

	if err := u.Service.Delete(ctx.Context(), u.subject(ctx), id); err != nil {
		return RenderError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (u *UsersController) subject(ctx router.Context) *Subject {
	return RouterSubject(ctx, u.cfg.GetContextKey())
}

// pathID parses the :id route parameter as a uuid.
func pathID(ctx router.Context) (uuid.UUID, error) {
	raw := ctx.Param("id", "")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.New("invalid id parameter", errors.CategoryBadInput).
			WithTextCode("INVALID_ID")
	}
	return id, nil
}
