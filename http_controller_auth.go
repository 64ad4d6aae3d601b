package content

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// AuthController serves login, registration, and session inspection.
type AuthController struct {
	Logger Logger
	Repo   RepositoryManager
	Auther HTTPAuthenticator
	cfg    Config
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing HTTPAuthenticator in auth controller...")
	}

	if c.cfg == nil {
		panic("Missing Config in auth controller...")
	}

	return c
}

func WithAuthRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthAuther(auther HTTPAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithAuthConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.cfg = cfg
		return c
	}
}

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func RegisterAuthRoutes[T any](app router.Router[T], auther *RouteAuthenticator, opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	protected := auther.Protected()

	app.Post("/auth/login", controller.LoginPost).SetName("auth.login")
	app.Post("/auth/register", controller.RegisterPost).SetName("auth.register")
	app.Get("/auth/me", controller.MeShow, protected).SetName("auth.me")
	app.Post("/auth/refresh", controller.RefreshPost, protected).SetName("auth.refresh")
}

// LoginRequest payload. Clients send username, identifier is kept as
// an alias so email logins keep working.
type LoginRequest struct {
	Username   string `form:"username" json:"username"`
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
}

// LoginName returns the login identifier, preferring username.
func (r LoginRequest) LoginName() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Identifier
}

// Validate will run validation rules
func (r LoginRequest) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(
				&r.Username,
				validation.By(ValidateRequiredUnless(r.Identifier)),
			),
			validation.Field(
				&r.Password,
				validation.Required,
			),
		)
	}, "Invalid login request payload")
}

// TokenResponse is the wire shape of a successful login or refresh.
type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	User        *IdentityView `json:"user,omitempty"`
}

// IdentityView is the token endpoint's representation of the subject.
type IdentityView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
	IsAdmin  bool   `json:"is_admin"`
}

func NewIdentityView(identity Identity) *IdentityView {
	if identity == nil {
		return nil
	}
	return &IdentityView{
		ID:       identity.ID(),
		Username: identity.Username(),
		Email:    identity.Email(),
		IsActive: identity.IsActive(),
		IsAdmin:  identity.Role() == RoleAdmin,
	}
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %s", err)
		return RenderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if verr := payload.Validate(); verr != nil {
		return RenderError(ctx, verr)
	}

	identity, token, err := a.Auther.Login(ctx.Context(), payload.LoginName(), payload.Password)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, a.tokenResponse(token, identity))
}

func (a *AuthController) MeShow(ctx router.Context) error {
	identity, ok := GetRouterIdentity(ctx, a.cfg.GetContextKey())
	if !ok {
		return RenderError(ctx, ErrUnauthenticated)
	}

	user, err := a.Repo.Users().GetByIdentifier(ctx.Context(), identity.Username())
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, NewUserDTO(user))
}

func (a *AuthController) RefreshPost(ctx router.Context) error {
	identity, ok := GetRouterIdentity(ctx, a.cfg.GetContextKey())
	if !ok {
		return RenderError(ctx, ErrUnauthenticated)
	}

	token, err := a.Auther.Refresh(ctx.Context(), identity)
	if err != nil {
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, a.tokenResponse(token, identity))
}

// RegisterPayload is the self service registration payload.
type RegisterPayload struct {
	FullName        string `form:"full_name" json:"full_name"`
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Phone           string `form:"phone_number" json:"phone_number"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload
func (r RegisterPayload) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.FullName, validation.Length(0, 200)),
			validation.Field(&r.Username, validation.Length(3, 50)),
			validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
			validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
			validation.Field(
				&r.ConfirmPassword,
				validation.Required,
				validation.Length(8, 100),
				validation.By(ValidateStringEquals(r.Password)),
			),
		)
	}, "Invalid registration payload")
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(RegisterPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: %s", err)
		return RenderError(ctx, errors.Wrap(err, errors.CategoryBadInput, "Error parsing body"))
	}

	if verr := payload.Validate(); verr != nil {
		a.Logger.Error("register user validate payload: %s", verr)
		return RenderError(ctx, verr)
	}

	var registered *User
	req := RegisterUserMessage{
		FullName: payload.FullName,
		Username: payload.Username,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Password: payload.Password,
		OnRegistered: func(u *User) {
			registered = u
		},
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	if err := registerUser.Execute(ctx.Context(), req); err != nil {
		a.Logger.Error("register user execute: %s", err)
		return RenderError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, NewUserDTO(registered))
}

func (a *AuthController) tokenResponse(token string, identity Identity) TokenResponse {
	return TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(a.Auther.TokenService().Lifetime().Seconds()),
		User:        NewIdentityView(identity),
	}
}

// ValidateRequiredUnless passes a blank value as long as the
// alternate field carries one.
func ValidateRequiredUnless(alt string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s == "" && alt == "" {
			return errors.New("cannot be blank", errors.CategoryValidation)
		}
		return nil
	}
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match", errors.CategoryValidation)
		}
		return nil
	}
}
