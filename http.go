package content

import (
	"github.com/goliatone/go-content-api/middleware/jwtware"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// HTTPAuthenticator is the surface the transport layer needs from the
// authenticator.
type HTTPAuthenticator interface {
	Authenticator
	TokenService() TokenService
}

// RouteAuthenticator adapts the Authenticator for route protection. The
// middleware validates the bearer token, then re-reads the identity
// from the store so disabled or deleted accounts are rejected even
// while their token is still unexpired.
type RouteAuthenticator struct {
	auth         HTTPAuthenticator
	provider     IdentityProvider
	cfg          Config
	Logger       Logger
	ErrorHandler router.ErrorHandler
}

func NewHTTPAuthenticator(auther HTTPAuthenticator, provider IdentityProvider, cfg Config) (*RouteAuthenticator, error) {
	a := &RouteAuthenticator{
		cfg:      cfg,
		auth:     auther,
		provider: provider,
		Logger:   defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	return a, nil
}

func (a *RouteAuthenticator) WithLogger(logger Logger) *RouteAuthenticator {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// Protected returns middleware that rejects requests without a valid
// token and live account.
func (a *RouteAuthenticator) Protected() router.MiddlewareFunc {
	return a.middleware(false)
}

// Optional returns middleware that lets anonymous requests through but
// still rejects bad tokens.
func (a *RouteAuthenticator) Optional() router.MiddlewareFunc {
	return a.middleware(true)
}

func (a *RouteAuthenticator) middleware(optional bool) router.MiddlewareFunc {
	return jwtware.New(jwtware.Config{
		ErrorHandler: a.authErrorHandler(),
		Optional:     optional,
		SigningKey: jwtware.SigningKey{
			Key:    []byte(a.cfg.GetSigningKey()),
			JWTAlg: a.cfg.GetSigningMethod(),
		},
		AuthScheme:     a.cfg.GetAuthScheme(),
		ContextKey:     a.claimsKey(),
		TokenLookup:    a.cfg.GetTokenLookup(),
		TokenValidator: tokenValidatorAdapter{ts: a.auth.TokenService()},
		SuccessHandler: a.resolveIdentity,
	})
}

// claimsKey is where validated claims land; the resolved identity goes
// under the configured context key.
func (a *RouteAuthenticator) claimsKey() string {
	return a.cfg.GetContextKey() + "_claims"
}

func (a *RouteAuthenticator) resolveIdentity(ctx router.Context) error {
	raw := ctx.Locals(a.claimsKey())
	claims, ok := raw.(AuthClaims)
	if !ok {
		return a.ErrorHandler(ctx, ErrTokenInvalid)
	}

	identity, err := a.provider.FindIdentityByIdentifier(ctx.Context(), claims.Subject())
	if err != nil {
		a.Logger.Warn("request identity lookup failed for %s: %s", claims.Subject(), err)
		return a.ErrorHandler(ctx, err)
	}

	ctx.Locals(a.cfg.GetContextKey(), identity)
	ctx.SetContext(WithSubjectContext(
		WithClaimsContext(ctx.Context(), claims),
		SubjectFromIdentity(identity),
	))

	return ctx.Next()
}

func (a *RouteAuthenticator) authErrorHandler() router.ErrorHandler {
	return func(ctx router.Context, err error) error {
		var richErr *errors.Error

		if IsTokenExpiredError(err) {
			richErr = ErrTokenExpired
		} else if errors.As(err, &richErr) && richErr.Category == errors.CategoryAuth {
			// keep domain auth errors as is
		} else {
			richErr = ErrTokenInvalid
		}

		return a.ErrorHandler(ctx, richErr)
	}
}

func (a *RouteAuthenticator) defaultErrHandler(c router.Context, err error) error {
	return RenderError(c, err)
}

type tokenValidatorAdapter struct {
	ts TokenService
}

func (v tokenValidatorAdapter) Validate(raw string) (jwtware.AuthClaims, error) {
	claims, err := v.ts.Validate(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message  string `json:"message"`
	TextCode string `json:"text_code,omitempty"`
}

// RenderError maps a domain error to its HTTP response.
func RenderError(c router.Context, err error) error {
	status := HTTPStatus(err)

	detail := ErrorDetail{Message: "An unexpected server error occurred"}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		detail.TextCode = richErr.TextCode
		if status < 500 {
			detail.Message = richErr.Message
		}
	}

	return c.JSON(status, ErrorBody{Error: detail})
}

// ParseListParams extracts pagination and search from the query string.
// Clamping happens in the services.
func ParseListParams(ctx router.Context) ListParams {
	return ListParams{
		Skip:   ctx.QueryInt("skip", 0),
		Limit:  ctx.QueryInt("limit", 0),
		Search: ctx.Query("q", ""),
	}
}
