package content

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated subject
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
	IsActive() bool
}

// Authenticator resolves credentials or bearer tokens into identities
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (Identity, string, error)
	Authenticate(ctx context.Context, token string) (Identity, error)
	Refresh(ctx context.Context, identity Identity) (string, error)
}

// TokenService issues and validates signed bearer tokens
type TokenService interface {
	Issue(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
	Lifetime() time.Duration
}

// IdentityProvider ensures we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// Config holds the process wide options consumed by the core. Values are
// loaded once at startup and immutable afterwards.
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	// GetTokenExpiration is the token lifetime in seconds.
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	// GetMaxPageSize caps the limit parameter on list endpoints.
	GetMaxPageSize() int
	GetDefaultPageSize() int
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] CONTENT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] CONTENT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] CONTENT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] CONTENT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
