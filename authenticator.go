package content

import (
	"context"
	"reflect"
)

// Auther wires the identity provider and the token service into the
// Authenticator surface the transport layer consumes.
type Auther struct {
	provider     IdentityProvider
	tokenService TokenService
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		provider:     provider,
		tokenService: tokenService,
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the token service, mostly for tests.
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login verifies the credentials and returns the identity along with a
// freshly issued token.
func (s *Auther) Login(ctx context.Context, identifier, password string) (Identity, string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		s.logger.Error("Login verify identity error: %s", err)
		return nil, "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		s.logger.Error("Login identity is nil or zero value")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokenService.Issue(identity)
	if err != nil {
		s.logger.Error("Login token issue error: %s", err)
		return nil, "", err
	}

	return identity, token, nil
}

// Authenticate validates the raw token and re-reads the identity from
// the store, so a deactivated or deleted account fails immediately even
// while its token is otherwise still valid.
func (s *Auther) Authenticate(ctx context.Context, token string) (Identity, error) {
	claims, err := s.tokenService.Validate(token)
	if err != nil {
		return nil, err
	}

	identity, err := s.provider.FindIdentityByIdentifier(ctx, claims.Subject())
	if err != nil {
		s.logger.Warn("Authenticate identity lookup failed for %s: %s", claims.Subject(), err)
		return nil, err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		return nil, ErrTokenInvalid
	}

	return identity, nil
}

// Refresh issues a new token for an already authenticated identity.
func (s *Auther) Refresh(ctx context.Context, identity Identity) (string, error) {
	if identity == nil || reflect.ValueOf(identity).IsZero() {
		return "", ErrUnauthenticated
	}

	fresh, err := s.provider.FindIdentityByIdentifier(ctx, identity.Username())
	if err != nil {
		return "", err
	}

	return s.tokenService.Issue(fresh)
}

var _ Authenticator = (*Auther)(nil)
