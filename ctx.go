package content

import (
	"context"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

var subjectCtxKey = &contextKey{"subject"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithSubjectContext sets the acting Subject in the given context
func WithSubjectContext(r context.Context, subject *Subject) context.Context {
	return context.WithValue(r, subjectCtxKey, subject)
}

// SubjectFromContext finds the subject from the context.
func SubjectFromContext(ctx context.Context) (*Subject, bool) {
	raw, ok := ctx.Value(subjectCtxKey).(*Subject)
	return raw, ok
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(r context.Context, claims AuthClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}

// GetRouterIdentity extracts the authenticated Identity from the router context
func GetRouterIdentity(ctx router.Context, key string) (Identity, bool) {
	if key == "" {
		key = "user"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	identity, ok := raw.(Identity)
	return identity, ok
}

// SubjectFromIdentity builds a guard subject from an authenticated
// identity. Identities with unparsable ids come back nil.
func SubjectFromIdentity(identity Identity) *Subject {
	if identity == nil {
		return nil
	}

	id, err := uuid.Parse(identity.ID())
	if err != nil {
		return nil
	}

	return &Subject{
		ID:       id,
		Username: identity.Username(),
		Role:     UserRole(identity.Role()),
	}
}

// RouterSubject resolves the acting subject for a request, nil when the
// request is anonymous.
func RouterSubject(ctx router.Context, key string) *Subject {
	identity, ok := GetRouterIdentity(ctx, key)
	if !ok {
		return nil
	}
	return SubjectFromIdentity(identity)
}
