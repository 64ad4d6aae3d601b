package content

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds    = "invalid_credentials"
	TextCodeAccountDisabled = "account_disabled"
	TextCodeTokenInvalid    = "token_invalid"
	TextCodeTokenExpired    = "token_expired"
	TextCodeUnauthenticated = "unauthenticated"
	TextCodeForbidden       = "forbidden"
	TextCodeNotFound        = "not_found"
	TextCodeConflict        = "conflict"
	TextCodeTooManyAttempts = "too_many_login_attempts"
	TextCodeSelfDelete      = "self_delete"
)

// ErrInvalidCredentials covers both unknown identifiers and password
// mismatches so responses carry no enumeration signal.
var ErrInvalidCredentials = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrAccountDisabled is returned when the identity exists but is inactive.
var ErrAccountDisabled = errors.New("account is disabled", errors.CategoryAuth).
	WithTextCode(TextCodeAccountDisabled).
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalid is returned for malformed tokens or bad signatures.
var ErrTokenInvalid = errors.New("invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned once now >= the token's expiry instant.
var ErrTokenExpired = errors.New("authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned when the cooldown window is active.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrUnauthenticated means no valid subject was presented for an action
// that requires one.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrForbidden means the subject is valid but lacks rights.
var ErrForbidden = errors.New("insufficient permissions", errors.CategoryAuth).
	WithTextCode(TextCodeForbidden).
	WithCode(errors.CodeForbidden)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("record not found", errors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(errors.CodeNotFound)

// ErrConflict is returned on uniqueness violations (username, email,
// category name).
var ErrConflict = errors.New("record already exists", errors.CategoryConflict).
	WithTextCode(TextCodeConflict).
	WithCode(errors.CodeConflict)

// ErrSelfDelete is returned when an admin tries to delete their own
// account.
var ErrSelfDelete = errors.New("cannot delete your own account", errors.CategoryConflict).
	WithTextCode(TextCodeSelfDelete).
	WithCode(errors.CodeConflict)

// HTTPStatus maps a domain error to its transport status code.
// Authentication failures are 401, authorization failures 403, missing
// records 404, duplicates 409, payload shape problems 422.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var rich *errors.Error
	if !errors.As(err, &rich) {
		return http.StatusInternalServerError
	}

	switch rich.TextCode {
	case TextCodeForbidden:
		return http.StatusForbidden
	}

	switch rich.Category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IsTokenExpiredError will check for expired tokens, including errors
// coming from the underlying JWT library.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) || errors.Is(err, jwt.ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, jwt.ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
