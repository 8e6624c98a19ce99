// Package apperr defines the typed error taxonomy shared by handlers and
// middleware, and the central formatter that turns any error escaping a
// handler into the JSON failure envelope. Handlers never write failure
// responses themselves; they return one of these errors and let the
// formatter map it to a status code and a client-safe message.
package apperr

import "net/http"

// Kind discriminates the error categories the API can surface. Dispatch is
// on this tag, never on dynamic type chains.
type Kind int

const (
	KindAuthentication Kind = iota + 1 // 401: bad credentials or unusable token
	KindAuthorization                  // 403: authenticated but not allowed
	KindValidation                     // 400: malformed body / missing field
	KindConflict                       // 409: duplicate resource
	KindNotFound                       // 404: no such resource
	KindInternal                       // 500: everything else
)

// Error is the single error type crossing the handler boundary. Message and
// Code are client-facing; Err is the internal cause and is only ever logged.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the error kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// InvalidCredentials is returned for every login failure. Unknown username
// and wrong password produce this same value so responses cannot be used to
// probe which accounts exist.
func InvalidCredentials() *Error {
	return &Error{Kind: KindAuthentication, Code: "INVALID_CREDENTIALS", Message: "invalid credentials"}
}

// Unauthorized is returned for every token failure on a protected route:
// missing bearer, malformed, bad signature, expired, denylisted, unknown
// subject or stale token version. The cause stays internal; all branches are
// indistinguishable from the response.
func Unauthorized(cause error) *Error {
	return &Error{Kind: KindAuthentication, Code: "UNAUTHORIZED", Message: "invalid or expired token", Err: cause}
}

// Forbidden is returned when an authenticated caller lacks the required role
// or permission.
func Forbidden() *Error {
	return &Error{Kind: KindAuthorization, Code: "FORBIDDEN", Message: "insufficient permissions"}
}

// Validation wraps a client-safe description of a malformed request.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Code: "INVALID_REQUEST", Message: msg}
}

// Conflict signals a uniqueness violation such as a duplicate username.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Code: "CONFLICT", Message: msg}
}

// NotFound signals that the addressed resource does not exist.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: msg}
}

// Internal hides an unexpected failure behind a generic message.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: "INTERNAL", Message: "internal server error", Err: cause}
}
