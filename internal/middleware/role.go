package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-registry/internal/apperr"
	"github.com/iliyamo/student-registry/internal/model"
)

var errNoIdentity = errors.New("no identity on request context")

// RequireRole admits only callers whose role is in the allowed set. It
// assumes Authenticate already ran: a request with no identity attached is a
// wiring bug, but it is still rejected with a 401 rather than let through.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, role, ok := Identity(c)
			if !ok {
				return apperr.Unauthorized(errNoIdentity)
			}
			if !allowed[role] {
				return apperr.Forbidden()
			}
			return next(c)
		}
	}
}
