package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-registry/internal/apperr"
	"github.com/iliyamo/student-registry/internal/rbac"
)

// RequirePermission admits only callers whose role carries the permission
// in the static table. Like RequireRole it treats a missing identity as a
// 401 and a present-but-insufficient identity as a 403.
func RequirePermission(p rbac.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, role, ok := Identity(c)
			if !ok {
				return apperr.Unauthorized(errNoIdentity)
			}
			if !rbac.Has(role, p) {
				return apperr.Forbidden()
			}
			return next(c)
		}
	}
}
