// Package router wires handlers, guards and rate limiting onto the echo
// instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/student-registry/internal/config"
	"github.com/iliyamo/student-registry/internal/handler"
	"github.com/iliyamo/student-registry/internal/middleware"
	"github.com/iliyamo/student-registry/internal/model"
	"github.com/iliyamo/student-registry/internal/rbac"
	"github.com/iliyamo/student-registry/internal/token"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints. Login and refresh are open but
// rate limited; register is admin-gated; logout and me require a live
// session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, v *token.Verifier, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1/auth", middleware.NewTokenBucket(rlCfg, rdb))
	g.POST("/login", a.Login)
	g.POST("/refresh-token", a.RefreshToken)
	g.POST("/register", a.Register,
		middleware.Authenticate(v), middleware.RequireRole(model.RoleAdmin))

	auth := e.Group("/v1", middleware.Authenticate(v))
	auth.POST("/logout", a.Logout)
	auth.GET("/me", a.Me)
}

// RegisterRegistry registers the student/course/enrollment CRUD surface.
// Reads need the matching view_* permission, mutations the manage_* one;
// with the current table that means students can browse and admins can edit.
func RegisterRegistry(e *echo.Echo, s *handler.StudentHandler, c *handler.CourseHandler, en *handler.EnrollmentHandler, v *token.Verifier) {
	g := e.Group("/v1", middleware.Authenticate(v))

	g.GET("/students", s.List, middleware.RequirePermission(rbac.PermViewStudents))
	g.GET("/students/:id", s.Get, middleware.RequirePermission(rbac.PermViewStudents))
	g.POST("/students", s.Create, middleware.RequirePermission(rbac.PermManageStudents))
	g.PUT("/students/:id", s.Update, middleware.RequirePermission(rbac.PermManageStudents))
	g.DELETE("/students/:id", s.Delete, middleware.RequirePermission(rbac.PermManageStudents))

	g.GET("/courses", c.List, middleware.RequirePermission(rbac.PermViewCourses))
	g.GET("/courses/:id", c.Get, middleware.RequirePermission(rbac.PermViewCourses))
	g.POST("/courses", c.Create, middleware.RequirePermission(rbac.PermManageCourses))
	g.PUT("/courses/:id", c.Update, middleware.RequirePermission(rbac.PermManageCourses))
	g.DELETE("/courses/:id", c.Delete, middleware.RequirePermission(rbac.PermManageCourses))

	g.GET("/enrollments", en.List, middleware.RequirePermission(rbac.PermViewEnrollments))
	g.POST("/enrollments", en.Create, middleware.RequirePermission(rbac.PermManageEnrollments))
	g.DELETE("/enrollments/:id", en.Delete, middleware.RequirePermission(rbac.PermManageEnrollments))
}
