package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-registry/internal/apperr"
	"github.com/iliyamo/student-registry/internal/repository"
)

// CourseHandler exposes CRUD over the courses table.
type CourseHandler struct {
	Repo *repository.CourseRepo
}

func NewCourseHandler(r *repository.CourseRepo) *CourseHandler { return &CourseHandler{Repo: r} }

type courseReq struct {
	Code    string `json:"code"`
	Title   string `json:"title"`
	Credits uint8  `json:"credits"`
}

func (r *courseReq) validate() error {
	r.Code = strings.TrimSpace(r.Code)
	r.Title = strings.TrimSpace(r.Title)
	if r.Code == "" || r.Title == "" {
		return apperr.Validation("code and title are required")
	}
	if r.Credits == 0 {
		return apperr.Validation("credits must be positive")
	}
	return nil
}

// List returns a page of courses, optionally filtered by ?q= against code
// and title.
func (h *CourseHandler) List(c echo.Context) error {
	p := pageParams(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, total, err := h.Repo.Search(ctx, c.QueryParam("q"), p)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, listBody(items, total, p))
}

func (h *CourseHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	course, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("course not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Create(c echo.Context) error {
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	if err := req.validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	course, err := h.Repo.Create(ctx, req.Code, req.Title, req.Credits)
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.Conflict("course code already exists")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	if err := req.validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	course, err := h.Repo.Update(ctx, id, req.Code, req.Title, req.Credits)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("course not found")
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict("course code already exists")
	case err != nil:
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("course not found")
		}
		return apperr.Internal(err)
	}
	return c.NoContent(http.StatusNoContent)
}
