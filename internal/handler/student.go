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

// StudentHandler exposes CRUD over the students table.
type StudentHandler struct {
	Repo *repository.StudentRepo
}

func NewStudentHandler(r *repository.StudentRepo) *StudentHandler { return &StudentHandler{Repo: r} }

type studentReq struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

func (r *studentReq) validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	if r.FirstName == "" || r.LastName == "" || r.Email == "" {
		return apperr.Validation("first_name, last_name and email are required")
	}
	if !strings.Contains(r.Email, "@") {
		return apperr.Validation("invalid email")
	}
	return nil
}

// List returns a page of students, optionally filtered by ?q= against name
// and email.
func (h *StudentHandler) List(c echo.Context) error {
	p := pageParams(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, total, err := h.Repo.Search(ctx, c.QueryParam("q"), p)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, listBody(items, total, p))
}

func (h *StudentHandler) Get(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	st, err := h.Repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("student not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *StudentHandler) Create(c echo.Context) error {
	var req studentReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	if err := req.validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	st, err := h.Repo.Create(ctx, req.FirstName, req.LastName, req.Email)
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.Conflict("email already registered")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusCreated, st)
}

func (h *StudentHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var req studentReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	if err := req.validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	st, err := h.Repo.Update(ctx, id, req.FirstName, req.LastName, req.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("student not found")
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict("email already registered")
	case err != nil:
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *StudentHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("student not found")
		}
		return apperr.Internal(err)
	}
	return c.NoContent(http.StatusNoContent)
}
