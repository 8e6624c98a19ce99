package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-registry/internal/apperr"
	"github.com/iliyamo/student-registry/internal/queue"
	"github.com/iliyamo/student-registry/internal/repository"
	"github.com/iliyamo/student-registry/internal/service"
)

// EnrollmentHandler links students to courses.
type EnrollmentHandler struct {
	Repo   *repository.EnrollmentRepo
	Events *service.Publisher
}

func NewEnrollmentHandler(r *repository.EnrollmentRepo, events *service.Publisher) *EnrollmentHandler {
	return &EnrollmentHandler{Repo: r, Events: events}
}

type enrollmentReq struct {
	StudentID uint64 `json:"student_id"`
	CourseID  uint64 `json:"course_id"`
}

// List returns a page of enrollments, optionally filtered by ?student_id=
// and ?course_id=.
func (h *EnrollmentHandler) List(c echo.Context) error {
	p := pageParams(c)
	var f repository.EnrollmentFilter
	f.StudentID, _ = strconv.ParseUint(c.QueryParam("student_id"), 10, 64)
	f.CourseID, _ = strconv.ParseUint(c.QueryParam("course_id"), 10, 64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, total, err := h.Repo.List(ctx, f, p)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, listBody(items, total, p))
}

func (h *EnrollmentHandler) Create(c echo.Context) error {
	var req enrollmentReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	if req.StudentID == 0 || req.CourseID == 0 {
		return apperr.Validation("student_id and course_id are required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	e, err := h.Repo.Create(ctx, req.StudentID, req.CourseID)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict("student already enrolled in course")
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("student or course not found")
	case err != nil:
		return apperr.Internal(err)
	}

	_ = h.Events.Publish(ctx, queue.QueueEnrollmentCreated, queue.EnrollmentCreatedEvent{
		EnrollmentID: e.ID,
		StudentID:    e.StudentID,
		CourseID:     e.CourseID,
		EnrolledAt:   e.EnrolledAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, e)
}

func (h *EnrollmentHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("enrollment not found")
		}
		return apperr.Internal(err)
	}
	return c.NoContent(http.StatusNoContent)
}
