package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-registry/internal/apperr"
	"github.com/iliyamo/student-registry/internal/repository"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// pageParams reads ?page= and ?page_size= into a repository.Page. Invalid or
// missing values fall back to the defaults via Normalize.
func pageParams(c echo.Context) repository.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	return repository.Page{Page: page, PageSize: size}.Normalize()
}

// idParam parses the :id path segment.
func idParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("invalid id")
	}
	return id, nil
}

// listBody is the envelope for paginated collections.
func listBody(items any, total int64, p repository.Page) echo.Map {
	return echo.Map{
		"items":     items,
		"total":     total,
		"page":      p.Page,
		"page_size": p.PageSize,
	}
}
