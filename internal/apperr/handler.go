package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type failureBody struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   failureCode `json:"error"`
}

type failureCode struct {
	Code string `json:"code"`
}

// HTTPErrorHandler is installed as the echo error handler. It understands
// three shapes: *Error (the taxonomy), *echo.HTTPError (router-level 404/405
// and anything echo raises itself) and plain errors, which are treated as
// internal. The response body never carries the internal cause.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	body := failureBody{
		Message: "internal server error",
		Error:   failureCode{Code: "INTERNAL"},
	}

	var ae *Error
	var he *echo.HTTPError
	switch {
	case errors.As(err, &ae):
		status = ae.Status()
		body.Message = ae.Message
		body.Error.Code = ae.Code
	case errors.As(err, &he):
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			body.Message = msg
		} else {
			body.Message = http.StatusText(he.Code)
		}
		body.Error.Code = "HTTP_ERROR"
	}

	if status >= http.StatusInternalServerError {
		c.Logger().Errorf("request failed: %v", err)
	}

	if c.Request().Method == http.MethodHead {
		if err := c.NoContent(status); err != nil {
			c.Logger().Error(err)
		}
		return
	}
	if err := c.JSON(status, body); err != nil {
		c.Logger().Error(err)
	}
}
