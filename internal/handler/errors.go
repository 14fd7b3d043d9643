package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders unexpected errors as the error page.  Messages of
// echo.HTTPError are shown; anything else reads as an internal error and is
// only logged.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		} else {
			msg = http.StatusText(status)
		}
		if he.Internal != nil {
			c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, he.Internal)
		}
	} else {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	if status == http.StatusNotFound {
		msg = "Page not found."
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	p := page(c, "Error")
	p.Error = msg
	if rerr := c.Render(status, "error", p); rerr != nil {
		_ = c.String(status, msg)
	}
}
