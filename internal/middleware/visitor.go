package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/utils"
)

// VisitorCookie is the name of the cookie carrying the signed visitor token.
const VisitorCookie = "rr_visitor"

// VisitorConfig configures the Visitor middleware.
type VisitorConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// Visitor identifies the browser behind a request.  A valid rr_visitor
// cookie yields its visitor id; a missing, expired or forged cookie is
// replaced by a freshly signed one for a new id, which starts with an empty
// (logged out) storage namespace.
func Visitor(cfg VisitorConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(VisitorCookie); err == nil {
				if id, err := utils.ParseVisitorToken(cfg.Secret, ck.Value); err == nil {
					c.Set(ctxVisitorID, id)
					return next(c)
				}
			}

			vt, err := utils.NewVisitorToken(cfg.Secret, utils.NewVisitorID(), cfg.TTL)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "issue visitor cookie failed").SetInternal(err)
			}
			c.SetCookie(&http.Cookie{
				Name:     VisitorCookie,
				Value:    vt.Token,
				Path:     "/",
				Expires:  vt.Exp,
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(ctxVisitorID, vt.VisitorID)
			return next(c)
		}
	}
}
