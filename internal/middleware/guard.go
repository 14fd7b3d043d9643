package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/guard"
)

// Guard redirects before the handler runs when the visitor may not see the
// requested view: logged-out visitors go to /login, logged-in visitors asking
// for /login or /register go to /.  It must run after Session and after
// routing, so that the matched route pattern is known; routes without a
// rule are treated as protected.
func Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			loggedIn := false
			if ctrl := SessionOf(c); ctrl != nil {
				loggedIn = ctrl.LoggedIn()
			}
			if d := guard.EvaluateRoute(c.Path(), loggedIn); !d.Render() {
				return c.Redirect(http.StatusSeeOther, d.Redirect)
			}
			return next(c)
		}
	}
}
