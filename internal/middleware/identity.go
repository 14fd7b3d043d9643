package middleware

// identity.go holds the context keys shared by the visitor, session and
// guard middleware and the accessors handlers use to read them.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/session"
	"github.com/iliyamo/restroom-web/internal/store"
)

const (
	ctxVisitorID  = "visitor_id"
	ctxSession    = "session"
	ctxTokenStore = "token_store"
)

// VisitorID returns the id set by the Visitor middleware, or "anon".
func VisitorID(c echo.Context) string {
	if v, ok := c.Get(ctxVisitorID).(string); ok && v != "" {
		return v
	}
	return "anon"
}

// SessionOf returns the controller loaded by the Session middleware.  It is
// nil on routes mounted outside the session group.
func SessionOf(c echo.Context) *session.Controller {
	ctrl, _ := c.Get(ctxSession).(*session.Controller)
	return ctrl
}

// TokenStoreOf returns the visitor's token store, nil outside the session
// group.
func TokenStoreOf(c echo.Context) *store.TokenStore {
	st, _ := c.Get(ctxTokenStore).(*store.TokenStore)
	return st
}
