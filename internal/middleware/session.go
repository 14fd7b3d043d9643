package middleware

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/session"
	"github.com/iliyamo/restroom-web/internal/store"
)

// ListenerFactory builds a session listener bound to one visitor.
type ListenerFactory func(visitorID string) session.Listener

// Session loads the visitor's session from the token store at the start of
// the request and exposes the controller and store to handlers.  It must run
// after Visitor.
func Session(p *store.Provider, factories ...ListenerFactory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := VisitorID(c)
			st := p.For(id)
			ctrl := session.Load(c.Request().Context(), st)
			for _, f := range factories {
				ctrl.Subscribe(f(id))
			}
			c.Set(ctxTokenStore, st)
			c.Set(ctxSession, ctrl)
			return next(c)
		}
	}
}

// LogEvents logs every session transition of the visitor.  The token is
// never part of the line.
func LogEvents(visitorID string) session.Listener {
	return func(_ context.Context, ev session.Event) {
		user := ev.State.Username()
		if ev.Kind == session.EventLogout {
			user = ev.Prev.Username()
		}
		log.Printf("session %s visitor=%s user=%q", ev.Kind, visitorID, user)
	}
}
