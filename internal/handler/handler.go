// Package handler implements the pages of the web client.  Handlers talk to
// the restroom API through api.Client, read the visitor's session from the
// middleware and render view templates; API errors become page messages and
// are never passed to the browser raw.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/api"
	"github.com/iliyamo/restroom-web/internal/middleware"
	"github.com/iliyamo/restroom-web/internal/view"
)

// Handler bundles the dependencies of every page.
type Handler struct {
	API *api.Client
}

// New returns a Handler that calls the API through client.
func New(client *api.Client) *Handler {
	if client == nil {
		panic("nil api client passed to handler.New")
	}
	return &Handler{API: client}
}

// client returns the API client whose interceptor reads the visitor's token.
func (h *Handler) client(c echo.Context) *api.Client {
	if st := middleware.TokenStoreOf(c); st != nil {
		return h.API.WithTokens(st)
	}
	return h.API
}

// page starts a view.Page carrying the current session and any notice from
// the redirect that led here.
func page(c echo.Context, title string) view.Page {
	p := view.Page{Title: title, Notice: notices[c.QueryParam("notice")]}
	if ctrl := middleware.SessionOf(c); ctrl != nil {
		p.Session = ctrl.State()
	}
	return p
}

var notices = map[string]string{
	"created": "Restroom created.",
	"updated": "Restroom updated.",
	"deleted": "Restroom deleted.",
	"review":  "Review submitted.",
	"profile": "Profile updated.",
	"order":   "Order placed.",
}

// errorText prefers the server's message and falls back to a fixed one.
func errorText(err error, fallback string) string {
	if msg := api.MessageOf(err); msg != "" {
		return msg
	}
	return fallback
}

// upstreamStatus maps an API failure to the status of the rendered page:
// client errors are passed through, everything else is a bad gateway.
func upstreamStatus(err error) int {
	if s := api.StatusOf(err); s >= 400 && s < 500 {
		return s
	}
	return http.StatusBadGateway
}

func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func seeOther(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

// Health is a liveness probe for load balancers.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
