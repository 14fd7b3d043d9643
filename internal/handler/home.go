package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/model"
)

// Home lists all restrooms.  A failed fetch shows an error with an empty
// list instead of failing the page.
func (h *Handler) Home(c echo.Context) error {
	p := page(c, "Restrooms")
	list, err := h.client(c).Restrooms().List(c.Request().Context())
	if err != nil {
		c.Logger().Warnf("list restrooms: %v", err)
		p.Error = "Failed to load restroom list"
		list = []model.Restroom{}
	}
	p.Data = list
	return c.Render(http.StatusOK, "home", p)
}
