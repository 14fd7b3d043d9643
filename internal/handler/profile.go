package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/model"
)

type profileForm struct {
	Email     string `form:"email"`
	AvatarURL string `form:"avatar_url"`
}

type profilePage struct {
	Profile     model.UserRecord
	Orders      []model.Order
	OrdersError string
}

// Profile shows the current user's profile and orders.
func (h *Handler) Profile(c echo.Context) error {
	return h.renderProfile(c, http.StatusOK, "")
}

func (h *Handler) renderProfile(c echo.Context, status int, formErr string) error {
	ctx := c.Request().Context()
	cl := h.client(c)
	p := page(c, "Profile")

	prof, err := cl.Profile().Get(ctx)
	if err != nil {
		c.Logger().Warnf("load profile: %v", err)
		p.Error = errorText(err, "Failed to load profile.")
		return c.Render(upstreamStatus(err), "error", p)
	}
	data := profilePage{Profile: prof}
	if data.Orders, err = cl.Orders().ListMine(ctx); err != nil {
		c.Logger().Warnf("load orders: %v", err)
		data.OrdersError = "Failed to load orders."
	}
	p.Error = formErr
	p.Data = data
	return c.Render(status, "profile", p)
}

// UpdateProfile sends the changed profile fields.  Blank fields are left
// unchanged.
func (h *Handler) UpdateProfile(c echo.Context) error {
	var f profileForm
	if err := c.Bind(&f); err != nil {
		return h.renderProfile(c, http.StatusBadRequest, "Invalid form submission.")
	}
	body := map[string]string{}
	if v := strings.TrimSpace(f.Email); v != "" {
		body["email"] = v
	}
	if v := strings.TrimSpace(f.AvatarURL); v != "" {
		body["avatar_url"] = v
	}
	if len(body) == 0 {
		return h.renderProfile(c, http.StatusBadRequest, "Nothing to update.")
	}
	if _, err := h.client(c).Profile().Update(c.Request().Context(), body); err != nil {
		return h.renderProfile(c, upstreamStatus(err), errorText(err, "Failed to update profile."))
	}
	return seeOther(c, "/profile?notice=profile")
}
