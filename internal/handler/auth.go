package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/api"
	"github.com/iliyamo/restroom-web/internal/guard"
	"github.com/iliyamo/restroom-web/internal/middleware"
)

// MinPasswordLen is the shortest password the register form accepts.
const MinPasswordLen = 6

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type registerForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

// LoginForm renders the login page.
func (h *Handler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login", page(c, "Login"))
}

// Login submits credentials to the API.  On success the token and user are
// saved for the visitor and the browser is sent to the list view.
func (h *Handler) Login(c echo.Context) error {
	var f loginForm
	p := page(c, "Login")
	if err := c.Bind(&f); err != nil {
		p.Error = "Invalid form submission."
		return c.Render(http.StatusBadRequest, "login", p)
	}
	password := f.Password
	f.Username = strings.TrimSpace(f.Username)
	f.Password = ""
	p.Data = f
	if f.Username == "" || password == "" {
		p.Error = "Username and password are required."
		return c.Render(http.StatusBadRequest, "login", p)
	}

	ctx := c.Request().Context()
	res, err := h.API.Auth().Login(ctx, f.Username, password)
	if err != nil {
		c.Logger().Infof("login failed for %q: %v", f.Username, err)
		fallback := "Login failed. Please try again."
		if api.IsBadRequest(err) || api.IsUnauthorized(err) {
			fallback = "Invalid username or password."
		}
		p.Error = errorText(err, fallback)
		return c.Render(upstreamStatus(err), "login", p)
	}
	if err := middleware.SessionOf(c).Login(ctx, res.Token, res.User); err != nil {
		c.Logger().Errorf("login: %v", err)
		p.Error = "Login failed. Please try again."
		return c.Render(http.StatusBadGateway, "login", p)
	}
	return seeOther(c, guard.HomePath)
}

// RegisterForm renders the registration page.
func (h *Handler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register", page(c, "Register"))
}

// Register creates an account and logs the visitor in with the returned
// token, exactly like Login.
func (h *Handler) Register(c echo.Context) error {
	var f registerForm
	p := page(c, "Register")
	if err := c.Bind(&f); err != nil {
		p.Error = "Invalid form submission."
		return c.Render(http.StatusBadRequest, "register", p)
	}
	password := f.Password
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	f.Password = ""
	p.Data = f
	switch {
	case f.Username == "":
		p.Error = "Username is required."
	case len(password) < MinPasswordLen:
		p.Error = fmt.Sprintf("Password must be at least %d characters.", MinPasswordLen)
	}
	if p.Error != "" {
		return c.Render(http.StatusBadRequest, "register", p)
	}

	body := map[string]string{"username": f.Username, "password": password}
	if f.Email != "" {
		body["email"] = f.Email
	}
	ctx := c.Request().Context()
	res, err := h.API.Auth().Register(ctx, body)
	if err != nil {
		p.Error = errorText(err, "Registration failed. Please try again.")
		return c.Render(upstreamStatus(err), "register", p)
	}
	if err := middleware.SessionOf(c).Login(ctx, res.Token, res.User); err != nil {
		c.Logger().Errorf("register: %v", err)
		p.Error = "Registration succeeded but login failed. Please log in."
		return c.Render(http.StatusBadGateway, "register", p)
	}
	return seeOther(c, guard.HomePath)
}

// Logout tells the API to drop the token, then clears the visitor's login
// data and returns to the login page.  The API call is best effort: local
// logout happens even when it fails.
func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.client(c).Auth().Logout(ctx); err != nil {
		c.Logger().Warnf("logout: api: %v", err)
	}
	if err := middleware.SessionOf(c).Logout(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Logout failed. Please try again.").SetInternal(err)
	}
	return seeOther(c, guard.LoginPath)
}

// TooManyAttempts re-renders the submitted auth form with a 429 when the
// rate limiter blocks a login or register.
func TooManyAttempts(c echo.Context, retryAfter time.Duration) error {
	name, title := "login", "Login"
	if c.Path() == "/register" {
		name, title = "register", "Register"
	}
	p := page(c, title)
	secs := int((retryAfter + time.Second - 1) / time.Second)
	p.Error = fmt.Sprintf("Too many attempts. Try again in %d seconds.", secs)
	return c.Render(http.StatusTooManyRequests, name, p)
}
