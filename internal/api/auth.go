package api

import (
	"context"
	"net/http"

	"github.com/iliyamo/restroom-web/internal/model"
)

// AuthAPI groups the authentication calls.
type AuthAPI struct{ c *Client }

// Auth returns the authentication call group.
func (c *Client) Auth() AuthAPI { return AuthAPI{c} }

// Login exchanges credentials for a token and user record.
func (a AuthAPI) Login(ctx context.Context, username, password string) (model.AuthResult, error) {
	var out model.AuthResult
	err := a.c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/login/",
		body:      map[string]string{"username": username, "password": password},
		out:       &out,
		anonymous: true,
	})
	return out, err
}

// Register creates an account from caller-supplied fields and returns a
// token and user record.
func (a AuthAPI) Register(ctx context.Context, userData any) (model.AuthResult, error) {
	var out model.AuthResult
	err := a.c.do(ctx, call{
		method:    http.MethodPost,
		path:      "/register/",
		body:      userData,
		out:       &out,
		anonymous: true,
	})
	return out, err
}

// Logout invalidates the token server-side.
func (a AuthAPI) Logout(ctx context.Context) error {
	return a.c.do(ctx, call{method: http.MethodPost, path: "/logout/"})
}
