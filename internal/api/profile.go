package api

import (
	"context"
	"net/http"

	"github.com/iliyamo/restroom-web/internal/model"
)

// ProfileAPI groups the caller's profile calls.
type ProfileAPI struct{ c *Client }

// Profile returns the profile call group.
func (c *Client) Profile() ProfileAPI { return ProfileAPI{c} }

func (p ProfileAPI) Get(ctx context.Context) (model.UserRecord, error) {
	var out model.UserRecord
	err := p.c.do(ctx, call{method: http.MethodGet, path: "/profile/", out: &out})
	return out, err
}

// Update forwards data verbatim and returns the updated profile.
func (p ProfileAPI) Update(ctx context.Context, data any) (model.UserRecord, error) {
	var out model.UserRecord
	err := p.c.do(ctx, call{method: http.MethodPut, path: "/profile/update/", body: data, out: &out})
	return out, err
}
