package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iliyamo/restroom-web/internal/model"
)

// RestroomAPI groups the restroom calls.
type RestroomAPI struct{ c *Client }

// Restrooms returns the restroom call group.
func (c *Client) Restrooms() RestroomAPI { return RestroomAPI{c} }

func (r RestroomAPI) List(ctx context.Context) ([]model.Restroom, error) {
	var out []model.Restroom
	err := r.c.do(ctx, call{method: http.MethodGet, path: "/restrooms/", out: &out})
	return out, err
}

func (r RestroomAPI) Detail(ctx context.Context, id int64) (model.Restroom, error) {
	var out model.Restroom
	err := r.c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/restrooms/%d/", id), out: &out})
	return out, err
}

// Create forwards data verbatim.
func (r RestroomAPI) Create(ctx context.Context, data any) (model.Restroom, error) {
	var out model.Restroom
	err := r.c.do(ctx, call{method: http.MethodPost, path: "/restrooms/", body: data, out: &out})
	return out, err
}

// Update forwards data verbatim.
func (r RestroomAPI) Update(ctx context.Context, id int64, data any) (model.Restroom, error) {
	var out model.Restroom
	err := r.c.do(ctx, call{method: http.MethodPut, path: fmt.Sprintf("/restrooms/%d/", id), body: data, out: &out})
	return out, err
}

func (r RestroomAPI) Delete(ctx context.Context, id int64) error {
	return r.c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/restrooms/%d/", id)})
}
