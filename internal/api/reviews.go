package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iliyamo/restroom-web/internal/model"
)

// ReviewAPI groups the review calls.
type ReviewAPI struct{ c *Client }

// Reviews returns the review call group.
func (c *Client) Reviews() ReviewAPI { return ReviewAPI{c} }

// List returns all reviews, or only those of restroomID when it is
// positive.
func (r ReviewAPI) List(ctx context.Context, restroomID int64) ([]model.Review, error) {
	path := "/reviews/"
	if restroomID > 0 {
		path += "?" + url.Values{"restroom_id": {strconv.FormatInt(restroomID, 10)}}.Encode()
	}
	var out []model.Review
	err := r.c.do(ctx, call{method: http.MethodGet, path: path, out: &out})
	return out, err
}

// Create forwards data verbatim.
func (r ReviewAPI) Create(ctx context.Context, data any) (model.Review, error) {
	var out model.Review
	err := r.c.do(ctx, call{method: http.MethodPost, path: "/reviews/", body: data, out: &out})
	return out, err
}
