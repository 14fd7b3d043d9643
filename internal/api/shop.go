package api

import (
	"context"
	"net/http"

	"github.com/iliyamo/restroom-web/internal/model"
)

// ProductAPI groups the product calls.
type ProductAPI struct{ c *Client }

// Products returns the product call group.
func (c *Client) Products() ProductAPI { return ProductAPI{c} }

func (p ProductAPI) List(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := p.c.do(ctx, call{method: http.MethodGet, path: "/products/", out: &out})
	return out, err
}

// OrderAPI groups the order calls.
type OrderAPI struct{ c *Client }

// Orders returns the order call group.
func (c *Client) Orders() OrderAPI { return OrderAPI{c} }

// Create forwards data verbatim.
func (o OrderAPI) Create(ctx context.Context, data any) (model.Order, error) {
	var out model.Order
	err := o.c.do(ctx, call{method: http.MethodPost, path: "/orders/", body: data, out: &out})
	return out, err
}

// ListMine returns the caller's orders.
func (o OrderAPI) ListMine(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	err := o.c.do(ctx, call{method: http.MethodGet, path: "/orders/my/", out: &out})
	return out, err
}
