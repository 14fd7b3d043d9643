package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/model"
)

type productsPage struct {
	Products  []model.Product
	Restrooms []model.Restroom
}

// Products lists the orderable products with the order form.
func (h *Handler) Products(c echo.Context) error {
	return h.renderProducts(c, http.StatusOK, "")
}

func (h *Handler) renderProducts(c echo.Context, status int, formErr string) error {
	ctx := c.Request().Context()
	cl := h.client(c)
	p := page(c, "Products")

	products, err := cl.Products().List(ctx)
	if err != nil {
		c.Logger().Warnf("list products: %v", err)
		p.Error = errorText(err, "Failed to load products.")
		p.Data = productsPage{}
		return c.Render(upstreamStatus(err), "products", p)
	}
	restrooms, err := cl.Restrooms().List(ctx)
	if err != nil {
		c.Logger().Warnf("list restrooms for order form: %v", err)
		p.Error = "Failed to load restroom list"
	}
	if formErr != "" {
		p.Error = formErr
	}
	p.Data = productsPage{Products: products, Restrooms: restrooms}
	return c.Render(status, "products", p)
}

// CreateOrder places an order from the products form.  Quantities arrive
// as qty_<product id> fields; the total is computed from the listed prices.
func (h *Handler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	cl := h.client(c)

	form, err := c.FormParams()
	if err != nil {
		return h.renderProducts(c, http.StatusBadRequest, "Invalid form submission.")
	}
	restroom, err := strconv.ParseInt(strings.TrimSpace(form.Get("restroom")), 10, 64)
	if err != nil || restroom <= 0 {
		return h.renderProducts(c, http.StatusBadRequest, "Choose a restroom for the order.")
	}
	items, err := orderItems(form)
	if err != nil {
		return h.renderProducts(c, http.StatusBadRequest, err.Error())
	}

	products, err := cl.Products().List(ctx)
	if err != nil {
		return h.renderProducts(c, upstreamStatus(err), errorText(err, "Failed to load products."))
	}
	total, err := orderTotal(products, items)
	if err != nil {
		return h.renderProducts(c, http.StatusBadRequest, err.Error())
	}

	body := map[string]any{
		"restroom":     restroom,
		"items":        items,
		"total_amount": total,
	}
	if notes := strings.TrimSpace(form.Get("delivery_notes")); notes != "" {
		body["delivery_notes"] = notes
	}
	if _, err := cl.Orders().Create(ctx, body); err != nil {
		return h.renderProducts(c, upstreamStatus(err), errorText(err, "Failed to place order."))
	}
	return seeOther(c, "/profile?notice=order")
}

var (
	errNoItems       = errors.New("Order must contain at least one item.")
	errTotalTooLarge = errors.New("Order total is too large.")
)

// orderItems collects the positive qty_<id> fields keyed by product id.
func orderItems(form map[string][]string) (map[string]int, error) {
	items := map[string]int{}
	for k, vs := range form {
		id, ok := strings.CutPrefix(k, "qty_")
		if !ok || len(vs) == 0 {
			continue
		}
		if _, err := strconv.ParseInt(id, 10, 64); err != nil {
			continue
		}
		v := strings.TrimSpace(vs[0])
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("Invalid quantity for product %s.", id)
		}
		if n > 0 {
			items[id] = n
		}
	}
	if len(items) == 0 {
		return nil, errNoItems
	}
	return items, nil
}

// orderTotal prices items against the product list and returns the total
// as a two-decimal string.
func orderTotal(products []model.Product, items map[string]int) (string, error) {
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[strconv.FormatInt(p.ID, 10)] = p
	}
	var cents int64
	for id, qty := range items {
		p, ok := byID[id]
		if !ok {
			return "", fmt.Errorf("Product %s does not exist.", id)
		}
		if qty > p.StockQty {
			return "", fmt.Errorf("Not enough %s in stock.", p.Name)
		}
		unit, err := parseCents(p.UnitPrice)
		if err != nil {
			return "", fmt.Errorf("Product %s has an invalid price.", p.Name)
		}
		if unit > 0 && int64(qty) > (math.MaxInt64-cents)/unit {
			return "", errTotalTooLarge
		}
		cents += unit * int64(qty)
	}
	return fmt.Sprintf("%d.%02d", cents/100, cents%100), nil
}

// parseCents converts a non-negative decimal price such as "3.5" or "12.05"
// to cents.  Digits past the second decimal are dropped and the whole part
// is bounded to 40 bits.
func parseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	w, err := strconv.ParseUint(whole, 10, 40)
	if err != nil {
		return 0, err
	}
	frac = (frac + "00")[:2]
	f, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, err
	}
	return int64(w)*100 + int64(f), nil
}
