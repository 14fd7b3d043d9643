package model

// Product is a supply item that can be ordered for a restroom.  UnitPrice is
// a decimal string as serialized by the API (e.g. "3.50").
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price"`
	StockQty    int    `json:"stock_qty"`
	ImageURL    string `json:"image_url"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool { return p.StockQty > 0 }
