package model

// Order is a supply order placed by the current user.  Items maps a product
// id (as a string key) to the ordered quantity.
type Order struct {
	ID           int64          `json:"id"`
	Buyer        UserRecord     `json:"buyer,omitempty"`
	Restroom     int64          `json:"restroom"`
	RestroomName string         `json:"restroom_name"`
	Items        map[string]int `json:"items"`
	TotalAmount  string         `json:"total_amount"`
	Status       string         `json:"status"`
	CreatedAt    Timestamp      `json:"created_at"`
}

// ItemCount sums the ordered quantities.
func (o Order) ItemCount() int {
	n := 0
	for _, q := range o.Items {
		n += q
	}
	return n
}
