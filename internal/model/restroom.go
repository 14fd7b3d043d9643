package model

// Restroom is a restroom as listed by /restrooms/.  Stalls and RecentReviews
// are only filled by the detail endpoint.
type Restroom struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Address       string     `json:"address"`
	CreatedBy     UserRecord `json:"created_by,omitempty"`
	AvgRating     *float64   `json:"avg_rating"`
	StallCount    int        `json:"stall_count"`
	CreatedAt     Timestamp  `json:"created_at"`
	Stalls        []Stall    `json:"stalls,omitempty"`
	RecentReviews []Review   `json:"recent_reviews,omitempty"`
}

// Stall is one stall inside a restroom.
type Stall struct {
	ID         int64     `json:"id"`
	Restroom   int64     `json:"restroom"`
	StallNo    int       `json:"stall_no"`
	IsOccupied bool      `json:"is_occupied"`
	UpdatedAt  Timestamp `json:"updated_at"`
}

// Rated reports whether the restroom has at least one rating.  The list
// endpoint annotates avg_rating and returns null (or 0) for unrated rows.
func (r Restroom) Rated() bool {
	return r.AvgRating != nil && *r.AvgRating > 0
}

// AvailableStalls counts the stalls not currently occupied.
func (r Restroom) AvailableStalls() int {
	n := 0
	for _, s := range r.Stalls {
		if !s.IsOccupied {
			n++
		}
	}
	return n
}
