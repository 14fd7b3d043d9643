package model

// Review is a user review of a restroom.  Rating is 1..5.
type Review struct {
	ID           int64      `json:"id"`
	Restroom     int64      `json:"restroom"`
	RestroomName string     `json:"restroom_name"`
	Author       UserRecord `json:"author,omitempty"`
	Rating       int        `json:"rating"`
	CommentText  string     `json:"comment_text"`
	PhotoURLs    []string   `json:"photo_urls"`
	CreatedAt    Timestamp  `json:"created_at"`
}

// Rating bounds enforced by the API; the review form checks them first.
const (
	MinRating = 1
	MaxRating = 5
)
