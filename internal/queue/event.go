// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into an audit log.
package queue

// SessionEvent is published after a visitor logs in or out.  It never
// carries the API token.
type SessionEvent struct {
	VisitorID  string `json:"visitor_id"`
	Kind       string `json:"kind"` // login | logout
	Username   string `json:"username,omitempty"`
	UserID     any    `json:"user_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
