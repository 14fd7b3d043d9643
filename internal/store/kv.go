// Package store persists each visitor's credential record: an opaque API
// token and the user object returned at login.  It plays the role browser
// local storage plays for a single-page client, with one namespace per
// visitor on top of a pluggable key/value backend.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a KV when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// KV is the persistence medium.  Implementations must be safe for
// concurrent use: every inbound request reads through the same KV.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
