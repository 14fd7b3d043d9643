// Package session holds the logged-in state of one visitor for the lifetime
// of a request.  The state is derived from the token store when the request
// starts and changes only through Login and Logout, which write through to
// the store before updating memory and notifying subscribers.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/iliyamo/restroom-web/internal/model"
	"github.com/iliyamo/restroom-web/internal/store"
)

// ErrEmptyToken is returned by Login when the API handed back no token.
var ErrEmptyToken = errors.New("session: empty token")

// Store is the subset of the token store the controller needs.
type Store interface {
	IsLoggedIn(ctx context.Context) bool
	CurrentUser(ctx context.Context) (model.UserRecord, error)
	SaveLoginData(ctx context.Context, token string, user model.UserRecord) error
	ClearLoginData(ctx context.Context) error
}

// State is the in-memory session.  User is only meaningful when LoggedIn.
type State struct {
	LoggedIn bool
	User     model.UserRecord
}

// Username is the display name of the current user, "" when logged out.
func (s State) Username() string {
	if !s.LoggedIn {
		return ""
	}
	return s.User.Username()
}

// EventKind names a transition.
type EventKind string

const (
	EventLogin  EventKind = "login"
	EventLogout EventKind = "logout"
)

// Event is delivered to subscribers after a transition.  Prev is the state
// before the transition.
type Event struct {
	Kind  EventKind
	Prev  State
	State State
}

// Listener is notified after every transition.
type Listener func(ctx context.Context, ev Event)

// Controller owns the session of one visitor.  It is not safe for concurrent
// use; each request builds its own.
type Controller struct {
	store     Store
	state     State
	listeners []Listener
}

// Load computes the initial state from the store: LoggedIn with the stored
// user when a token exists, LoggedOut otherwise.  A corrupt user record is
// treated as logged out and the store is cleared.
func Load(ctx context.Context, st Store) *Controller {
	c := &Controller{store: st}
	if !st.IsLoggedIn(ctx) {
		return c
	}
	user, err := st.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, store.ErrCorruptUser) {
			log.Printf("session: %v; clearing login data", err)
			if cerr := st.ClearLoginData(ctx); cerr != nil {
				log.Printf("session: clear after corrupt user: %v", cerr)
			}
			return c
		}
		// The token is still there; a transient read failure of the user
		// record keeps the visitor logged in without a display name.
		log.Printf("session: load user: %v", err)
	}
	c.state = State{LoggedIn: true, User: user}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State { return c.state }

// LoggedIn reports the current flag.
func (c *Controller) LoggedIn() bool { return c.state.LoggedIn }

// Subscribe registers fn for subsequent transitions.
func (c *Controller) Subscribe(fn Listener) {
	c.listeners = append(c.listeners, fn)
}

// Login records a successful login or register response.  The store is
// written first; memory state only changes when the write succeeded.
func (c *Controller) Login(ctx context.Context, token string, user model.UserRecord) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := c.store.SaveLoginData(ctx, token, user); err != nil {
		return fmt.Errorf("save login data: %w", err)
	}
	c.transition(ctx, EventLogin, State{LoggedIn: true, User: user})
	return nil
}

// Logout clears the store and then the memory state.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.store.ClearLoginData(ctx); err != nil {
		return fmt.Errorf("clear login data: %w", err)
	}
	c.transition(ctx, EventLogout, State{})
	return nil
}

func (c *Controller) transition(ctx context.Context, kind EventKind, next State) {
	prev := c.state
	c.state = next
	for _, fn := range c.listeners {
		fn(ctx, Event{Kind: kind, Prev: prev, State: next})
	}
}
