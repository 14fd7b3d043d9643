package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/iliyamo/restroom-web/internal/model"
)

// Storage keys inside a visitor namespace.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrCorruptUser is returned by CurrentUser when the persisted user record is
// not valid JSON.
var ErrCorruptUser = errors.New("store: persisted user record is corrupt")

// TokenStore reads and writes one visitor's credential record.  It is the
// only component that touches the token and user keys.
type TokenStore struct {
	kv     KV
	ns     string
	sealer *Sealer
}

// Provider hands out TokenStores that share one backend.
type Provider struct {
	kv     KV
	prefix string
	sealer *Sealer
}

// NewProvider returns a Provider over kv.  Keys are laid out as
// "<prefix>:<visitor>:token" and "<prefix>:<visitor>:user".  sealer may be nil.
func NewProvider(kv KV, prefix string, sealer *Sealer) *Provider {
	return &Provider{kv: kv, prefix: prefix, sealer: sealer}
}

// For returns the TokenStore of one visitor.
func (p *Provider) For(visitorID string) *TokenStore {
	ns := visitorID + ":"
	if p.prefix != "" {
		ns = p.prefix + ":" + ns
	}
	return &TokenStore{kv: p.kv, ns: ns, sealer: p.sealer}
}

func (s *TokenStore) key(name string) string { return s.ns + name }

// Token returns the stored token.  The second result is false when no
// non-empty token is stored, the backend fails, or a sealed token cannot be
// opened.
func (s *TokenStore) Token(ctx context.Context) (string, bool) {
	v, err := s.kv.Get(ctx, s.key(KeyToken))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("store: read token: %v", err)
		}
		return "", false
	}
	if s.sealer != nil {
		if v, err = s.sealer.Open(s.key(KeyToken), v); err != nil {
			log.Printf("store: open token: %v", err)
			return "", false
		}
	}
	return v, v != ""
}

// IsLoggedIn reports whether a non-empty token is stored.
func (s *TokenStore) IsLoggedIn(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

// CurrentUser returns the persisted user record, or nil when none is stored.
// Malformed JSON yields ErrCorruptUser.
func (s *TokenStore) CurrentUser(ctx context.Context) (model.UserRecord, error) {
	v, err := s.kv.Get(ctx, s.key(KeyUser))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user: %w", err)
	}
	var u model.UserRecord
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptUser, err)
	}
	return u, nil
}

// SaveLoginData writes the token and then the user record.  The user is
// encoded before anything is written so an unencodable record leaves the
// store untouched.
func (s *TokenStore) SaveLoginData(ctx context.Context, token string, user model.UserRecord) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	stored := token
	if s.sealer != nil {
		if stored, err = s.sealer.Seal(s.key(KeyToken), token); err != nil {
			return fmt.Errorf("seal token: %w", err)
		}
	}
	if err := s.kv.Set(ctx, s.key(KeyToken), stored); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(KeyUser), string(userJSON)); err != nil {
		return fmt.Errorf("write user: %w", err)
	}
	return nil
}

// ClearLoginData removes both keys.  Clearing an empty store is a no-op.
func (s *TokenStore) ClearLoginData(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key(KeyToken), s.key(KeyUser)); err != nil {
		return fmt.Errorf("clear login data: %w", err)
	}
	return nil
}
