package utils // package utils provides helpers for the signed visitor cookie

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidVisitor is returned when a visitor token fails verification.
var ErrInvalidVisitor = errors.New("invalid visitor token")

// VisitorToken is a signed HS256 JWT identifying one browser.  Its subject
// names the storage namespace that holds the browser's credential record.
type VisitorToken struct {
	Token     string
	VisitorID string
	Exp       time.Time
}

// NewVisitorID returns a fresh random visitor id.
func NewVisitorID() string {
	return uuid.NewString()
}

// NewVisitorToken signs a token for visitorID that expires after ttl.
func NewVisitorToken(secret, visitorID string, ttl time.Duration) (VisitorToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   visitorID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return VisitorToken{}, err
	}
	return VisitorToken{Token: signed, VisitorID: visitorID, Exp: exp}, nil
}

// ParseVisitorToken verifies raw and returns its visitor id.  Only HMAC
// signatures are accepted and the subject must be a UUID.
func ParseVisitorToken(secret, raw string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidVisitor
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrInvalidVisitor
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", ErrInvalidVisitor
	}
	return claims.Subject, nil
}
