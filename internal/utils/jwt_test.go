package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVisitorTokenRoundTrip(t *testing.T) {
	id := NewVisitorID()
	vt, err := NewVisitorToken("secret", id, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	got, err := ParseVisitorToken("secret", vt.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestVisitorTokenRejects(t *testing.T) {
	id := NewVisitorID()
	good, _ := NewVisitorToken("secret", id, time.Hour)
	expired, _ := NewVisitorToken("secret", id, -time.Minute)
	badSubject, _ := NewVisitorToken("secret", "not-a-uuid", time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: id}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]struct{ secret, raw string }{
		"wrong secret": {"other", good.Token},
		"expired":      {"secret", expired.Token},
		"bad subject":  {"secret", badSubject.Token},
		"alg none":     {"secret", none},
		"garbage":      {"secret", "not.a.jwt"},
		"empty":        {"secret", ""},
	}
	for name, tc := range cases {
		if _, err := ParseVisitorToken(tc.secret, tc.raw); err == nil {
			t.Fatalf("%s: expected rejection", name)
		}
	}
}
