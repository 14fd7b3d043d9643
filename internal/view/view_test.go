package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iliyamo/restroom-web/internal/model"
	"github.com/iliyamo/restroom-web/internal/session"
)

func render(t *testing.T, name string, p Page) string {
	t.Helper()
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, name, p, nil); err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return buf.String()
}

func TestAllPagesParse(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	for _, name := range []string{"login", "register", "home", "restroom", "restroom_new", "profile", "products", "error"} {
		if !r.Has(name) {
			t.Errorf("missing page %s", name)
		}
	}
	if r.Has("layout") {
		t.Errorf("layout must not be a page")
	}
}

func TestNavbarShowsUsername(t *testing.T) {
	st := session.State{LoggedIn: true, User: model.UserRecord{"username": "alice"}}
	out := render(t, "home", Page{Session: st})
	if !strings.Contains(out, "alice") || !strings.Contains(out, `action="/logout"`) {
		t.Fatalf("navbar missing username or logout button:\n%s", out)
	}

	out = render(t, "login", Page{})
	if strings.Contains(out, `action="/logout"`) {
		t.Fatalf("logged-out navbar must not offer logout")
	}
}

func TestHomeEmptyAndCards(t *testing.T) {
	st := session.State{LoggedIn: true}
	out := render(t, "home", Page{Session: st, Data: []model.Restroom{}})
	if !strings.Contains(out, "No restroom data available") || !strings.Contains(out, "Be the first to add a restroom!") {
		t.Fatalf("expected empty state:\n%s", out)
	}

	out = render(t, "home", Page{Session: st, Error: "Failed to load restroom list", Data: []model.Restroom{}})
	if strings.Contains(out, "No restroom data available") {
		t.Fatalf("failure must not show the empty state")
	}

	avg := 4.26
	list := []model.Restroom{
		{ID: 1, Name: "Central", Address: "Main St", AvgRating: &avg, StallCount: 3},
		{ID: 2, Name: "Park", Address: "Elm St"},
	}
	out = render(t, "home", Page{Session: st, Data: list})
	for _, want := range []string{"Central", "4.3", "3 stalls", "No rating", "0 stalls", `href="/restroom/2"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestStars(t *testing.T) {
	stars := funcs["stars"].(func(int) string)
	if got := stars(3); got != "★★★☆☆" {
		t.Fatalf("stars(3)=%q", got)
	}
	if got := stars(9); got != "★★★★★" {
		t.Fatalf("stars(9)=%q", got)
	}
}
