// Package guard decides, from the request path and the logged-in flag alone,
// whether a view may render or the visitor must be redirected.
package guard

import "strings"

// Access classifies a route.
type Access int

const (
	// Open routes render regardless of the session (health, static files).
	Open Access = iota
	// PublicOnly routes are for logged-out visitors (login, register).
	PublicOnly
	// Protected routes require a logged-in visitor.
	Protected
)

// Redirect targets.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Rule binds a path pattern to an access class.  Patterns use echo syntax:
// a ":name" segment matches any single non-empty segment.
type Rule struct {
	Pattern string
	Access  Access
}

// Rules is the route table of the web client.
var Rules = []Rule{
	{"/login", PublicOnly},
	{"/register", PublicOnly},
	{"/", Protected},
	{"/restroom/:id", Protected},
	{"/restroom/:id/reviews", Protected},
	{"/restroom/:id/delete", Protected},
	{"/restrooms", Protected},
	{"/restrooms/new", Protected},
	{"/profile", Protected},
	{"/products", Protected},
	{"/orders", Protected},
	{"/logout", Protected},
}

// Decision is the outcome of Evaluate.  Redirect is empty when the view
// renders.
type Decision struct {
	Access   Access
	Redirect string
}

// Render reports whether the requested view may render.
func (d Decision) Render() bool { return d.Redirect == "" }

// Evaluate applies Rules to path.
func Evaluate(path string, loggedIn bool) Decision {
	return decide(Classify(path), loggedIn)
}

// EvaluateRoute applies Rules to a matched route pattern such as
// "/restroom/:id".  Patterns are compared exactly; a route without a rule
// is Protected.
func EvaluateRoute(pattern string, loggedIn bool) Decision {
	access := Protected
	for _, r := range Rules {
		if r.Pattern == pattern {
			access = r.Access
			break
		}
	}
	return decide(access, loggedIn)
}

func decide(access Access, loggedIn bool) Decision {
	switch {
	case access == PublicOnly && loggedIn:
		return Decision{Access: access, Redirect: HomePath}
	case access == Protected && !loggedIn:
		return Decision{Access: access, Redirect: LoginPath}
	}
	return Decision{Access: access}
}

// Classify returns the access class of path; unknown paths are Open.
func Classify(path string) Access {
	for _, r := range Rules {
		if match(r.Pattern, path) {
			return r.Access
		}
	}
	return Open
}

func match(pattern, path string) bool {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if pattern == path {
		return true
	}
	ps, xs := strings.Split(pattern, "/"), strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
