package model

// UserRecord is the user object returned by the API on login, register and
// profile calls.  The client treats it as opaque: it is persisted and passed
// back unmodified, and only the username is read for display.
type UserRecord map[string]any

// Username returns the "username" field, or "" when it is absent or not a
// string.
func (u UserRecord) Username() string {
	if u == nil {
		return ""
	}
	s, _ := u["username"].(string)
	return s
}

// AuthResult is the body of a successful /login/ or /register/ call.
type AuthResult struct {
	Token string     `json:"token"`
	User  UserRecord `json:"user"`
}
