package models

// Session is the provider-issued token triple. ExpiresAt is unix seconds.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// AuthResult is returned by signup, login and refresh. Session is nil only
// when the provider did not issue one.
type AuthResult struct {
	User    RemoteUser
	Session *Session
}

// HasSession reports whether the result carries a usable session.
func (r *AuthResult) HasSession() bool {
	return r != nil && r.Session != nil && r.Session.AccessToken != ""
}
