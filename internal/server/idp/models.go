package idp

import (
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/server/models"
)

// UserRecord is the provider's user object as returned by the token, signup,
// user and admin endpoints.
type UserRecord struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
}

// FullName returns user_metadata.full_name, or "".
func (u UserRecord) FullName() string {
	name, _ := u.UserMetadata["full_name"].(string)
	return name
}

// RemoteUser projects the record onto the service model.
func (u UserRecord) RemoteUser() models.RemoteUser {
	return models.RemoteUser{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.FullName(),
		ConfirmedAt: u.EmailConfirmedAt,
		CreatedAt:   u.CreatedAt,
	}
}

// TokenResponse is the body of a successful token grant (password or
// refresh_token).
type TokenResponse struct {
	AccessToken  string     `json:"access_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int64      `json:"expires_in"`
	ExpiresAt    int64      `json:"expires_at"`
	RefreshToken string     `json:"refresh_token"`
	User         UserRecord `json:"user"`
}

// Session returns the token triple, or nil when no access token was issued.
// expires_at is derived from expires_in when the provider omits it.
func (t *TokenResponse) Session(now time.Time) *models.Session {
	if t == nil || t.AccessToken == "" {
		return nil
	}
	expiresAt := t.ExpiresAt
	if expiresAt == 0 && t.ExpiresIn > 0 {
		expiresAt = now.Unix() + t.ExpiresIn
	}
	return &models.Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    expiresAt,
	}
}

// SignupResponse covers both signup reply shapes: a session carrying a
// nested user when the confirmation policy allows immediate sign-in, and a
// bare user object otherwise.
type SignupResponse struct {
	TokenResponse
	UserRecord
	User *UserRecord `json:"user"`
}

// Account returns the created user, whichever shape the provider replied with.
func (s *SignupResponse) Account() UserRecord {
	if s.User != nil && s.User.ID != "" {
		return *s.User
	}
	return s.UserRecord
}

type listUsersResponse struct {
	Users []UserRecord `json:"users"`
}

type errorResponse struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
}
