package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestCredentials_Normalize(t *testing.T) {
	c := Credentials{Email: "  a@x.com ", Password: " secret1 ", DisplayName: " Ann "}.Normalize()

	assert.Equal(t, "a@x.com", c.Email)
	assert.Equal(t, " secret1 ", c.Password)
	assert.Equal(t, "Ann", c.DisplayName)
}

func TestCredentials_ValidateForSignup(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{name: "ok", creds: Credentials{Email: "a@x.com", Password: "secret1"}},
		{name: "exactly min length", creds: Credentials{Email: "a@x.com", Password: "123456"}},
		{name: "short password", creds: Credentials{Email: "a@x.com", Password: "12345"}, wantErr: true},
		{name: "empty password", creds: Credentials{Email: "a@x.com"}, wantErr: true},
		{name: "empty email", creds: Credentials{Password: "secret1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.ValidateForSignup()
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCredentials_Validate_NoLengthRule(t *testing.T) {
	assert.NoError(t, Credentials{Email: "a@x.com", Password: "1"}.Validate())
}

func TestRemoteUser_Confirmed(t *testing.T) {
	now := time.Now()
	assert.False(t, RemoteUser{}.Confirmed())
	assert.False(t, RemoteUser{ConfirmedAt: &time.Time{}}.Confirmed())
	assert.True(t, RemoteUser{ConfirmedAt: &now}.Confirmed())
}

func TestAuthResult_HasSession(t *testing.T) {
	var nilResult *AuthResult
	assert.False(t, nilResult.HasSession())
	assert.False(t, (&AuthResult{}).HasSession())
	assert.False(t, (&AuthResult{Session: &Session{}}).HasSession())
	assert.True(t, (&AuthResult{Session: &Session{AccessToken: "a"}}).HasSession())
}
