package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"github.com/dmitrijs2005/hrmsauth/internal/server/auth"
	"github.com/dmitrijs2005/hrmsauth/internal/server/idp/idptest"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f fakeVerifier) Verify(string) (*auth.Claims, error) { return f.claims, f.err }

func TestMe_LocalVerification(t *testing.T) {
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"},
		Email:            "a@x.com",
		UserMetadata:     map[string]any{"full_name": "Ann"},
	}
	p := &fakeProvider{}

	u, err := NewCurrentUser(p, fakeVerifier{claims: claims}, nopLogger{}).Me(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Ann", u.DisplayName)
	assert.Zero(t, p.getUserCalls)

	_, err = NewCurrentUser(p, fakeVerifier{err: auth.ErrInvalidToken}, nopLogger{}).Me(context.Background(), "tok")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Zero(t, p.getUserCalls)
}

func TestMe_ProviderLookup(t *testing.T) {
	rec := userRecord("u1", "a@x.com")
	p := &fakeProvider{user: &rec}

	u, err := NewCurrentUser(p, nil, nopLogger{}).Me(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, 1, p.getUserCalls)

	for _, e := range []error{providerErr(http.StatusUnauthorized, "invalid JWT"), common.ErrProviderUnreachable, errors.New("x")} {
		p := &fakeProvider{userErr: e}
		_, err := NewCurrentUser(p, nil, nopLogger{}).Me(context.Background(), "tok")
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	}
}

func TestMe_EmptyToken(t *testing.T) {
	p := &fakeProvider{}
	_, err := NewCurrentUser(p, nil, nopLogger{}).Me(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Zero(t, p.calls())
}

func TestMe_AgainstProvider(t *testing.T) {
	srv := idptest.NewServer()
	defer srv.Close()
	srv.AddUser("a@x.com", "secret1", "Ann", true)
	access, _ := srv.IssueSession("a@x.com")

	c := NewCurrentUser(newProviderClient(t, srv), nil, nopLogger{})

	u, err := c.Me(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", u.Email)
	assert.True(t, u.Confirmed())

	_, err = c.Me(context.Background(), "forged")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestMe_VerifiedTokenLeavesCreationTimeUnset(t *testing.T) {
	srv := idptest.NewServer()
	defer srv.Close()
	rec := srv.AddUser("a@x.com", "secret1", "Ann", true)

	secret := "jwt-secret"
	issued := time.Now().AddDate(1, 0, 0)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   rec.ID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
		},
		Email:        "a@x.com",
		UserMetadata: map[string]any{"full_name": "Ann"},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	client := newProviderClient(t, srv)

	local, err := NewCurrentUser(client, auth.NewVerifier(secret), nopLogger{}).Me(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, local.ID)
	assert.True(t, local.CreatedAt.IsZero(), "created_at must not come from iat: %v", local.CreatedAt)
	assert.Zero(t, srv.Calls("get_user"))

	access, _ := srv.IssueSession("a@x.com")
	remote, err := NewCurrentUser(client, nil, nopLogger{}).Me(context.Background(), access)
	require.NoError(t, err)
	assert.True(t, remote.CreatedAt.Equal(rec.CreatedAt), "got %v, want %v", remote.CreatedAt, rec.CreatedAt)
}
