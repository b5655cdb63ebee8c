package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/logging"
	"github.com/dmitrijs2005/hrmsauth/internal/server/idp"
	"github.com/dmitrijs2005/hrmsauth/internal/server/idp/idptest"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...any) {}
func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

var errUnexpectedCall = errors.New("unexpected call")

type tokenResult struct {
	tok *idp.TokenResponse
	err error
}

type signupResult struct {
	resp *idp.SignupResponse
	err  error
}

// fakeProvider replays scripted replies in call order.
type fakeProvider struct {
	mu sync.Mutex

	signIn  []tokenResult
	signUp  []signupResult
	refresh tokenResult
	user    *idp.UserRecord
	userErr error

	signInCalls  int
	signUpCalls  int
	refreshCalls int
	getUserCalls int
}

func (f *fakeProvider) PasswordSignIn(context.Context, string, string) (*idp.TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.signInCalls
	f.signInCalls++
	if i >= len(f.signIn) {
		return nil, errUnexpectedCall
	}
	return f.signIn[i].tok, f.signIn[i].err
}

func (f *fakeProvider) PasswordSignUp(context.Context, string, string, string) (*idp.SignupResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.signUpCalls
	f.signUpCalls++
	if i >= len(f.signUp) {
		return nil, errUnexpectedCall
	}
	return f.signUp[i].resp, f.signUp[i].err
}

func (f *fakeProvider) RefreshSession(context.Context, string) (*idp.TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	return f.refresh.tok, f.refresh.err
}

func (f *fakeProvider) GetUser(context.Context, string) (*idp.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getUserCalls++
	return f.user, f.userErr
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signInCalls + f.signUpCalls + f.refreshCalls + f.getUserCalls
}

type fakeConfirmer struct {
	ok    bool
	calls int
}

func (f *fakeConfirmer) Confirm(context.Context, string) bool {
	f.calls++
	return f.ok
}

type fakeAdmin struct {
	users      []idp.UserRecord
	listErr    error
	confirmErr error
	panicOn    string

	listCalls int
	confirmed []string
}

func (f *fakeAdmin) ListUsers(context.Context) ([]idp.UserRecord, error) {
	f.listCalls++
	if f.panicOn == "list" {
		panic("list exploded")
	}
	return f.users, f.listErr
}

func (f *fakeAdmin) ConfirmUserEmail(_ context.Context, id string) error {
	if f.panicOn == "confirm" {
		panic("confirm exploded")
	}
	if f.confirmErr != nil {
		return f.confirmErr
	}
	f.confirmed = append(f.confirmed, id)
	return nil
}

func providerErr(status int, msg string) error {
	return &idp.ProviderError{Op: "test", StatusCode: status, Message: msg}
}

var (
	errNotConfirmed       = providerErr(http.StatusBadRequest, "Email not confirmed")
	errInvalidCredentials = providerErr(http.StatusBadRequest, "Invalid login credentials")
)

func userRecord(id, email string) idp.UserRecord {
	return idp.UserRecord{
		ID:           id,
		Email:        email,
		CreatedAt:    time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		UserMetadata: map[string]any{"full_name": "Ann"},
	}
}

func tokenFor(id, email, access string) *idp.TokenResponse {
	return &idp.TokenResponse{
		AccessToken:  access,
		RefreshToken: "refresh-" + access,
		ExpiresAt:    1700000000,
		User:         userRecord(id, email),
	}
}

func bareSignup(id, email string) *idp.SignupResponse {
	return &idp.SignupResponse{UserRecord: userRecord(id, email)}
}

func newProviderClient(t *testing.T, srv *idptest.Server) *idp.Client {
	t.Helper()
	c, err := idp.NewClient(idp.Config{
		BaseURL:    srv.URL,
		APIKey:     srv.APIKey,
		ServiceKey: srv.ServiceKey,
		Timeout:    2 * time.Second,
	})
	require.NoError(t, err)
	return c
}
