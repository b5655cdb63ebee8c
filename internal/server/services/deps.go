package services

import (
	"context"

	"github.com/dmitrijs2005/hrmsauth/internal/server/auth"
	"github.com/dmitrijs2005/hrmsauth/internal/server/idp"
)

// IdentityProvider is the subset of the idp client used on the public key.
type IdentityProvider interface {
	PasswordSignIn(ctx context.Context, email, password string) (*idp.TokenResponse, error)
	PasswordSignUp(ctx context.Context, email, password, displayName string) (*idp.SignupResponse, error)
	RefreshSession(ctx context.Context, refreshToken string) (*idp.TokenResponse, error)
	GetUser(ctx context.Context, accessToken string) (*idp.UserRecord, error)
}

// UserAdmin is the subset of the idp client that needs the service key.
type UserAdmin interface {
	ListUsers(ctx context.Context) ([]idp.UserRecord, error)
	ConfirmUserEmail(ctx context.Context, userID string) error
}

// Confirmer force-confirms an account by email. It reports success and
// never fails the caller.
type Confirmer interface {
	Confirm(ctx context.Context, email string) bool
}

// AccessTokenVerifier checks an access token without calling the provider.
type AccessTokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

var (
	_ IdentityProvider    = (*idp.Client)(nil)
	_ UserAdmin           = (*idp.Client)(nil)
	_ Confirmer           = (*ConfirmationRecovery)(nil)
	_ AccessTokenVerifier = (*auth.Verifier)(nil)
)
