package services

import (
	"context"

	"github.com/dmitrijs2005/hrmsauth/internal/logging"
	"github.com/dmitrijs2005/hrmsauth/internal/server/models"
)

// AuthService is the single entry point the transports call.
type AuthService struct {
	signup  *SignupOrchestrator
	login   *LoginOrchestrator
	refresh *SessionRefreshHandler
	me      *CurrentUser
}

// NewAuthService wires the orchestrators. admin may be nil, in which case
// confirmation recovery always reports failure. verifier may be nil.
func NewAuthService(p IdentityProvider, admin UserAdmin, verifier AccessTokenVerifier, l logging.Logger) *AuthService {
	confirmer := NewConfirmationRecovery(admin, l)
	return &AuthService{
		signup:  NewSignupOrchestrator(p, confirmer, l),
		login:   NewLoginOrchestrator(p, confirmer, l),
		refresh: NewSessionRefreshHandler(p, l),
		me:      NewCurrentUser(p, verifier, l),
	}
}

func (s *AuthService) Signup(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	return s.signup.Signup(ctx, creds)
}

func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	return s.login.Login(ctx, creds)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error) {
	return s.refresh.Refresh(ctx, refreshToken)
}

func (s *AuthService) Me(ctx context.Context, accessToken string) (*models.RemoteUser, error) {
	return s.me.Me(ctx, accessToken)
}
