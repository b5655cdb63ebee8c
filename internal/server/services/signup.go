package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"github.com/dmitrijs2005/hrmsauth/internal/logging"
	"github.com/dmitrijs2005/hrmsauth/internal/server/models"
)

// SignupOrchestrator creates an account and tries to hand back a usable
// session straight away.
type SignupOrchestrator struct {
	idp       IdentityProvider
	confirmer Confirmer
	log       logging.Logger
	now       func() time.Time
}

func NewSignupOrchestrator(p IdentityProvider, c Confirmer, l logging.Logger) *SignupOrchestrator {
	return &SignupOrchestrator{idp: p, confirmer: c, log: l.With("module", "signup"), now: time.Now}
}

// Signup validates creds locally, creates the account, force-confirms it and
// signs in. When the sign-in fails the account is still returned, with the
// session from the signup reply if the provider issued one.
func (s *SignupOrchestrator) Signup(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	creds = creds.Normalize()
	if err := creds.ValidateForSignup(); err != nil {
		return nil, err
	}

	resp, err := s.idp.PasswordSignUp(ctx, creds.Email, creds.Password, creds.DisplayName)
	if err != nil {
		return nil, s.signupFailure(ctx, creds.Email, err)
	}
	account := resp.Account().RemoteUser()

	s.confirmer.Confirm(ctx, creds.Email)

	tok, err := s.idp.PasswordSignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		s.log.Debug(ctx, "sign-in after signup failed", "email", creds.Email, "error", err)
	} else if session := tok.Session(s.now()); session != nil {
		user := tok.User.RemoteUser()
		if user.ID == "" {
			user = account
		}
		s.log.Info(ctx, "user signed up", "email", creds.Email, "user_id", user.ID)
		return &models.AuthResult{User: user, Session: session}, nil
	}

	session := resp.TokenResponse.Session(s.now())
	s.log.Info(ctx, "user signed up", "email", creds.Email, "user_id", account.ID, "session", session != nil)
	return &models.AuthResult{User: account, Session: session}, nil
}

func (s *SignupOrchestrator) signupFailure(ctx context.Context, email string, err error) error {
	switch {
	case IsConflictMessage(err):
		s.log.Info(ctx, "signup conflict", "email", email)
		return fmt.Errorf("%w: an account with this email already exists", common.ErrConflict)
	case errors.Is(err, common.ErrProviderUnreachable):
		s.log.Error(ctx, "signup: provider unreachable", "email", email, "error", err)
		return common.ErrProviderUnreachable
	default:
		s.log.Error(ctx, "signup: provider rejected request", "email", email, "error", err)
		return common.ErrProviderRejected
	}
}
