package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"github.com/dmitrijs2005/hrmsauth/internal/logging"
	"github.com/dmitrijs2005/hrmsauth/internal/server/idp"
	"github.com/dmitrijs2005/hrmsauth/internal/server/models"
)

// LoginState is a step of the login recovery machine.
type LoginState int

const (
	LoginStart LoginState = iota
	LoginPrimaryAttempt
	LoginConfirmAttempt
	LoginRetryAfterConfirm
	LoginResignupAttempt
	LoginAuthenticated
	LoginInvalidCredentials
	LoginUnrecoverable
	LoginUnreachable
	LoginRejected
)

var loginStateNames = map[LoginState]string{
	LoginStart:              "start",
	LoginPrimaryAttempt:     "primary_attempt",
	LoginConfirmAttempt:     "confirm_attempt",
	LoginRetryAfterConfirm:  "retry_after_confirm",
	LoginResignupAttempt:    "resignup_attempt",
	LoginAuthenticated:      "authenticated",
	LoginInvalidCredentials: "invalid_credentials",
	LoginUnrecoverable:      "unrecoverable",
	LoginUnreachable:        "unreachable",
	LoginRejected:           "rejected",
}

func (s LoginState) String() string {
	if n, ok := loginStateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Terminal reports whether the machine stops in s.
func (s LoginState) Terminal() bool {
	return s >= LoginAuthenticated
}

// LoginOrchestrator signs a user in, recovering accounts the provider
// refuses as unconfirmed. Recovery runs in a fixed order: confirm, retry the
// sign-in, then sign up again with the same credentials.
type LoginOrchestrator struct {
	idp       IdentityProvider
	confirmer Confirmer
	log       logging.Logger
	now       func() time.Time
}

func NewLoginOrchestrator(p IdentityProvider, c Confirmer, l logging.Logger) *LoginOrchestrator {
	return &LoginOrchestrator{idp: p, confirmer: c, log: l.With("module", "login"), now: time.Now}
}

type loginRun struct {
	creds  models.Credentials
	state  LoginState
	result *models.AuthResult
}

// Login runs the machine to a terminal state and maps it to a result or one
// of common.ErrInvalidCredentials, common.ErrUnrecoverableUnconfirmed,
// common.ErrProviderUnreachable or common.ErrProviderRejected.
func (o *LoginOrchestrator) Login(ctx context.Context, creds models.Credentials) (*models.AuthResult, error) {
	creds = creds.Normalize()
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	run := &loginRun{creds: creds, state: LoginStart}
	o.transition(ctx, run, LoginPrimaryAttempt)

	for !run.state.Terminal() {
		if ctx.Err() != nil {
			o.log.Debug(ctx, "login cancelled", "email", creds.Email, "state", run.state.String())
			return nil, common.ErrProviderUnreachable
		}
		o.transition(ctx, run, o.step(ctx, run))
	}

	switch run.state {
	case LoginAuthenticated:
		o.log.Info(ctx, "user logged in", "email", creds.Email, "user_id", run.result.User.ID)
		return run.result, nil
	case LoginInvalidCredentials:
		return nil, common.ErrInvalidCredentials
	case LoginUnrecoverable:
		return nil, common.ErrUnrecoverableUnconfirmed
	case LoginUnreachable:
		return nil, common.ErrProviderUnreachable
	default:
		return nil, common.ErrProviderRejected
	}
}

func (o *LoginOrchestrator) transition(ctx context.Context, run *loginRun, next LoginState) {
	o.log.Debug(ctx, "login transition", "email", run.creds.Email, "from", run.state.String(), "to", next.String())
	run.state = next
}

func (o *LoginOrchestrator) step(ctx context.Context, run *loginRun) LoginState {
	switch run.state {
	case LoginPrimaryAttempt:
		return o.primaryAttempt(ctx, run)
	case LoginConfirmAttempt:
		if o.confirmer.Confirm(ctx, run.creds.Email) {
			return LoginRetryAfterConfirm
		}
		return LoginResignupAttempt
	case LoginRetryAfterConfirm:
		if o.signIn(ctx, run) == nil {
			return LoginAuthenticated
		}
		return LoginResignupAttempt
	case LoginResignupAttempt:
		return o.resignupAttempt(ctx, run)
	default:
		return LoginRejected
	}
}

func (o *LoginOrchestrator) primaryAttempt(ctx context.Context, run *loginRun) LoginState {
	err := o.signIn(ctx, run)
	if err == nil {
		return LoginAuthenticated
	}

	switch ClassifySignInFailure(err) {
	case SignInUnconfirmed:
		return LoginConfirmAttempt
	case SignInInvalidCredentials:
		return LoginInvalidCredentials
	case SignInUnreachable:
		o.log.Error(ctx, "login: provider unreachable", "email", run.creds.Email, "error", err)
		return LoginUnreachable
	default:
		o.log.Error(ctx, "login: provider rejected sign-in", "email", run.creds.Email, "error", err)
		return LoginRejected
	}
}

// signIn sets run.result on success. A reply without an access token counts
// as a failure.
func (o *LoginOrchestrator) signIn(ctx context.Context, run *loginRun) error {
	tok, err := o.idp.PasswordSignIn(ctx, run.creds.Email, run.creds.Password)
	if err != nil {
		o.log.Debug(ctx, "sign-in failed", "email", run.creds.Email, "state", run.state.String(), "error", err)
		return err
	}
	session := tok.Session(o.now())
	if session == nil {
		return &idp.ProviderError{Op: "password_sign_in", Message: "no session issued"}
	}
	run.result = &models.AuthResult{User: tok.User.RemoteUser(), Session: session}
	return nil
}

func (o *LoginOrchestrator) resignupAttempt(ctx context.Context, run *loginRun) LoginState {
	resp, err := o.idp.PasswordSignUp(ctx, run.creds.Email, run.creds.Password, run.creds.DisplayName)
	if err != nil {
		o.log.Debug(ctx, "re-signup failed", "email", run.creds.Email, "error", err)
		return LoginUnrecoverable
	}

	session := resp.TokenResponse.Session(o.now())
	if session == nil {
		o.log.Debug(ctx, "re-signup issued no session", "email", run.creds.Email)
		return LoginUnrecoverable
	}

	run.result = &models.AuthResult{User: resp.Account().RemoteUser(), Session: session}
	return LoginAuthenticated
}
