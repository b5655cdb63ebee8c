package services

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"github.com/dmitrijs2005/hrmsauth/internal/server/idp"
)

// SignInFailure is the branch a failed password sign-in leads to.
type SignInFailure int

const (
	SignInRejected SignInFailure = iota
	SignInUnconfirmed
	SignInInvalidCredentials
	SignInUnreachable
)

func (f SignInFailure) String() string {
	switch f {
	case SignInUnconfirmed:
		return "unconfirmed"
	case SignInInvalidCredentials:
		return "invalid_credentials"
	case SignInUnreachable:
		return "unreachable"
	default:
		return "rejected"
	}
}

// The provider reports these conditions only through free text. All
// substring rules live here.
var (
	unconfirmedMarkers = []string{"email not confirmed"}
	credentialMarkers  = []string{"invalid", "credentials"}
	conflictMarkers    = []string{"already", "registered"}
)

// ClassifySignInFailure maps a PasswordSignIn error to a branch. Transport
// failures and gateway statuses are unreachable. Otherwise the provider's
// message decides; anything unrecognised is a rejection.
func ClassifySignInFailure(err error) SignInFailure {
	if errors.Is(err, common.ErrProviderUnreachable) {
		return SignInUnreachable
	}

	msg, ok := providerMessage(err)
	if !ok {
		return SignInRejected
	}

	switch {
	case containsAny(msg, unconfirmedMarkers):
		return SignInUnconfirmed
	case containsAny(msg, credentialMarkers):
		return SignInInvalidCredentials
	default:
		return SignInRejected
	}
}

// IsConflictMessage reports whether a PasswordSignUp error says the account
// already exists.
func IsConflictMessage(err error) bool {
	msg, ok := providerMessage(err)
	return ok && containsAny(msg, conflictMarkers)
}

func providerMessage(err error) (string, bool) {
	var pe *idp.ProviderError
	if !errors.As(err, &pe) {
		return "", false
	}
	return strings.ToLower(pe.Message), true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
