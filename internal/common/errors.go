// Package common defines the failure kinds shared by the auth services and
// the transports in front of them. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Input errors. Never reach the identity provider.
	ErrValidation = errors.New("validation error")

	// Account errors.
	ErrConflict                 = errors.New("account already exists")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrUnrecoverableUnconfirmed = errors.New("email not confirmed")

	// Token errors.
	ErrSessionExpired = errors.New("session expired")
	ErrUnauthorized   = errors.New("unauthorized")

	// Provider errors. Detail is logged, not returned to end users.
	ErrProviderUnreachable = errors.New("identity provider unreachable")
	ErrProviderRejected    = errors.New("identity provider rejected request")
)
