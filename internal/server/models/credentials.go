// Package models holds the values passed between the auth services and the
// transports. Nothing here is persisted.
package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
)

// Credentials are the email/password pair supplied by the caller, plus an
// optional display name used on signup.
type Credentials struct {
	Email       string
	Password    string
	DisplayName string
}

// Normalize trims surrounding whitespace from the email and display name.
// The password is left untouched.
func (c Credentials) Normalize() Credentials {
	return Credentials{
		Email:       strings.TrimSpace(c.Email),
		Password:    c.Password,
		DisplayName: strings.TrimSpace(c.DisplayName),
	}
}

// Validate checks that email and password are present.
func (c Credentials) Validate() error {
	if c.Email == "" || c.Password == "" {
		return fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}
	return nil
}

// ValidateForSignup additionally enforces the minimum password length.
func (c Credentials) ValidateForSignup() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.Password) < common.MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, common.MinPasswordLength)
	}
	return nil
}
