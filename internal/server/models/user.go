package models

import "time"

// RemoteUser is the projection of an identity provider account. The provider
// owns the record; it is never cached between requests.
type RemoteUser struct {
	ID          string
	Email       string
	DisplayName string
	ConfirmedAt *time.Time
	CreatedAt   time.Time
}

// Confirmed reports whether the provider has a confirmation timestamp for
// the account.
func (u RemoteUser) Confirmed() bool {
	return u.ConfirmedAt != nil && !u.ConfirmedAt.IsZero()
}
