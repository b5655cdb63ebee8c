package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hrmsauth/internal/logging"
)

// ConfirmationRecovery force-confirms an account through the provider's
// admin API. Every failure is absorbed and logged.
type ConfirmationRecovery struct {
	admin UserAdmin
	log   logging.Logger
}

func NewConfirmationRecovery(admin UserAdmin, l logging.Logger) *ConfirmationRecovery {
	return &ConfirmationRecovery{admin: admin, log: l.With("module", "confirmation_recovery")}
}

// Confirm looks up the account whose email matches exactly and marks it
// confirmed. It returns true only when both admin calls succeed. Confirming
// an already confirmed account succeeds again.
func (r *ConfirmationRecovery) Confirm(ctx context.Context, email string) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error(ctx, "confirmation recovery panicked", "email", email, "panic", fmt.Sprint(p))
			ok = false
		}
	}()

	if r.admin == nil {
		r.log.Warn(ctx, "confirmation recovery skipped: admin api not configured", "email", email)
		return false
	}

	users, err := r.admin.ListUsers(ctx)
	if err != nil {
		r.log.Warn(ctx, "list users failed", "email", email, "error", err)
		return false
	}

	for _, u := range users {
		if u.Email != email {
			continue
		}
		if err := r.admin.ConfirmUserEmail(ctx, u.ID); err != nil {
			r.log.Warn(ctx, "confirm user email failed", "email", email, "user_id", u.ID, "error", err)
			return false
		}
		r.log.Info(ctx, "user email confirmed", "email", email, "user_id", u.ID)
		return true
	}

	r.log.Warn(ctx, "no provider account for email", "email", email)
	return false
}
