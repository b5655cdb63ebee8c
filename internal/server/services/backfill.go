package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"github.com/dmitrijs2005/hrmsauth/internal/logging"
)

// BackfillOutcome is the result for one unconfirmed account.
type BackfillOutcome struct {
	UserID string
	Email  string
	Err    error
}

// BackfillReport summarises a ConfirmPending run.
type BackfillReport struct {
	Total            int
	AlreadyConfirmed int
	Outcomes         []BackfillOutcome
}

// Confirmed counts accounts confirmed by this run.
func (r *BackfillReport) Confirmed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts accounts whose confirmation failed.
func (r *BackfillReport) Failed() int {
	return len(r.Outcomes) - r.Confirmed()
}

// Backfill confirms every account the provider still holds as unconfirmed.
type Backfill struct {
	admin UserAdmin
	log   logging.Logger
}

func NewBackfill(admin UserAdmin, l logging.Logger) *Backfill {
	return &Backfill{admin: admin, log: l.With("module", "backfill")}
}

// ConfirmPending lists all accounts and confirms the unconfirmed ones.
// Listing failures abort the run; per-account failures are recorded.
func (b *Backfill) ConfirmPending(ctx context.Context) (*BackfillReport, error) {
	if b.admin == nil {
		return nil, fmt.Errorf("confirm pending: %w", common.ErrUnauthorized)
	}

	users, err := b.admin.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("confirm pending: %w", err)
	}

	report := &BackfillReport{Total: len(users)}
	for _, u := range users {
		if u.RemoteUser().Confirmed() {
			report.AlreadyConfirmed++
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("confirm pending: %w", err)
		}

		err := b.admin.ConfirmUserEmail(ctx, u.ID)
		if err != nil {
			b.log.Warn(ctx, "confirm failed", "user_id", u.ID, "email", u.Email, "error", err)
		} else {
			b.log.Info(ctx, "confirmed", "user_id", u.ID, "email", u.Email)
		}
		report.Outcomes = append(report.Outcomes, BackfillOutcome{UserID: u.ID, Email: u.Email, Err: err})
	}

	return report, nil
}
