package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"github.com/dmitrijs2005/hrmsauth/internal/logging"
	"github.com/dmitrijs2005/hrmsauth/internal/server/models"
)

// SessionRefreshHandler rotates a session through the provider.
type SessionRefreshHandler struct {
	idp IdentityProvider
	log logging.Logger
	now func() time.Time
}

func NewSessionRefreshHandler(p IdentityProvider, l logging.Logger) *SessionRefreshHandler {
	return &SessionRefreshHandler{idp: p, log: l.With("module", "refresh"), now: time.Now}
}

// Refresh exchanges refreshToken for a new session. Every provider failure
// becomes common.ErrSessionExpired; the detail is only logged.
func (h *SessionRefreshHandler) Refresh(ctx context.Context, refreshToken string) (*models.AuthResult, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh token is required", common.ErrValidation)
	}

	tok, err := h.idp.RefreshSession(ctx, refreshToken)
	if err != nil {
		h.log.Warn(ctx, "session refresh failed", "error", err)
		return nil, common.ErrSessionExpired
	}

	session := tok.Session(h.now())
	if session == nil {
		h.log.Warn(ctx, "session refresh returned no access token")
		return nil, common.ErrSessionExpired
	}

	return &models.AuthResult{User: tok.User.RemoteUser(), Session: session}, nil
}
