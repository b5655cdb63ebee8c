package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"github.com/dmitrijs2005/hrmsauth/internal/logging"
	"github.com/dmitrijs2005/hrmsauth/internal/server/models"
)

// CurrentUser resolves the account behind an access token. With a verifier
// the token is checked locally; otherwise the provider is asked.
type CurrentUser struct {
	idp      IdentityProvider
	verifier AccessTokenVerifier
	log      logging.Logger
}

// NewCurrentUser builds the lookup. v may be nil.
func NewCurrentUser(p IdentityProvider, v AccessTokenVerifier, l logging.Logger) *CurrentUser {
	return &CurrentUser{idp: p, verifier: v, log: l.With("module", "me")}
}

// Me returns the token's user or common.ErrUnauthorized.
func (c *CurrentUser) Me(ctx context.Context, accessToken string) (*models.RemoteUser, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, common.ErrUnauthorized
	}

	if c.verifier != nil {
		claims, err := c.verifier.Verify(accessToken)
		if err != nil {
			c.log.Debug(ctx, "access token rejected", "error", err)
			return nil, common.ErrUnauthorized
		}
		u := claims.RemoteUser()
		return &u, nil
	}

	rec, err := c.idp.GetUser(ctx, accessToken)
	if err != nil {
		c.log.Debug(ctx, "provider rejected access token", "error", err)
		return nil, common.ErrUnauthorized
	}
	u := rec.RemoteUser()
	return &u, nil
}
