package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	err    error
	status int
	detail string
}

var errorMappings = []errorMapping{
	{common.ErrValidation, http.StatusBadRequest, ""},
	{common.ErrConflict, http.StatusConflict, "An account with this email already exists"},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{common.ErrUnrecoverableUnconfirmed, http.StatusUnauthorized, "Email not confirmed. Please check your email or create a new account."},
	{common.ErrSessionExpired, http.StatusUnauthorized, "Session expired. Please log in again."},
	{common.ErrUnauthorized, http.StatusUnauthorized, "Invalid or expired token"},
	{common.ErrProviderUnreachable, http.StatusServiceUnavailable, "Authentication service unavailable. Please try again."},
	{common.ErrProviderRejected, http.StatusBadGateway, "Authentication failed. Please try again."},
}

// statusFor maps a service error to an HTTP status and a client-safe detail.
// Validation errors carry their own message since they never contain
// provider text.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.err) {
			continue
		}
		if m.detail == "" {
			return m.status, validationDetail(err)
		}
		return m.status, m.detail
	}
	return http.StatusInternalServerError, "Internal server error"
}

func validationDetail(err error) string {
	return strings.TrimPrefix(err.Error(), common.ErrValidation.Error()+": ")
}

func abortWithError(c *gin.Context, err error) {
	status, detail := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{Detail: detail})
}
