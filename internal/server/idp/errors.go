package idp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
)

// ProviderError is a non-2xx reply from the identity provider.
type ProviderError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: provider returned %d: %s", e.Op, e.StatusCode, e.Message)
}

// Unwrap lets gateway failures match common.ErrProviderUnreachable and every
// other status match common.ErrProviderRejected.
func (e *ProviderError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return common.ErrProviderUnreachable
	default:
		return common.ErrProviderRejected
	}
}

// errorMessage extracts the human-readable message from an error body,
// preferring msg, then error_description, then error. The raw body is the
// fallback.
func errorMessage(body []byte) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		for _, m := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	return strings.TrimSpace(string(body))
}
