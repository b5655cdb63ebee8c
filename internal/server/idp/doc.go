// Package idp is a thin client for the GoTrue-style REST API of the external
// identity provider.
//
// The client never retries: every method performs exactly one HTTP call
// bounded by the configured timeout, and callers decide what to do next.
// User operations (sign-in, signup, refresh, current user) authenticate with
// the public API key; admin operations (listing users, forcing email
// confirmation) use the service key and fail closed with
// common.ErrUnauthorized when it is not configured.
//
// # Errors
//
//   - transport failures and timeouts wrap common.ErrProviderUnreachable;
//   - non-2xx responses are returned as *ProviderError, which also matches
//     common.ErrProviderRejected (or common.ErrProviderUnreachable for
//     502/503/504) through errors.Is;
//   - undecodable success bodies wrap common.ErrProviderRejected.
package idp
