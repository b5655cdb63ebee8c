// Package client is the authctl gRPC client for hrmsauth.AuthService. It
// keeps the session from the last signup, login or refresh and transparently
// refreshes it once when Me is rejected.
package client
