// Package cli implements the authctl commands: signup, login, refresh and me
// through the gRPC transport, and confirm-pending directly against the
// identity provider's admin API.
package cli
