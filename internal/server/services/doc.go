// Package services holds the authentication orchestrators used by both the
// HTTP and gRPC transports: signup, the login recovery state machine,
// session refresh, current-user lookup and the confirmation backfill.
//
// Orchestrators keep no state between calls and are safe for concurrent use.
package services
