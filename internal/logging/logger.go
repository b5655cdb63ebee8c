// Package logging defines the structured-logging interface used across the
// service. The only implementation wraps log/slog.
package logging

import "context"

// Logger is the structured logger every component receives. Args are
// key/value pairs:
//
//	log.Debug(ctx, "login transition", "from", from, "to", to)
//
// Implementations add the request ID carried by ctx, if any.
type Logger interface {
	// Debug records state-machine transitions and provider round trips.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn records recoverable provider failures such as a failed
	// confirmation recovery.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying the given pairs.
	With(args ...any) Logger
}
