package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error to a gRPC status with a client-safe message.
// Provider detail is logged and dropped.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, strings.TrimPrefix(err.Error(), common.ErrValidation.Error()+": "))
	case errors.Is(err, common.ErrConflict):
		return status.Error(codes.AlreadyExists, "an account with this email already exists")
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, "invalid email or password")
	case errors.Is(err, common.ErrUnrecoverableUnconfirmed):
		return status.Error(codes.Unauthenticated, "email not confirmed, please check your email or create a new account")
	case errors.Is(err, common.ErrSessionExpired):
		return status.Error(codes.Unauthenticated, "session expired, please log in again")
	case errors.Is(err, common.ErrUnauthorized):
		return status.Error(codes.Unauthenticated, "invalid or expired token")
	case errors.Is(err, common.ErrProviderUnreachable):
		s.logger.Error(ctx, "provider unreachable", "op", op, "error", err)
		return status.Error(codes.Unavailable, "authentication service unavailable")
	default:
		s.logger.Error(ctx, "request failed", "op", op, "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
