package grpc

import (
	"context"
	"time"

	pb "github.com/dmitrijs2005/hrmsauth/internal/proto"
	"github.com/dmitrijs2005/hrmsauth/internal/server/models"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Signup(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := pb.SignupRequestFromStruct(in)

	res, err := s.auth.Signup(ctx, models.Credentials{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.FullName,
	})
	if err != nil {
		return nil, s.toStatus(ctx, "signup", err)
	}
	return toAuthResponse(res).Struct(), nil
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := pb.LoginRequestFromStruct(in)

	res, err := s.auth.Login(ctx, models.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		return nil, s.toStatus(ctx, "login", err)
	}
	return toAuthResponse(res).Struct(), nil
}

func (s *GRPCServer) Refresh(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req := pb.RefreshRequestFromStruct(in)

	res, err := s.auth.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, "refresh", err)
	}
	return toAuthResponse(res).Struct(), nil
}

// Me reads the token placed in ctx by accessTokenInterceptor.
func (s *GRPCServer) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	u, err := s.auth.Me(ctx, accessTokenFromContext(ctx))
	if err != nil {
		return nil, s.toStatus(ctx, "me", err)
	}
	return toUser(*u).Struct(), nil
}

func toUser(u models.RemoteUser) pb.User {
	out := pb.User{ID: u.ID, Email: u.Email, FullName: u.DisplayName}
	if !u.CreatedAt.IsZero() {
		out.CreatedAt = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func toAuthResponse(res *models.AuthResult) pb.AuthResponse {
	out := pb.AuthResponse{User: toUser(res.User)}
	if res.HasSession() {
		out.Session = &pb.Session{
			AccessToken:  res.Session.AccessToken,
			RefreshToken: res.Session.RefreshToken,
			ExpiresAt:    res.Session.ExpiresAt,
		}
	}
	return out
}
