package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	pb "github.com/dmitrijs2005/hrmsauth/internal/proto"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	conn    *grpc.ClientConn
	client  pb.AuthServiceClient
	timeout time.Duration

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, "Bearer "+token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the bearer token to Me and, when the server
// rejects it and a refresh token is held, refreshes once and retries.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if method != pb.MethodMe {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, refresh := s.Tokens()
	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)

	if status.Code(err) != codes.Unauthenticated || refresh == "" {
		return err
	}

	out, rerr := s.client.Refresh(ctx, pb.RefreshRequest{RefreshToken: refresh}.Struct())
	if rerr != nil {
		return err
	}
	res := pb.AuthResponseFromStruct(out)
	if res.Session == nil {
		return err
	}
	s.SetTokens(res.Session.AccessToken, res.Session.RefreshToken)

	// retry once with the rotated token
	return invoker(withAccessToken(ctx, res.Session.AccessToken), method, req, reply, cc, opts...)
}

// NewAuthClient connects lazily to endpoint. timeout bounds each call; extra
// dial options are appended after the defaults.
func NewAuthClient(endpoint string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewAuthServiceClient(conn)
	return c, nil
}

// SetTokens replaces the held session.
func (s *GRPCClient) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

// Tokens returns the held session.
func (s *GRPCClient) Tokens() (accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) Signup(ctx context.Context, email, password, fullName string) (*pb.AuthResponse, error) {
	return s.authCall(ctx, s.client.Signup, pb.SignupRequest{Email: email, Password: password, FullName: fullName}.Struct())
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*pb.AuthResponse, error) {
	return s.authCall(ctx, s.client.Login, pb.LoginRequest{Email: email, Password: password}.Struct())
}

func (s *GRPCClient) Refresh(ctx context.Context, refreshToken string) (*pb.AuthResponse, error) {
	return s.authCall(ctx, s.client.Refresh, pb.RefreshRequest{RefreshToken: refreshToken}.Struct())
}

func (s *GRPCClient) Me(ctx context.Context) (*pb.User, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := s.client.Me(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}
	u := pb.UserFromStruct(out)
	return &u, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

type authRPC func(context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

func (s *GRPCClient) authCall(ctx context.Context, call authRPC, in *structpb.Struct) (*pb.AuthResponse, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out, err := call(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	res := pb.AuthResponseFromStruct(out)
	if res.Session != nil {
		s.SetTokens(res.Session.AccessToken, res.Session.RefreshToken)
	}
	return &res, nil
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidInput, st.Message())
	case codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, st.Message())
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
