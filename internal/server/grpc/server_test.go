package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	pb "github.com/dmitrijs2005/hrmsauth/internal/proto"
	"github.com/dmitrijs2005/hrmsauth/internal/server/idp"
	"github.com/dmitrijs2005/hrmsauth/internal/server/idp/idptest"
	"github.com/dmitrijs2005/hrmsauth/internal/server/models"
	"github.com/dmitrijs2005/hrmsauth/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeAuth struct {
	result *models.AuthResult
	user   *models.RemoteUser
	err    error

	gotCreds models.Credentials
	gotToken string
}

func (f *fakeAuth) Signup(_ context.Context, c models.Credentials) (*models.AuthResult, error) {
	f.gotCreds = c
	return f.result, f.err
}

func (f *fakeAuth) Login(_ context.Context, c models.Credentials) (*models.AuthResult, error) {
	f.gotCreds = c
	return f.result, f.err
}

func (f *fakeAuth) Refresh(_ context.Context, token string) (*models.AuthResult, error) {
	f.gotToken = token
	return f.result, f.err
}

func (f *fakeAuth) Me(_ context.Context, token string) (*models.RemoteUser, error) {
	f.gotToken = token
	return f.user, f.err
}

// startServer serves svc on an in-memory listener and returns a connected
// client connection.
func startServer(t *testing.T, svc AuthService) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewGRPCServer("bufconn", nopLogger{}, svc).Serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufconn",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return conn
}

var sampleResult = &models.AuthResult{
	User: models.RemoteUser{
		ID: "u1", Email: "a@x.com", DisplayName: "Ann",
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	},
	Session: &models.Session{AccessToken: "acc", RefreshToken: "ref", ExpiresAt: 1700000000},
}

func TestHealth(t *testing.T) {
	conn := startServer(t, &fakeAuth{})

	for _, svc := range []string{"", pb.ServiceName} {
		resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: svc})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	}
}

func TestSignupAndLogin(t *testing.T) {
	f := &fakeAuth{result: sampleResult}
	client := pb.NewAuthServiceClient(startServer(t, f))

	var header metadata.MD
	out, err := client.Signup(context.Background(),
		pb.SignupRequest{Email: "a@x.com", Password: "secret1", FullName: "Ann"}.Struct(),
		grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, "Ann", f.gotCreds.DisplayName)
	assert.Len(t, header.Get("x-request-id"), 1)

	got := pb.AuthResponseFromStruct(out)
	assert.Equal(t, pb.User{ID: "u1", Email: "a@x.com", FullName: "Ann", CreatedAt: "2024-01-02T03:04:05Z"}, got.User)
	assert.Equal(t, &pb.Session{AccessToken: "acc", RefreshToken: "ref", ExpiresAt: 1700000000}, got.Session)

	out, err = client.Login(context.Background(), pb.LoginRequest{Email: "a@x.com", Password: "pw"}.Struct())
	require.NoError(t, err)
	assert.Equal(t, "pw", f.gotCreds.Password)
	assert.Equal(t, "acc", pb.AuthResponseFromStruct(out).Session.AccessToken)
}

func TestRefreshWithoutSession(t *testing.T) {
	f := &fakeAuth{result: &models.AuthResult{User: models.RemoteUser{ID: "u1"}}}
	client := pb.NewAuthServiceClient(startServer(t, f))

	out, err := client.Refresh(context.Background(), pb.RefreshRequest{RefreshToken: "r"}.Struct())
	require.NoError(t, err)
	assert.Equal(t, "r", f.gotToken)
	assert.Nil(t, pb.AuthResponseFromStruct(out).Session)
}

func TestMe(t *testing.T) {
	f := &fakeAuth{user: &sampleResult.User}
	client := pb.NewAuthServiceClient(startServer(t, f))

	_, err := client.Me(context.Background(), &structpb.Struct{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer tok")
	out, err := client.Me(ctx, &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, "tok", f.gotToken)
	assert.Equal(t, "u1", pb.UserFromStruct(out).ID)
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{fmt.Errorf("%w: password must be at least 6 characters", common.ErrValidation), codes.InvalidArgument},
		{common.ErrConflict, codes.AlreadyExists},
		{common.ErrInvalidCredentials, codes.Unauthenticated},
		{common.ErrUnrecoverableUnconfirmed, codes.Unauthenticated},
		{common.ErrSessionExpired, codes.Unauthenticated},
		{common.ErrUnauthorized, codes.Unauthenticated},
		{common.ErrProviderUnreachable, codes.Unavailable},
		{fmt.Errorf("secret provider detail: %w", common.ErrProviderRejected), codes.Internal},
		{errors.New("boom"), codes.Internal},
	}

	f := &fakeAuth{}
	client := pb.NewAuthServiceClient(startServer(t, f))

	for _, tt := range tests {
		f.err = tt.err
		_, err := client.Login(context.Background(), pb.LoginRequest{Email: "a@x.com", Password: "pw"}.Struct())
		assert.Equal(t, tt.code, status.Code(err), tt.err.Error())
		assert.NotContains(t, status.Convert(err).Message(), "secret provider detail")
	}

	f.err = fmt.Errorf("%w: password must be at least 6 characters", common.ErrValidation)
	_, err := client.Signup(context.Background(), pb.SignupRequest{}.Struct())
	assert.Equal(t, "password must be at least 6 characters", status.Convert(err).Message())
}

func TestEndToEndAgainstProvider(t *testing.T) {
	srv := idptest.NewServer()
	defer srv.Close()
	srv.RequireConfirmation(true)
	srv.AddUser("old@x.com", "secret1", "Old", false)

	c, err := idp.NewClient(idp.Config{BaseURL: srv.URL, APIKey: srv.APIKey, ServiceKey: srv.ServiceKey, Timeout: 2 * time.Second})
	require.NoError(t, err)
	client := pb.NewAuthServiceClient(startServer(t, services.NewAuthService(c, c, nil, nopLogger{})))

	out, err := client.Login(context.Background(), pb.LoginRequest{Email: "old@x.com", Password: "secret1"}.Struct())
	require.NoError(t, err)
	res := pb.AuthResponseFromStruct(out)
	require.NotNil(t, res.Session)
	assert.Equal(t, "Old", res.User.FullName)

	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+res.Session.AccessToken)
	out, err = client.Me(ctx, &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, "old@x.com", pb.UserFromStruct(out).Email)

	_, err = client.Signup(context.Background(), pb.SignupRequest{Email: "old@x.com", Password: "secret1"}.Struct())
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}
