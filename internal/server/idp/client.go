package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/hrmsauth/internal/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/dmitrijs2005/hrmsauth/internal/server/idp"

	// DefaultTimeout bounds a single provider call when Config.Timeout is zero.
	DefaultTimeout = 10 * time.Second

	maxBodySize = 1 << 20

	// listUsersPageSize is the per_page requested from the admin user list.
	listUsersPageSize = 100
)

// Config is injected at startup; the client reads nothing from the process
// environment.
type Config struct {
	BaseURL    string
	APIKey     string
	ServiceKey string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client talks to the identity provider. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	serviceKey string
	timeout    time.Duration
	http       *http.Client
	tracer     trace.Tracer
	pageSize   int
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("idp: base url is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("idp: invalid base url: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, errors.New("idp: api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		serviceKey: cfg.ServiceKey,
		timeout:    timeout,
		http:       hc,
		tracer:     otel.Tracer(tracerName),
		pageSize:   listUsersPageSize,
	}, nil
}

// HasServiceKey reports whether admin operations can be attempted.
func (c *Client) HasServiceKey() bool {
	return c.serviceKey != ""
}

// PasswordSignIn exchanges email and password for a session.
func (c *Client) PasswordSignIn(ctx context.Context, email, password string) (*TokenResponse, error) {
	body := map[string]string{"email": email, "password": password}
	out := &TokenResponse{}
	if err := c.do(ctx, request{
		op:     "password_sign_in",
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   body,
	}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// PasswordSignUp creates an account. The reply carries a session only when
// the provider's confirmation policy allows immediate sign-in. full_name is
// always sent, empty or not, so every account carries the same metadata shape.
func (c *Client) PasswordSignUp(ctx context.Context, email, password, displayName string) (*SignupResponse, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": displayName},
	}
	out := &SignupResponse{}
	if err := c.do(ctx, request{
		op:     "password_sign_up",
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   body,
	}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RefreshSession exchanges a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	out := &TokenResponse{}
	if err := c.do(ctx, request{
		op:     "refresh_session",
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": refreshToken},
	}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser returns the user owning accessToken.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*UserRecord, error) {
	out := &UserRecord{}
	if err := c.do(ctx, request{
		op:     "get_user",
		method: http.MethodGet,
		path:   "/auth/v1/user",
		bearer: accessToken,
	}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers returns every account the provider holds, following the admin
// list's pages until a short page comes back. Requires the service key.
func (c *Client) ListUsers(ctx context.Context) ([]UserRecord, error) {
	if !c.HasServiceKey() {
		return nil, fmt.Errorf("list_users: service key not configured: %w", common.ErrUnauthorized)
	}

	var users []UserRecord
	for page := 1; ; page++ {
		out := &listUsersResponse{}
		if err := c.do(ctx, request{
			op:     "list_users",
			method: http.MethodGet,
			path:   "/auth/v1/admin/users",
			query: url.Values{
				"page":     {strconv.Itoa(page)},
				"per_page": {strconv.Itoa(c.pageSize)},
			},
			admin: true,
		}, out); err != nil {
			return nil, err
		}
		users = append(users, out.Users...)
		if len(out.Users) < c.pageSize {
			return users, nil
		}
	}
}

// ConfirmUserEmail force-confirms the user's email. Requires the service key.
func (c *Client) ConfirmUserEmail(ctx context.Context, userID string) error {
	if !c.HasServiceKey() {
		return fmt.Errorf("confirm_user_email: service key not configured: %w", common.ErrUnauthorized)
	}
	return c.do(ctx, request{
		op:     "confirm_user_email",
		method: http.MethodPut,
		path:   "/auth/v1/admin/users/" + url.PathEscape(userID),
		body:   map[string]bool{"email_confirm": true},
		admin:  true,
	}, nil)
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	bearer string
	admin  bool
}

func (c *Client) do(ctx context.Context, r request, out any) (err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "idp."+r.op, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("idp.op", r.op), attribute.Bool("idp.admin", r.admin)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, r.op+" failed")
		}
		span.End()
	}()

	req, err := c.newRequest(ctx, r)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", r.op, common.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%s: read body: %w: %v", r.op, common.ErrProviderUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProviderError{Op: r.op, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w: %v", r.op, common.ErrProviderRejected, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", r.op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", r.op, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	switch {
	case r.admin:
		req.Header.Set("apikey", c.serviceKey)
		req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	case r.bearer != "":
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	default:
		req.Header.Set("apikey", c.apiKey)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return req, nil
}
