package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/hrmsauth/internal/client/client"
	"github.com/dmitrijs2005/hrmsauth/internal/client/config"
	"github.com/dmitrijs2005/hrmsauth/internal/logging"
	pb "github.com/dmitrijs2005/hrmsauth/internal/proto"
	"github.com/dmitrijs2005/hrmsauth/internal/server/idp"
	"github.com/dmitrijs2005/hrmsauth/internal/server/services"
)

// AuthClient is the gRPC client surface the commands use.
type AuthClient interface {
	Signup(ctx context.Context, email, password, fullName string) (*pb.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*pb.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*pb.AuthResponse, error)
	Me(ctx context.Context) (*pb.User, error)
	SetTokens(accessToken, refreshToken string)
	Close() error
}

// Backfiller confirms every pending account.
type Backfiller interface {
	ConfirmPending(ctx context.Context) (*services.BackfillReport, error)
}

type App struct {
	config *config.Config
	in     *bufio.Reader
	out    io.Writer

	newClient     func(cfg *config.Config) (AuthClient, error)
	newBackfiller func(cfg *config.Config) (Backfiller, error)
}

func NewApp(cfg *config.Config, in io.Reader, out io.Writer) *App {
	return &App{
		config:        cfg,
		in:            bufio.NewReader(in),
		out:           out,
		newClient:     dialClient,
		newBackfiller: providerBackfiller,
	}
}

func dialClient(cfg *config.Config) (AuthClient, error) {
	c, err := client.NewAuthClient(cfg.ServerEndpointAddr, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func providerBackfiller(cfg *config.Config) (Backfiller, error) {
	c, err := idp.NewClient(idp.Config{
		BaseURL:    cfg.ProviderURL,
		APIKey:     cfg.ProviderAPIKey,
		ServiceKey: cfg.ProviderServiceKey,
		Timeout:    cfg.ProviderTimeout,
	})
	if err != nil {
		return nil, err
	}
	return services.NewBackfill(c, logging.New(os.Stderr, "text", "warn")), nil
}

const usage = `usage: authctl <command> [flags]

commands:
  signup           create an account and print the session
  login            sign in and print the session
  refresh          exchange a refresh token for a new session
  me               show the account behind an access token
  confirm-pending  confirm every unconfirmed account (needs the service key)

flags:
  -a host:port     hrmsauth gRPC endpoint
  -t seconds       request timeout
  -u url           identity provider url (confirm-pending)
  -k key           identity provider api key (confirm-pending)
  -s key           identity provider service key (confirm-pending)
  -c file          JSON config file
`

// Run executes the command named by cmd and returns the process exit code.
func (a *App) Run(ctx context.Context, cmd string) int {
	var err error

	switch cmd {
	case "signup":
		err = a.withClient(ctx, a.signup)
	case "login":
		err = a.withClient(ctx, a.login)
	case "refresh":
		err = a.withClient(ctx, a.refresh)
	case "me":
		err = a.withClient(ctx, a.me)
	case "confirm-pending":
		err = a.confirmPending(ctx)
	case "", "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return 0
	default:
		fmt.Fprintf(a.out, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return 1
	}
	return 0
}

func (a *App) withClient(ctx context.Context, fn func(context.Context, AuthClient) error) error {
	c, err := a.newClient(a.config)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer c.Close()
	return fn(ctx, c)
}

func (a *App) signup(ctx context.Context, c AuthClient) error {
	email, err := GetSimpleText(a.in, "Email", a.out)
	if err != nil {
		return err
	}
	fullName, err := GetSimpleText(a.in, "Full name (optional)", a.out)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	password, err := GetPassword(a.in, a.out)
	if err != nil {
		return err
	}

	res, err := c.Signup(ctx, email, password, fullName)
	if err != nil {
		return err
	}
	a.printAuth(res)
	return nil
}

func (a *App) login(ctx context.Context, c AuthClient) error {
	email, err := GetSimpleText(a.in, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.in, a.out)
	if err != nil {
		return err
	}

	res, err := c.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.printAuth(res)
	return nil
}

func (a *App) refresh(ctx context.Context, c AuthClient) error {
	token, err := GetSimpleText(a.in, "Refresh token", a.out)
	if err != nil {
		return err
	}

	res, err := c.Refresh(ctx, token)
	if err != nil {
		return err
	}
	a.printAuth(res)
	return nil
}

func (a *App) me(ctx context.Context, c AuthClient) error {
	token, err := GetSimpleText(a.in, "Access token", a.out)
	if err != nil {
		return err
	}
	c.SetTokens(token, "")

	u, err := c.Me(ctx)
	if err != nil {
		return err
	}
	a.printUser(*u)
	return nil
}

func (a *App) confirmPending(ctx context.Context) error {
	b, err := a.newBackfiller(a.config)
	if err != nil {
		return err
	}

	report, err := b.ConfirmPending(ctx)
	if err != nil {
		return err
	}

	for _, o := range report.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(a.out, "FAILED    %s (%s): %v\n", o.Email, o.UserID, o.Err)
			continue
		}
		fmt.Fprintf(a.out, "confirmed %s (%s)\n", o.Email, o.UserID)
	}
	fmt.Fprintf(a.out, "users: %d, already confirmed: %d, confirmed: %d, failed: %d\n",
		report.Total, report.AlreadyConfirmed, report.Confirmed(), report.Failed())

	if report.Failed() > 0 {
		return fmt.Errorf("%d confirmation(s) failed", report.Failed())
	}
	return nil
}

func (a *App) printUser(u pb.User) {
	fmt.Fprintf(a.out, "id:         %s\n", u.ID)
	fmt.Fprintf(a.out, "email:      %s\n", u.Email)
	if u.FullName != "" {
		fmt.Fprintf(a.out, "full name:  %s\n", u.FullName)
	}
	if u.CreatedAt != "" {
		fmt.Fprintf(a.out, "created at: %s\n", u.CreatedAt)
	}
}

func (a *App) printAuth(res *pb.AuthResponse) {
	a.printUser(res.User)
	if res.Session == nil {
		fmt.Fprintln(a.out, "session:    none (confirm the email, then log in)")
		return
	}
	fmt.Fprintf(a.out, "access token:  %s\n", res.Session.AccessToken)
	fmt.Fprintf(a.out, "refresh token: %s\n", res.Session.RefreshToken)
	fmt.Fprintf(a.out, "expires at:    %d\n", res.Session.ExpiresAt)
}

// SplitCommand returns the first non-flag argument as the command and the
// remaining arguments for flag parsing.
func SplitCommand(args []string) (string, []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return args[0], args[1:]
}
