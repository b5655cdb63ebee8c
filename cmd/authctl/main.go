// Command authctl is the operator CLI for hrmsauth.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/hrmsauth/internal/client/cli"
	"github.com/dmitrijs2005/hrmsauth/internal/client/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, args := cli.SplitCommand(os.Args[1:])
	app := cli.NewApp(config.LoadConfig(args), os.Stdin, os.Stdout)

	code := app.Run(ctx, cmd)
	stop()
	os.Exit(code)
}
