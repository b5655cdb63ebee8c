// Command server runs the hrmsauth HTTP and gRPC transports.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/dmitrijs2005/hrmsauth/internal/server"
	"github.com/dmitrijs2005/hrmsauth/internal/server/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	app, err := server.NewApp(config.LoadConfig())
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	app.Run(context.Background())
	return nil
}
