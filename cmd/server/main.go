// Package main implements the entry point for the debit card API server.
// It exposes three commands: serve runs the HTTP API, migrate manages the
// database schema and token mints a bearer token for an existing user.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newCLIApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newCLIApp() *cli.App {
	return &cli.App{
		Name:  "debitcard-api",
		Usage: "debit card management REST API",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			tokenCommand(),
		},
	}
}
