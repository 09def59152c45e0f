package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/VAEBZ/context7/internal/config"
	"github.com/VAEBZ/context7/internal/docs"
	"github.com/VAEBZ/context7/internal/mcp"
	"github.com/VAEBZ/context7/internal/version"
)

func main() {
	// stdout carries the stdio transport's wire; all logging goes to stderr.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, version.FullInfo())
	}

	app := &cli.App{
		Name:    "context7",
		Usage:   "Context7 MCP server - up-to-date library documentation for AI assistants",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "transport",
				Usage: "Transport to use: 'stdio' or 'http' (TRANSPORT env applies when unset)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind the HTTP transport to",
				Value: mcp.DefaultHost,
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind the HTTP transport to",
				Value: mcp.DefaultPort,
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Project config file path",
				Value:   config.DefaultConfigPath,
			},
		},
		Action: func(c *cli.Context) error {
			return run(c, logger)
		},
	}

	// Supervisor: any failure escaping the run loop is deliberate,
	// logged, and terminal.
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context, logger zerolog.Logger) error {
	settings := config.LoadSettings()
	snapshot := config.Load(c.String("config"), logger)
	minimumTokens := settings.MinimumTokens(logger)

	client := docs.NewClient(docs.DefaultBaseURL, logger)
	server := mcp.NewServer(snapshot, client, minimumTokens, logger)

	// Transport is decided exactly once; it never changes for the life of
	// the process. Explicit flag wins over the environment.
	transport := c.String("transport")
	if transport == "" {
		transport = settings.Transport
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if transport == "http" {
		return server.ServeHTTP(ctx, c.String("host"), c.Int("port"))
	}
	return server.ServeStdio(ctx)
}
