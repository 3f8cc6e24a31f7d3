// Package main is the composition root for slack-mcp-server.
// All dependencies are wired here — no service locator, no global state.
// This is the only place that knows about all layers simultaneously.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/ajitpratap0/mcp-sdk-go/pkg/logging"

	"github.com/aaronpaddy/slack-mcp-server/internal/domain/workspace"
	"github.com/aaronpaddy/slack-mcp-server/internal/infrastructure/config"
	"github.com/aaronpaddy/slack-mcp-server/internal/infrastructure/metrics"
	"github.com/aaronpaddy/slack-mcp-server/internal/infrastructure/slack"
	"github.com/aaronpaddy/slack-mcp-server/internal/interfaces/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Set version info for the CLI
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Load configuration (defaults + optional file + env overrides)
	cfg := config.Load()

	// Logging goes to stderr: on the stdio transport the protocol owns
	// stdout, so nothing else may write there.
	logger := newLogger(cfg.Log)

	// Shared HTTP client for all Slack API calls.
	httpClient := &http.Client{Timeout: 30 * time.Second}

	// Commands build the Slack client lazily so the --token flag can
	// participate in token resolution.
	newClient := func(token string) workspace.Client {
		return slack.NewClient(cfg.Slack.APIURL, httpClient, token, logger)
	}

	deps := &cli.Dependencies{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics.New(),
		Out:       os.Stdout,
		NewClient: newClient,
	}

	if err := cli.NewRootCmd(deps).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cfg config.LogConfig) logging.Logger {
	var formatter logging.Formatter
	switch cfg.Format {
	case "json":
		formatter = logging.NewJSONFormatter()
	default:
		formatter = logging.NewTextFormatter()
	}

	logger := logging.New(os.Stderr, formatter)
	switch cfg.Level {
	case "debug":
		logger.SetLevel(logging.DebugLevel)
	case "warn":
		logger.SetLevel(logging.WarnLevel)
	case "error":
		logger.SetLevel(logging.ErrorLevel)
	default:
		logger.SetLevel(logging.InfoLevel)
	}
	return logger
}
