// Package cli wires the cobra command tree. Commands receive their
// collaborators through Dependencies so tests can substitute fakes and
// capture output.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ajitpratap0/mcp-sdk-go/pkg/logging"
	"github.com/spf13/cobra"

	"github.com/aaronpaddy/slack-mcp-server/internal/domain/workspace"
	"github.com/aaronpaddy/slack-mcp-server/internal/infrastructure/config"
	"github.com/aaronpaddy/slack-mcp-server/internal/infrastructure/metrics"
)

var (
	flagFormat string
	flagToken  string
)

// Dependencies carries everything the commands need. NewClient builds a
// workspace client for a resolved token; commands call it lazily so the
// --token flag can participate in token resolution.
type Dependencies struct {
	Config  config.Config
	Logger  logging.Logger
	Metrics *metrics.Metrics
	Out     io.Writer

	NewClient func(token string) workspace.Client
}

// resolveToken applies the precedence --token > environment/config.
// config.Load already folded SLACK_BOT_TOKEN into the config value.
func (d *Dependencies) resolveToken() (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if d.Config.Slack.BotToken != "" {
		return d.Config.Slack.BotToken, nil
	}
	return "", fmt.Errorf(`no Slack bot token found; provide one by either:
  1. setting the SLACK_BOT_TOKEN environment variable
  2. passing the --token flag
  3. running 'slack-mcp-server auth login' to obtain one via OAuth`)
}

func (d *Dependencies) client() (workspace.Client, error) {
	token, err := d.resolveToken()
	if err != nil {
		return nil, err
	}
	return d.NewClient(token), nil
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}

	root := &cobra.Command{
		Use:           "slack-mcp-server",
		Short:         "MCP server exposing a Slack workspace as resources and tools",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	root.PersistentFlags().StringVar(&flagToken, "token", "", "Slack bot token (overrides SLACK_BOT_TOKEN)")

	root.AddCommand(newServeCmd(deps))
	root.AddCommand(newAuthCmd(deps))
	root.AddCommand(newListCmd(deps))
	root.AddCommand(newWebCmd(deps))
	root.AddCommand(newVersionCmd())

	return root
}
