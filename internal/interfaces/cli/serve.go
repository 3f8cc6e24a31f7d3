package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ajitpratap0/mcp-sdk-go/pkg/logging"
	"github.com/ajitpratap0/mcp-sdk-go/pkg/transport"
	"github.com/spf13/cobra"

	"github.com/aaronpaddy/slack-mcp-server/internal/interfaces/mcp"
)

func newServeCmd(deps *Dependencies) *cobra.Command {
	var transportName string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long:  "Start the Slack MCP server. By default serves over stdio for use with Claude Code and other MCP clients.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := deps.client()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			// Verify the token before accepting protocol traffic so a bad
			// credential fails loudly at startup instead of on first use.
			auth, err := client.AuthTest(ctx)
			if err != nil {
				return fmt.Errorf("slack authentication failed: %w", err)
			}
			deps.Logger.Info("authenticated with slack",
				logging.String("team", auth.Team),
				logging.String("user", auth.User),
				logging.String("team_id", auth.TeamID))

			var t transport.Transport
			switch transportName {
			case "http":
				endpoint := fmt.Sprintf("http://0.0.0.0:%d/mcp", port)
				t, err = mcp.NewHTTPTransport(endpoint)
			default: // stdio
				t, err = mcp.NewStdioTransport()
			}
			if err != nil {
				return fmt.Errorf("creating transport: %w", err)
			}

			srv := mcp.NewServer(t,
				mcp.NewResourceHandler(client, deps.Logger),
				mcp.NewToolHandler(client, deps.Logger),
				mcp.Options{
					Name:        deps.Config.Server.Name,
					Version:     deps.Config.Server.Version,
					Description: "Slack workspace adapter for the Model Context Protocol",
					Logger:      deps.Logger,
					Metrics:     deps.Metrics,
				})

			// Startup banners go to stderr: on stdio the protocol owns stdout.
			_, _ = fmt.Fprintf(os.Stderr, "Starting %s v%s MCP server (%s)...\n",
				srv.Name(), srv.Version(), transportName)

			if err := srv.Serve(ctx); err != nil {
				if ctx.Err() != nil {
					_, _ = fmt.Fprintln(os.Stderr, "MCP server stopped.")
					return nil
				}
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&transportName, "transport", "stdio", "Transport: stdio or http")
	cmd.Flags().IntVar(&port, "port", 8080, "HTTP port (when transport=http)")

	return cmd
}
