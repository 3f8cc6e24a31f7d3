package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aaronpaddy/slack-mcp-server/internal/interfaces/web"
)

func newWebCmd(deps *Dependencies) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Start the HTTP status and metrics surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The health endpoint reports token presence without requiring
			// one, so a missing token is not fatal here.
			token, _ := deps.resolveToken()
			client := deps.NewClient(token)

			if port == 0 {
				port = deps.Config.Server.Port
			}
			addr := fmt.Sprintf("%s:%d", deps.Config.Server.Host, port)

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			srv := web.NewServer(web.Options{
				Addr:           addr,
				ServiceName:    deps.Config.Server.Name,
				ServiceVersion: deps.Config.Server.Version,
				TokenPresent:   token != "",
				Client:         client,
				Metrics:        deps.Metrics,
				Logger:         deps.Logger,
			})

			_, _ = fmt.Fprintf(deps.Out, "Starting web server on http://%s\n", addr)
			return srv.Serve(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (defaults to the configured server port)")

	return cmd
}
