package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aaronpaddy/slack-mcp-server/internal/infrastructure/oauth"
)

func newAuthCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication with Slack",
	}

	cmd.AddCommand(newAuthLoginCmd(deps))
	cmd.AddCommand(newAuthTestCmd(deps))

	return cmd
}

func newAuthLoginCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Obtain a bot token via the Slack OAuth flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.Config.Slack.ValidateOAuth(); err != nil {
				return fmt.Errorf("oauth is not configured: %w", err)
			}

			flow, err := oauth.NewFlow(oauth.Config{
				ClientID:     deps.Config.Slack.ClientID,
				ClientSecret: deps.Config.Slack.ClientSecret,
				RedirectURI:  deps.Config.OAuthRedirectURI(),
				ListenAddr:   fmt.Sprintf("%s:%d", deps.Config.Server.Host, deps.Config.Server.Port),
				Logger:       deps.Logger,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(deps.Out, "Open this URL in your browser to authorize:\n\n  %s\n\nWaiting for authorization...\n",
				flow.AuthorizeURL())

			token, err := flow.Run(cmd.Context())
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			_, _ = fmt.Fprintf(deps.Out, "\nAuthorization successful. Bot token:\n\n  %s\n\nExport it for future runs:\n\n  export SLACK_BOT_TOKEN=%s\n",
				token, token)
			return nil
		},
	}
}

func newAuthTestCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Verify the configured token against the Slack API",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := deps.client()
			if err != nil {
				return err
			}

			auth, err := client.AuthTest(cmd.Context())
			if err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}

			if flagFormat == "json" {
				return printJSON(deps, auth)
			}
			_, _ = fmt.Fprintf(deps.Out, "Authenticated as %s in workspace %s (team: %s, user: %s)\n",
				auth.User, auth.Team, auth.TeamID, auth.UserID)
			return nil
		},
	}
}
