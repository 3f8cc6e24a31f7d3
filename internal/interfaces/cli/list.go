package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aaronpaddy/slack-mcp-server/internal/domain/workspace"
)

func newListCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workspace resources",
	}

	cmd.AddCommand(newListChannelsCmd(deps))
	cmd.AddCommand(newListUsersCmd(deps))
	return cmd
}

func newListChannelsCmd(deps *Dependencies) *cobra.Command {
	var (
		limit           int
		includeArchived bool
	)

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List channels the bot can see",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := deps.client()
			if err != nil {
				return err
			}

			channels, err := client.ListChannels(cmd.Context(), workspace.ChannelListOptions{
				Limit:           limit,
				ExcludeArchived: !includeArchived,
			})
			if err != nil {
				return fmt.Errorf("failed to list channels: %w", err)
			}

			switch flagFormat {
			case "json":
				return printJSON(deps, channels)
			default:
				return printChannelsTable(deps, channels)
			}
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = all)")
	cmd.Flags().BoolVar(&includeArchived, "include-archived", false, "Include archived channels")

	return cmd
}

func newListUsersCmd(deps *Dependencies) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "users",
		Short: "List active workspace members",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := deps.client()
			if err != nil {
				return err
			}

			users, err := client.ListUsers(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			switch flagFormat {
			case "json":
				return printJSON(deps, users)
			default:
				return printUsersTable(deps, users)
			}
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = all)")

	return cmd
}

func printChannelsTable(deps *Dependencies, channels []workspace.Channel) error {
	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPRIVATE\tARCHIVED\tMEMBERS")
	for _, c := range channels {
		members := "-"
		if c.MemberCount != nil {
			members = fmt.Sprintf("%d", *c.MemberCount)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n",
			c.ID, c.Name, c.IsPrivate, c.IsArchived, members)
	}
	return w.Flush()
}

func printUsersTable(deps *Dependencies, users []workspace.User) error {
	w := tabwriter.NewWriter(deps.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tDISPLAY\tBOT\tADMIN")
	for _, u := range users {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%t\n",
			u.ID, u.Name, u.Label(), u.IsBot, u.IsAdmin)
	}
	return w.Flush()
}

func printJSON(deps *Dependencies, v interface{}) error {
	enc := json.NewEncoder(deps.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
