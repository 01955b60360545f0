package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List tracked users",
	RunE: func(cmd *cobra.Command, _ []string) error {
		users, err := client.Users(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load users: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), users)
		}

		out := cmd.OutOrStdout()
		if len(users) == 0 {
			fmt.Fprintln(out, "No users found")
			return nil
		}
		for _, u := range users {
			fmt.Fprintln(out, u.Name)
		}
		return nil
	},
}
