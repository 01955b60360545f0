package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session for later commands",
	Long: `Authenticates against the dashboard and stores the session cookie in the
session file. Needed only when the server protects its API.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()

		if loginEmail == "" {
			fmt.Fprint(out, "Email: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read email: %w", err)
			}
			loginEmail = strings.TrimSpace(line)
		}

		if loginPassword == "" {
			fmt.Fprint(out, "Password: ")
			password, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(out)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			loginPassword = string(password)
		}

		token, err := client.Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		if err := saveSession(v.GetString(keySessionFile), token); err != nil {
			return err
		}

		fmt.Fprintln(out, "Logged in")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "administrator email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when empty)")
}
