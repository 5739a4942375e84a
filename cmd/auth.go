package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/todoist-mcp/internal/config"
	"github.com/teemow/todoist-mcp/internal/credential"
	"github.com/teemow/todoist-mcp/internal/logging"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the Todoist API token stored in the OS keyring",
		Long: `Manage the Todoist API token stored in the OS keyring.

TODOIST_API_TOKEN and todoist.api_token in the config file take precedence
over the stored token.`,
	}

	cmd.AddCommand(newAuthSetTokenCmd())
	cmd.AddCommand(newAuthDeleteTokenCmd())
	cmd.AddCommand(newAuthStatusCmd())

	return cmd
}

func newAuthSetTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-token [token]",
		Short: "Store the API token in the keyring",
		Long: `Store the Todoist API token in the OS keyring.

The token is read from the first argument, or from stdin when omitted:
  echo "$TOKEN" | todoist-mcp auth set-token`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read token from stdin: %w", err)
				}
				token = line
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return errors.New("token must not be empty")
			}

			store, err := openCredentialStore()
			if err != nil {
				return err
			}
			if err := store.Set(credential.TokenKey, token); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token %s stored in keyring\n", logging.SanitizeToken(token))
			return nil
		},
	}
}

func newAuthDeleteTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-token",
		Short: "Remove the API token from the keyring",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openCredentialStore()
			if err != nil {
				return err
			}
			err = store.Delete(credential.TokenKey)
			if errors.Is(err, credential.ErrNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "No token stored")
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Token removed from keyring")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the API token would be loaded from",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if token := strings.TrimSpace(os.Getenv(config.TokenEnv)); token != "" {
				fmt.Fprintf(out, "Using %s from the environment: %s\n", config.TokenEnv, logging.SanitizeToken(token))
				return nil
			}

			store, err := openCredentialStore()
			if err != nil {
				fmt.Fprintf(out, "Keyring unavailable: %v\n", err)
				return nil
			}
			token, err := store.Get(credential.TokenKey)
			if err != nil {
				fmt.Fprintf(out, "No token configured. Set %s or run: todoist-mcp auth set-token\n", config.TokenEnv)
				return nil
			}

			fmt.Fprintf(out, "Using token from keyring: %s\n", logging.SanitizeToken(token))
			return nil
		},
	}
}
