package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"alfred/internal/config"
	"alfred/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		scopeName string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize a Google Calendar credential scope",
		Long: `Authorize one of the two Google Calendar credential scopes and persist
its token.

The assistant keeps the two credentials separate on purpose:
  readonly  broad read-only access for browsing calendars (agenda command)
  events    read-write access to events, used for all mutations and bound
            to the single calendar in GOOGLE_CALENDAR_ID

Each scope stores its own token file, so authorizing one grants nothing
to the other.

Requires GOOGLE_OAUTH_CLIENT_ID and GOOGLE_OAUTH_CLIENT_SECRET.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.Load()

			scope, ok := google.ParseScope(scopeName)
			if !ok {
				return fmt.Errorf("unknown scope %q (expected %s or %s)", scopeName, google.ScopeReadOnly, google.ScopeEvents)
			}

			if google.HasToken(scope) && !force {
				fmt.Printf("A token for scope %s already exists. Use --force to replace it.\n", scope)
				return nil
			}

			url, err := google.AuthURL(scope)
			if err != nil {
				return err
			}

			fmt.Printf("Visit this URL to authorize the %s scope:\n\n%s\n\nEnter the authorization code: ", scope, url)

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}
			code = strings.TrimSpace(code)
			if code == "" {
				return fmt.Errorf("no authorization code provided")
			}

			if err := google.SaveToken(cmd.Context(), scope, code); err != nil {
				return err
			}

			fmt.Printf("Token for scope %s saved.\n", scope)
			return nil
		},
	}

	cmd.Flags().StringVar(&scopeName, "scope", string(google.ScopeEvents), "Credential scope to authorize: readonly or events")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing token")

	return cmd
}
