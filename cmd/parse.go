package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"alfred/internal/config"
	"alfred/internal/extractor"
	"alfred/internal/llm"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <message>",
		Short: "Dry-run the event extractor",
		Long: `Parse a natural-language message into event drafts and print them
without touching the calendar. Useful for checking how a phrasing will be
interpreted before sending it to the bot.

Requires GOOGLE_GEMINI_API_KEY.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Load()

			apiKey, err := config.GeminiAPIKey()
			if err != nil {
				return err
			}

			model, err := llm.NewClient(cmd.Context(), apiKey, config.GeminiModel(), nil)
			if err != nil {
				return err
			}

			parser := extractor.New(model, config.Timezone(), nil)
			message := strings.Join(args, " ")

			drafts, err := parser.ExtractEvents(cmd.Context(), message)
			if err != nil {
				return err
			}
			if len(drafts) == 0 {
				fmt.Println("No events recognized.")
				return nil
			}

			for _, draft := range drafts {
				fmt.Printf("%s\n  %s → %s\n",
					draft.Summary,
					draft.Start.Format("2006-01-02 15:04"),
					draft.End.Format("2006-01-02 15:04"))
				if draft.Recurrence != "" {
					fmt.Printf("  recurrence: %s\n", draft.Recurrence)
				}
				if draft.Location != "" {
					fmt.Printf("  location: %s\n", draft.Location)
				}
				if draft.Description != "" {
					fmt.Printf("  description: %s\n", draft.Description)
				}
				if draft.Reminders != nil && !draft.Reminders.UseDefault {
					for _, o := range draft.Reminders.Overrides {
						fmt.Printf("  reminder: %s %d min before\n", o.Method, o.Minutes)
					}
				}
			}
			return nil
		},
	}

	return cmd
}
