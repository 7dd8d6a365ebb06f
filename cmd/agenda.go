package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"alfred/internal/calendar"
	"alfred/internal/config"
)

func newAgendaCmd() *cobra.Command {
	var (
		calendarID string
		count      int64
	)

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "List upcoming calendar events",
		Long: `List the next events of a calendar using the read-only credential.

This command never mutates anything; it works with any calendar the
authorizing account can see (run 'alfred auth --scope readonly' first).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			config.Load()

			if calendarID == "" {
				calendarID = config.CalendarID()
			}

			reader, err := calendar.NewReader(cmd.Context())
			if err != nil {
				return err
			}

			events, err := reader.ListUpcoming(calendarID, count)
			if err != nil {
				return err
			}

			if len(events) == 0 {
				fmt.Println("No upcoming events.")
				return nil
			}

			for _, event := range events {
				line := fmt.Sprintf("%s  %s", event.Start.Format("Mon, Jan 02 3:04 PM"), event.Summary)
				if event.Recurring() {
					line += " (recurring)"
				}
				if event.Location != "" {
					line += "  @ " + event.Location
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&calendarID, "calendar", "", "Calendar ID to list. Default: GOOGLE_CALENDAR_ID or primary")
	cmd.Flags().Int64Var(&count, "count", 10, "Maximum number of events to list")

	return cmd
}
