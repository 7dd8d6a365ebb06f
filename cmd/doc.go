// Package cmd implements the command-line interface for alfred.
//
// This package provides the following commands:
//   - serve: Start the webhook server that receives chat messages
//   - bot: Run the Telegram bot with long polling
//   - auth: Authorize one of the two Google Calendar credential scopes
//   - agenda: List upcoming events using the read-only credential
//   - parse: Dry-run the event extractor without touching the calendar
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
