package feature

import (
	"fmt"
	"strings"
	"time"

	"alfred/internal/calendar"
)

// Layouts for user-facing timestamps: "Mon, Feb 17 at 3:00 PM".
const (
	dayTimeLayout = "Mon, Jan 02 at 3:04 PM"
	timeLayout    = "3:04 PM"
)

// formatSpan renders an event's time range, repeating the date only when
// the event crosses midnight.
func formatSpan(start, end time.Time) string {
	if sameDay(start, end) {
		return start.Format(dayTimeLayout) + " → " + end.Format(timeLayout)
	}
	return start.Format(dayTimeLayout) + " → " + end.Format(dayTimeLayout)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// formatCreated renders the confirmation for a single created event.
func formatCreated(event calendar.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ **%s**\n", event.Summary)
	fmt.Fprintf(&b, "📅 %s", formatSpan(event.Start, event.End))

	if event.Recurring() {
		b.WriteString("\n🔁 Recurring")
	}
	if event.Description != "" {
		fmt.Fprintf(&b, "\n📝 Description: %s", event.Description)
	}
	if event.Location != "" {
		fmt.Fprintf(&b, "\n📍 Location: %s", event.Location)
	}
	if event.Reminders != nil && !event.Reminders.UseDefault && len(event.Reminders.Overrides) > 0 {
		var times []string
		for _, o := range event.Reminders.Overrides {
			times = append(times, fmt.Sprintf("%dmin", o.Minutes))
		}
		fmt.Fprintf(&b, "\n🔔 Reminders: %s", strings.Join(times, ", "))
	}
	return b.String()
}

// formatCreatedBatch renders the confirmation for several created events.
func formatCreatedBatch(events []calendar.Event) string {
	var details []string
	for _, event := range events {
		var b strings.Builder
		fmt.Fprintf(&b, "• **%s**\n  📅 %s", event.Summary, formatSpan(event.Start, event.End))
		if event.Recurring() {
			b.WriteString("\n  🔁 Recurring")
		}
		if event.Location != "" {
			fmt.Fprintf(&b, "\n  📍 %s", event.Location)
		}
		details = append(details, b.String())
	}
	return fmt.Sprintf("✓ Created %d events:\n\n%s", len(events), strings.Join(details, "\n\n"))
}

// formatModified renders the confirmation for a modification, naming the
// event (or the count when several matched) and listing only the fields
// the patch changed.
func formatModified(modified []calendar.Event, patch calendar.EventPatch, recurring bool) string {
	var b strings.Builder
	if len(modified) == 1 {
		fmt.Fprintf(&b, "✓ Modified **%s**", modified[0].Summary)
	} else {
		fmt.Fprintf(&b, "✓ Modified %d events", len(modified))
	}
	if recurring {
		b.WriteString("\n🔁 Recurring")
	}

	for _, line := range patchLines(patch) {
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

// patchLines describes the changed fields, one line per field, in the
// patch's stable field order.
func patchLines(patch calendar.EventPatch) []string {
	var lines []string
	if patch.Summary != nil {
		lines = append(lines, fmt.Sprintf("📝 Title: **%s**", *patch.Summary))
	}
	if patch.Description != nil {
		lines = append(lines, fmt.Sprintf("📝 Description: %s", *patch.Description))
	}
	if patch.Location != nil {
		lines = append(lines, fmt.Sprintf("📍 Location: %s", *patch.Location))
	}
	if patch.Start != nil {
		lines = append(lines, fmt.Sprintf("📅 Starts: %s", patch.Start.Format(dayTimeLayout)))
	}
	if patch.End != nil {
		lines = append(lines, fmt.Sprintf("📅 Ends: %s", patch.End.Format(dayTimeLayout)))
	}
	if patch.Recurrence != nil {
		lines = append(lines, "🔁 Recurrence updated")
	}
	if patch.Reminders != nil {
		if patch.Reminders.UseDefault {
			lines = append(lines, "🔔 Reminders: calendar default")
		} else if len(patch.Reminders.Overrides) > 0 {
			lines = append(lines, fmt.Sprintf("🔔 Reminder: %d min before", patch.Reminders.Overrides[0].Minutes))
		}
	}
	return lines
}
