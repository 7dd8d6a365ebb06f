package feature

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"alfred/internal/calendar"
	"alfred/internal/extractor"
	"alfred/internal/history"
	"alfred/internal/instrumentation"
	"alfred/internal/logging"
	"alfred/internal/router"
)

// Replies for requests that parsed but could not be acted on. These are
// clarifications for the user, not errors.
const (
	replyUnparsedRequest = "I couldn't understand your calendar request. " +
		"Try something like: 'Meeting tomorrow at 3pm' or 'Rename office hours to tutor hours'"
	replyNoDrafts       = "I couldn't parse the event details. Please try again."
	replyNothingCreated = "Sorry, I couldn't create any calendar events. Please try again."
	replyEmptyQuery     = "I couldn't understand what events you want to modify. Please be more specific."
	replyNothingChanged = "I found matching events but couldn't modify them. Please try again."
)

// Gateway is the slice of the calendar client the feature needs. It is
// satisfied by *calendar.Writer, which binds every mutation to a single
// calendar under the narrow events credential.
type Gateway interface {
	CreateEvent(draft calendar.EventDraft) (*calendar.Event, error)
	SearchEvents(query string) ([]calendar.Event, error)
	UpdateEvent(eventID string, patch calendar.EventPatch) (*calendar.Event, error)
}

// Parser turns a message plus conversation context into a calendar action.
// Satisfied by *extractor.Extractor.
type Parser interface {
	Extract(ctx context.Context, message string, entries []history.Entry) (*extractor.Request, error)
}

// Calendar converts natural-language requests into calendar mutations:
// one parse per message, then best-effort execution of the resulting
// create or modify action.
type Calendar struct {
	parser  Parser
	gateway Gateway
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

// NewCalendar creates the calendar feature. metrics may be nil.
func NewCalendar(parser Parser, gateway Gateway, metrics *instrumentation.Metrics, logger *slog.Logger) *Calendar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calendar{
		parser:  parser,
		gateway: gateway,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *Calendar) Name() string {
	return "Calendar"
}

func (c *Calendar) Capabilities() string {
	return `This feature can:
- Create calendar events from natural language descriptions
- Modify/update existing calendar events (rename, change time, etc.)
- Schedule meetings, appointments, and reminders
- Handle time-based requests (dates, times, durations)
- Add events to Google Calendar
- Search and update recurring events

Examples of what this feature handles:

Creating events:
- "Meeting tomorrow at 3pm"
- "Lunch with Sarah on Friday at noon for 2 hours"
- "Doctor appointment next Tuesday at 10am"
- "Schedule a call with John next Monday at 2:30pm"
- "Team standup every weekday at 9am"

Modifying events:
- "Rename all 'office hours' events to 'tutor hours'"
- "Change the title of office hours to tutor hours"
- "Update my team meeting to start at 3pm instead"
- "Move tomorrow's lunch to 1pm"
- "Change location of dentist appointment to downtown office"

Keywords that indicate this feature: meeting, appointment, schedule, calendar, event, book, reserve, remind (when time-based), rename, change, update, modify, move`
}

// calendarKeywords drive the deterministic routing fallback.
var calendarKeywords = []string{
	"meeting", "appointment", "schedule", "calendar", "event",
	"lunch", "dinner", "call", "tomorrow", "today", "next week",
}

func (c *Calendar) CanHandle(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range calendarKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Handle parses the message into an action and executes it. An unparseable
// request yields a clarification reply, never an error: the user rephrases,
// nothing is retried automatically.
func (c *Calendar) Handle(ctx context.Context, msg router.Message) (string, error) {
	req, err := c.parser.Extract(ctx, msg.Text, msg.History)
	if err != nil {
		c.logger.Warn("calendar request did not parse",
			logging.Feature(c.Name()),
			logging.Err(err))
		return replyUnparsedRequest, nil
	}

	switch req.Action {
	case extractor.ActionModify:
		return c.handleModification(ctx, req.SearchQuery, req.Updates)
	default:
		return c.handleCreation(ctx, req.Events)
	}
}

// handleCreation inserts each draft independently. One provider rejection
// does not sink the batch; the reply reports what actually landed.
func (c *Calendar) handleCreation(ctx context.Context, drafts []calendar.EventDraft) (string, error) {
	if len(drafts) == 0 {
		return replyNoDrafts, nil
	}

	var created []calendar.Event
	for _, draft := range drafts {
		event, err := c.gateway.CreateEvent(draft)
		c.metrics.RecordCalendarOp(ctx, "create", instrumentation.StatusFor(err))
		if err != nil {
			c.logger.Error("failed to create event",
				logging.Feature(c.Name()),
				slog.String("summary", draft.Summary),
				logging.Err(err))
			continue
		}
		created = append(created, *event)
	}

	if len(created) == 0 {
		return replyNothingCreated, nil
	}
	if len(created) == 1 {
		return formatCreated(created[0]), nil
	}
	return formatCreatedBatch(created), nil
}

// handleModification finds events matching the query on the bot-owned
// calendar and applies the patch to every match, best effort. There is no
// rollback: events updated before a failure stay updated, and the reply
// reports the count that went through.
func (c *Calendar) handleModification(ctx context.Context, query string, patch calendar.EventPatch) (string, error) {
	if query == "" {
		return replyEmptyQuery, nil
	}

	matches, err := c.gateway.SearchEvents(query)
	c.metrics.RecordCalendarOp(ctx, "search", instrumentation.StatusFor(err))
	if err != nil {
		return "", fmt.Errorf("failed to search events: %w", err)
	}
	if len(matches) == 0 {
		return fmt.Sprintf("I couldn't find any events matching '%s'.", query), nil
	}

	var modified []calendar.Event
	recurring := false
	for _, match := range matches {
		updated, err := c.gateway.UpdateEvent(match.ID, patch)
		c.metrics.RecordCalendarOp(ctx, "update", instrumentation.StatusFor(err))
		if err != nil {
			c.logger.Error("failed to update event",
				logging.Feature(c.Name()),
				slog.String("summary", match.Summary),
				logging.Err(err))
			continue
		}
		modified = append(modified, *updated)
		if updated.Recurring() {
			recurring = true
		}
	}

	if len(modified) == 0 {
		return replyNothingChanged, nil
	}
	return formatModified(modified, patch, recurring), nil
}
