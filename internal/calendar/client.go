package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"alfred/internal/google"
)

// MaxSearchResults caps the result set of free-text searches.
const MaxSearchResults = 100

// Reader wraps the Google Calendar service with the broad read-only
// credential. It can browse any calendar the authorizing account sees and
// deliberately exposes no write methods: mutations are only reachable
// through a Writer, which is built from the separate events credential.
type Reader struct {
	svc *calendar.Service
}

// NewReader creates a Reader from the persisted read-only credential.
func NewReader(ctx context.Context) (*Reader, error) {
	client, err := google.HTTPClient(ctx, google.ScopeReadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get read-only credential: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Reader{svc: svc}, nil
}

// SearchEvents searches a calendar by free text across title, description
// and location. timeMin defaults to now; a zero timeMax leaves the window
// open-ended. Results are expanded single events ordered by start time.
func (r *Reader) SearchEvents(calendarID, query string, timeMin, timeMax time.Time) ([]Event, error) {
	return searchEvents(r.svc, calendarID, query, timeMin, timeMax)
}

// ListUpcoming lists the next n events of a calendar starting from now.
func (r *Reader) ListUpcoming(calendarID string, n int64) ([]Event, error) {
	if n <= 0 || n > MaxSearchResults {
		n = MaxSearchResults
	}

	result, err := r.svc.Events.List(calendarID).
		TimeMin(time.Now().Format(time.RFC3339)).
		MaxResults(n).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var events []Event
	for _, item := range result.Items {
		events = append(events, toEvent(item))
	}
	return events, nil
}

// GetEvent retrieves a specific event by ID.
func (r *Reader) GetEvent(calendarID, eventID string) (*Event, error) {
	item, err := r.svc.Events.Get(calendarID, eventID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	event := toEvent(item)
	return &event, nil
}

// Writer wraps the Google Calendar service with the narrow events
// credential, bound to exactly one calendar at construction. All mutations
// the assistant ever issues go through this type.
type Writer struct {
	svc        *calendar.Service
	calendarID string
	timeZone   string
}

// NewWriter creates a Writer for the given calendar from the persisted
// events credential. timeZone is the IANA zone applied to event timestamps.
func NewWriter(ctx context.Context, calendarID, timeZone string) (*Writer, error) {
	client, err := google.HTTPClient(ctx, google.ScopeEvents)
	if err != nil {
		return nil, fmt.Errorf("failed to get events credential: %w", err)
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	if timeZone == "" {
		timeZone = "UTC"
	}

	return &Writer{
		svc:        svc,
		calendarID: calendarID,
		timeZone:   timeZone,
	}, nil
}

// CalendarID returns the calendar this writer is bound to.
func (w *Writer) CalendarID() string {
	return w.calendarID
}

// CreateEvent creates a new calendar event from a draft. Drafts without
// reminders request the calendar's default reminders.
func (w *Writer) CreateEvent(draft EventDraft) (*Event, error) {
	event := &calendar.Event{
		Summary:     draft.Summary,
		Description: draft.Description,
		Location:    draft.Location,
		Start: &calendar.EventDateTime{
			DateTime: draft.Start.Format(time.RFC3339),
			TimeZone: w.timeZone,
		},
		End: &calendar.EventDateTime{
			DateTime: draft.End.Format(time.RFC3339),
			TimeZone: w.timeZone,
		},
		Reminders: toAPIReminders(draft.Reminders),
	}

	// The provider expects recurrence as a list of RRULE strings.
	if draft.Recurrence != "" {
		event.Recurrence = []string{draft.Recurrence}
	}

	created, err := w.svc.Events.Insert(w.calendarID, event).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	result := toEvent(created)
	return &result, nil
}

// SearchEvents searches the bot-owned calendar by free text, restricted to
// events starting at or after now. The modify path uses this instead of the
// Reader so mutations never involve the broad-read credential.
func (w *Writer) SearchEvents(query string) ([]Event, error) {
	return searchEvents(w.svc, w.calendarID, query, time.Now(), time.Time{})
}

// UpdateEvent applies a patch to an existing event via read-modify-write:
// fetch the current event, overlay only the set patch fields, write back.
// Concurrent external modification between read and write is not detected
// (last write wins).
func (w *Writer) UpdateEvent(eventID string, patch EventPatch) (*Event, error) {
	existing, err := w.svc.Events.Get(w.calendarID, eventID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get existing event: %w", err)
	}

	if patch.Summary != nil {
		existing.Summary = *patch.Summary
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Location != nil {
		existing.Location = *patch.Location
	}
	if patch.Start != nil {
		existing.Start = &calendar.EventDateTime{
			DateTime: patch.Start.Format(time.RFC3339),
			TimeZone: w.timeZone,
		}
	}
	if patch.End != nil {
		existing.End = &calendar.EventDateTime{
			DateTime: patch.End.Format(time.RFC3339),
			TimeZone: w.timeZone,
		}
	}
	if patch.Recurrence != nil {
		existing.Recurrence = []string{*patch.Recurrence}
	}
	if patch.Reminders != nil {
		existing.Reminders = toAPIReminders(patch.Reminders)
	}

	updated, err := w.svc.Events.Update(w.calendarID, eventID, existing).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	result := toEvent(updated)
	return &result, nil
}

// searchEvents is the shared free-text search used by both client types.
func searchEvents(svc *calendar.Service, calendarID, query string, timeMin, timeMax time.Time) ([]Event, error) {
	if timeMin.IsZero() {
		timeMin = time.Now()
	}

	call := svc.Events.List(calendarID).
		Q(query).
		TimeMin(timeMin.Format(time.RFC3339)).
		MaxResults(MaxSearchResults).
		SingleEvents(true).
		OrderBy("startTime")

	if !timeMax.IsZero() {
		call = call.TimeMax(timeMax.Format(time.RFC3339))
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}

	var events []Event
	for _, item := range result.Items {
		events = append(events, toEvent(item))
	}
	return events, nil
}
