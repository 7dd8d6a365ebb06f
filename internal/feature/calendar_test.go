package feature

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfred/internal/calendar"
	"alfred/internal/extractor"
	"alfred/internal/history"
	"alfred/internal/router"
)

type fakeParser struct {
	req *extractor.Request
	err error
}

func (f *fakeParser) Extract(_ context.Context, _ string, _ []history.Entry) (*extractor.Request, error) {
	return f.req, f.err
}

// fakeGateway records mutations and can be told to fail specific events.
type fakeGateway struct {
	searchResults []calendar.Event
	searchErr     error
	failSummaries map[string]bool // CreateEvent fails for these summaries
	failIDs       map[string]bool // UpdateEvent fails for these IDs

	created []calendar.EventDraft
	updated map[string]calendar.EventPatch
	nextID  int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		failSummaries: make(map[string]bool),
		failIDs:       make(map[string]bool),
		updated:       make(map[string]calendar.EventPatch),
	}
}

func (f *fakeGateway) CreateEvent(draft calendar.EventDraft) (*calendar.Event, error) {
	if f.failSummaries[draft.Summary] {
		return nil, errors.New("insert rejected")
	}
	f.created = append(f.created, draft)
	f.nextID++

	event := calendar.Event{
		ID:          fmt.Sprintf("evt-%d", f.nextID),
		Summary:     draft.Summary,
		Description: draft.Description,
		Location:    draft.Location,
		Start:       draft.Start,
		End:         draft.End,
		Reminders:   draft.Reminders,
	}
	if draft.Recurrence != "" {
		event.Recurrence = []string{draft.Recurrence}
	}
	return &event, nil
}

func (f *fakeGateway) SearchEvents(_ string) ([]calendar.Event, error) {
	return f.searchResults, f.searchErr
}

func (f *fakeGateway) UpdateEvent(eventID string, patch calendar.EventPatch) (*calendar.Event, error) {
	if f.failIDs[eventID] {
		return nil, errors.New("update rejected")
	}
	f.updated[eventID] = patch

	for _, event := range f.searchResults {
		if event.ID != eventID {
			continue
		}
		if patch.Summary != nil {
			event.Summary = *patch.Summary
		}
		if patch.Location != nil {
			event.Location = *patch.Location
		}
		if patch.Start != nil {
			event.Start = *patch.Start
		}
		if patch.End != nil {
			event.End = *patch.End
		}
		return &event, nil
	}
	return nil, errors.New("event not found")
}

func draftAt(summary string, start time.Time) calendar.EventDraft {
	return calendar.EventDraft{
		Summary: summary,
		Start:   start,
		End:     start.Add(time.Hour),
	}
}

func strptr(s string) *string { return &s }

func TestCalendarHandleCreateSingle(t *testing.T) {
	start := time.Date(2026, 2, 18, 15, 0, 0, 0, time.UTC)
	parser := &fakeParser{req: &extractor.Request{
		Action: extractor.ActionCreate,
		Events: []calendar.EventDraft{{
			Summary:  "Meeting",
			Start:    start,
			End:      start.Add(time.Hour),
			Location: "Room 4",
		}},
	}}
	gateway := newFakeGateway()

	reply, err := NewCalendar(parser, gateway, nil, nil).Handle(context.Background(), router.Message{Text: "meeting tomorrow at 3pm"})
	require.NoError(t, err)
	require.Len(t, gateway.created, 1)

	assert.Contains(t, reply, "✓ **Meeting**")
	assert.Contains(t, reply, "📅 Wed, Feb 18 at 3:00 PM → 4:00 PM")
	assert.Contains(t, reply, "📍 Location: Room 4")
	assert.NotContains(t, reply, "🔁")
}

func TestCalendarHandleCreateRecurring(t *testing.T) {
	start := time.Date(2026, 2, 18, 9, 0, 0, 0, time.UTC)
	parser := &fakeParser{req: &extractor.Request{
		Action: extractor.ActionCreate,
		Events: []calendar.EventDraft{{
			Summary:    "Standup",
			Start:      start,
			End:        start.Add(30 * time.Minute),
			Recurrence: "RRULE:FREQ=WEEKLY;BYDAY=WE",
		}},
	}}
	gateway := newFakeGateway()

	reply, err := NewCalendar(parser, gateway, nil, nil).Handle(context.Background(), router.Message{Text: "weekly standup"})
	require.NoError(t, err)
	assert.Contains(t, reply, "🔁 Recurring")
}

func TestCalendarHandleCreateBatchPartialFailure(t *testing.T) {
	start := time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC)
	parser := &fakeParser{req: &extractor.Request{
		Action: extractor.ActionCreate,
		Events: []calendar.EventDraft{
			draftAt("One", start),
			draftAt("Two", start.Add(2*time.Hour)),
			draftAt("Three", start.Add(4*time.Hour)),
		},
	}}
	gateway := newFakeGateway()
	gateway.failSummaries["Two"] = true

	reply, err := NewCalendar(parser, gateway, nil, nil).Handle(context.Background(), router.Message{Text: "three things"})
	require.NoError(t, err)
	require.Len(t, gateway.created, 2)

	assert.Contains(t, reply, "✓ Created 2 events:")
	assert.Contains(t, reply, "**One**")
	assert.Contains(t, reply, "**Three**")
	assert.NotContains(t, reply, "**Two**")
}

func TestCalendarHandleCreateAllFail(t *testing.T) {
	start := time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC)
	parser := &fakeParser{req: &extractor.Request{
		Action: extractor.ActionCreate,
		Events: []calendar.EventDraft{draftAt("Doomed", start)},
	}}
	gateway := newFakeGateway()
	gateway.failSummaries["Doomed"] = true

	reply, err := NewCalendar(parser, gateway, nil, nil).Handle(context.Background(), router.Message{Text: "doomed"})
	require.NoError(t, err)
	assert.Equal(t, replyNothingCreated, reply)
}

func TestCalendarHandleCreateNoDrafts(t *testing.T) {
	parser := &fakeParser{req: &extractor.Request{Action: extractor.ActionCreate}}

	reply, err := NewCalendar(parser, newFakeGateway(), nil, nil).Handle(context.Background(), router.Message{Text: "uh"})
	require.NoError(t, err)
	assert.Equal(t, replyNoDrafts, reply)
}

func TestCalendarHandleParseFailure(t *testing.T) {
	parser := &fakeParser{err: errors.New("model returned prose")}
	gateway := newFakeGateway()

	reply, err := NewCalendar(parser, gateway, nil, nil).Handle(context.Background(), router.Message{Text: "???"})
	require.NoError(t, err)
	assert.Equal(t, replyUnparsedRequest, reply)
	assert.Empty(t, gateway.created)
}

func TestCalendarHandleModifyRename(t *testing.T) {
	start := time.Date(2026, 2, 18, 14, 0, 0, 0, time.UTC)
	parser := &fakeParser{req: &extractor.Request{
		Action:      extractor.ActionModify,
		SearchQuery: "office hours",
		Updates:     calendar.EventPatch{Summary: strptr("Tutor Hours")},
	}}
	gateway := newFakeGateway()
	gateway.searchResults = []calendar.Event{
		{ID: "a", Summary: "Office Hours", Start: start, End: start.Add(time.Hour)},
		{ID: "b", Summary: "Office Hours", Start: start.AddDate(0, 0, 7), End: start.AddDate(0, 0, 7).Add(time.Hour), Recurrence: []string{"RRULE:FREQ=WEEKLY"}},
	}

	reply, err := NewCalendar(parser, gateway, nil, nil).Handle(context.Background(), router.Message{Text: "rename office hours to tutor hours"})
	require.NoError(t, err)
	require.Len(t, gateway.updated, 2)

	assert.Contains(t, reply, "✓ Modified 2 events")
	assert.Contains(t, reply, "🔁 Recurring")
	assert.Contains(t, reply, "📝 Title: **Tutor Hours**")
}

func TestCalendarHandleModifySingleMatch(t *testing.T) {
	start := time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)
	parser := &fakeParser{req: &extractor.Request{
		Action:      extractor.ActionModify,
		SearchQuery: "lunch",
		Updates:     calendar.EventPatch{Location: strptr("Zoom")},
	}}
	gateway := newFakeGateway()
	gateway.searchResults = []calendar.Event{
		{ID: "a", Summary: "Lunch", Start: start, End: start.Add(time.Hour)},
	}

	reply, err := NewCalendar(parser, gateway, nil, nil).Handle(context.Background(), router.Message{Text: "move lunch to zoom"})
	require.NoError(t, err)
	assert.Contains(t, reply, "✓ Modified **Lunch**")
	assert.Contains(t, reply, "📍 Location: Zoom")
}

func TestCalendarHandleModifyNoMatches(t *testing.T) {
	parser := &fakeParser{req: &extractor.Request{
		Action:      extractor.ActionModify,
		SearchQuery: "dentist",
		Updates:     calendar.EventPatch{Summary: strptr("Dentist (moved)")},
	}}

	reply, err := NewCalendar(parser, newFakeGateway(), nil, nil).Handle(context.Background(), router.Message{Text: "move dentist"})
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find any events matching 'dentist'.", reply)
}

func TestCalendarHandleModifyEmptyQuery(t *testing.T) {
	parser := &fakeParser{req: &extractor.Request{
		Action:  extractor.ActionModify,
		Updates: calendar.EventPatch{Summary: strptr("New")},
	}}

	reply, err := NewCalendar(parser, newFakeGateway(), nil, nil).Handle(context.Background(), router.Message{Text: "rename it"})
	require.NoError(t, err)
	assert.Equal(t, replyEmptyQuery, reply)
}

func TestCalendarHandleModifySearchError(t *testing.T) {
	parser := &fakeParser{req: &extractor.Request{
		Action:      extractor.ActionModify,
		SearchQuery: "meeting",
		Updates:     calendar.EventPatch{Summary: strptr("New")},
	}}
	gateway := newFakeGateway()
	gateway.searchErr = errors.New("quota exceeded")

	reply, err := NewCalendar(parser, gateway, nil, nil).Handle(context.Background(), router.Message{Text: "rename meeting"})
	assert.Error(t, err)
	assert.Empty(t, reply)
}

func TestCalendarHandleModifyPartialFailure(t *testing.T) {
	start := time.Date(2026, 2, 18, 14, 0, 0, 0, time.UTC)
	parser := &fakeParser{req: &extractor.Request{
		Action:      extractor.ActionModify,
		SearchQuery: "sync",
		Updates:     calendar.EventPatch{Summary: strptr("Weekly Sync")},
	}}
	gateway := newFakeGateway()
	gateway.searchResults = []calendar.Event{
		{ID: "a", Summary: "Sync", Start: start, End: start.Add(time.Hour)},
		{ID: "b", Summary: "Sync", Start: start.AddDate(0, 0, 1), End: start.AddDate(0, 0, 1).Add(time.Hour)},
	}
	gateway.failIDs["b"] = true

	// No rollback: the first update stays applied and the reply counts it.
	reply, err := NewCalendar(parser, gateway, nil, nil).Handle(context.Background(), router.Message{Text: "rename sync"})
	require.NoError(t, err)
	require.Len(t, gateway.updated, 1)
	assert.Contains(t, reply, "✓ Modified **Weekly Sync**")
}

func TestCalendarCanHandle(t *testing.T) {
	c := NewCalendar(nil, nil, nil, nil)

	assert.True(t, c.CanHandle("Schedule a MEETING tomorrow"))
	assert.True(t, c.CanHandle("lunch with sarah"))
	assert.False(t, c.CanHandle("how are you doing?"))
	assert.False(t, c.CanHandle(""))
}

func TestFormatSpanCrossDay(t *testing.T) {
	start := time.Date(2026, 2, 18, 23, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 19, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, "Wed, Feb 18 at 11:00 PM → Thu, Feb 19 at 1:00 AM", formatSpan(start, end))
}

func TestFormatCreatedReminders(t *testing.T) {
	start := time.Date(2026, 2, 18, 10, 0, 0, 0, time.UTC)
	event := calendar.Event{
		Summary: "Call",
		Start:   start,
		End:     start.Add(time.Hour),
		Reminders: &calendar.Reminders{
			Overrides: []calendar.ReminderOverride{
				{Method: "popup", Minutes: 60},
				{Method: "popup", Minutes: 15},
			},
		},
	}

	assert.Contains(t, formatCreated(event), "🔔 Reminders: 60min, 15min")
}
