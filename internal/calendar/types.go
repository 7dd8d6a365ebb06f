package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// DefaultSummary is used when the model omits an event title.
const DefaultSummary = "Untitled Event"

// EventDraft represents the input for creating a calendar event.
type EventDraft struct {
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Recurrence  string // single RRULE in text form, passed through from the model
	Reminders   *Reminders
}

// EventPatch represents a partial update of an existing event. Only non-nil
// fields are applied; nil fields leave the stored event untouched.
type EventPatch struct {
	Summary     *string
	Description *string
	Location    *string
	Start       *time.Time
	End         *time.Time
	Recurrence  *string
	Reminders   *Reminders
}

// IsEmpty reports whether the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Summary == nil &&
		p.Description == nil &&
		p.Location == nil &&
		p.Start == nil &&
		p.End == nil &&
		p.Recurrence == nil &&
		p.Reminders == nil
}

// Fields returns the names of the fields the patch sets, in a stable order.
func (p EventPatch) Fields() []string {
	var fields []string
	if p.Summary != nil {
		fields = append(fields, "summary")
	}
	if p.Description != nil {
		fields = append(fields, "description")
	}
	if p.Location != nil {
		fields = append(fields, "location")
	}
	if p.Start != nil {
		fields = append(fields, "start")
	}
	if p.End != nil {
		fields = append(fields, "end")
	}
	if p.Recurrence != nil {
		fields = append(fields, "recurrence")
	}
	if p.Reminders != nil {
		fields = append(fields, "reminders")
	}
	return fields
}

// Reminders configures event notifications. Overrides are ignored by the
// provider when UseDefault is set.
type Reminders struct {
	UseDefault bool
	Overrides  []ReminderOverride
}

// ReminderOverride is a single reminder ahead of the event start.
type ReminderOverride struct {
	Method  string // "popup" for chat-initiated reminders
	Minutes int64
}

// Event represents a provider-owned calendar event snapshot.
type Event struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Recurrence  []string
	Reminders   *Reminders
	HTMLLink    string
	Status      string
}

// Recurring reports whether the event carries recurrence rules.
func (e Event) Recurring() bool {
	return len(e.Recurrence) > 0
}

// toEvent converts a Google Calendar event to an Event.
func toEvent(event *calendar.Event) Event {
	if event == nil {
		return Event{}
	}

	e := Event{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
		Recurrence:  event.Recurrence,
		HTMLLink:    event.HtmlLink,
		Status:      event.Status,
	}

	e.Start = parseEventTime(event.Start)
	e.End = parseEventTime(event.End)

	if event.Reminders != nil {
		r := &Reminders{UseDefault: event.Reminders.UseDefault}
		for _, o := range event.Reminders.Overrides {
			r.Overrides = append(r.Overrides, ReminderOverride{
				Method:  o.Method,
				Minutes: o.Minutes,
			})
		}
		e.Reminders = r
	}

	return e
}

// parseEventTime handles both timed and all-day event boundaries.
func parseEventTime(edt *calendar.EventDateTime) time.Time {
	if edt == nil {
		return time.Time{}
	}
	if edt.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, edt.DateTime); err == nil {
			return t
		}
	}
	if edt.Date != "" {
		if t, err := time.Parse("2006-01-02", edt.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// toAPIReminders converts Reminders to the provider representation.
func toAPIReminders(r *Reminders) *calendar.EventReminders {
	if r == nil {
		// No reminders requested: fall back to the calendar's defaults.
		return &calendar.EventReminders{
			UseDefault:      true,
			ForceSendFields: []string{"UseDefault"},
		}
	}

	out := &calendar.EventReminders{
		UseDefault:      r.UseDefault,
		ForceSendFields: []string{"UseDefault"},
	}
	if !r.UseDefault {
		for _, o := range r.Overrides {
			out.Overrides = append(out.Overrides, &calendar.EventReminder{
				Method:  o.Method,
				Minutes: o.Minutes,
			})
		}
	}
	return out
}
