package calendar

import (
	"testing"
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

func TestToEvent(t *testing.T) {
	// Test with nil event
	result := toEvent(nil)
	if result.ID != "" {
		t.Errorf("Expected empty ID for nil event, got %s", result.ID)
	}

	// Test with valid event
	event := &calendar.Event{
		Id:          "test-event-id",
		Summary:     "Office Hours",
		Description: "Weekly office hours",
		Location:    "Room 1",
		HtmlLink:    "https://calendar.google.com/event?eid=abc",
		Status:      "confirmed",
		Start: &calendar.EventDateTime{
			DateTime: "2026-02-18T15:00:00-08:00",
		},
		End: &calendar.EventDateTime{
			DateTime: "2026-02-18T16:00:00-08:00",
		},
		Recurrence: []string{"RRULE:FREQ=WEEKLY;BYDAY=WE"},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "popup", Minutes: 30},
			},
		},
	}
	result = toEvent(event)

	if result.ID != "test-event-id" {
		t.Errorf("Expected ID 'test-event-id', got %s", result.ID)
	}
	if result.Summary != "Office Hours" {
		t.Errorf("Expected summary 'Office Hours', got %s", result.Summary)
	}
	if result.Location != "Room 1" {
		t.Errorf("Expected location 'Room 1', got %s", result.Location)
	}
	if result.Start.IsZero() {
		t.Error("Expected non-zero start time")
	}
	if result.End.IsZero() {
		t.Error("Expected non-zero end time")
	}
	if !result.Recurring() {
		t.Error("Expected event with RRULE to be recurring")
	}
	if result.Reminders == nil {
		t.Fatal("Expected reminders to be carried over")
	}
	if result.Reminders.UseDefault {
		t.Error("Expected UseDefault to be false")
	}
	if len(result.Reminders.Overrides) != 1 || result.Reminders.Overrides[0].Minutes != 30 {
		t.Errorf("Expected one 30-minute override, got %+v", result.Reminders.Overrides)
	}
}

func TestToEventAllDay(t *testing.T) {
	event := &calendar.Event{
		Id: "all-day",
		Start: &calendar.EventDateTime{
			Date: "2026-02-18",
		},
		End: &calendar.EventDateTime{
			Date: "2026-02-19",
		},
	}
	result := toEvent(event)

	want := time.Date(2026, 2, 18, 0, 0, 0, 0, time.UTC)
	if !result.Start.Equal(want) {
		t.Errorf("Expected all-day start %v, got %v", want, result.Start)
	}
}

func TestEventPatchIsEmpty(t *testing.T) {
	var patch EventPatch
	if !patch.IsEmpty() {
		t.Error("Expected zero-value patch to be empty")
	}

	summary := "Tutor Hours"
	patch.Summary = &summary
	if patch.IsEmpty() {
		t.Error("Expected patch with summary to be non-empty")
	}
}

func TestEventPatchFields(t *testing.T) {
	summary := "Tutor Hours"
	location := "Zoom"
	patch := EventPatch{
		Summary:  &summary,
		Location: &location,
	}

	fields := patch.Fields()
	if len(fields) != 2 {
		t.Fatalf("Expected 2 fields, got %d: %v", len(fields), fields)
	}
	if fields[0] != "summary" || fields[1] != "location" {
		t.Errorf("Expected [summary location], got %v", fields)
	}
}

func TestToAPIRemindersDefaultsWhenNil(t *testing.T) {
	out := toAPIReminders(nil)
	if out == nil {
		t.Fatal("Expected non-nil provider reminders")
	}
	if !out.UseDefault {
		t.Error("Expected default reminders when none are given")
	}
}

func TestToAPIRemindersIgnoresOverridesWithUseDefault(t *testing.T) {
	out := toAPIReminders(&Reminders{
		UseDefault: true,
		Overrides:  []ReminderOverride{{Method: "popup", Minutes: 60}},
	})
	if !out.UseDefault {
		t.Error("Expected UseDefault to be preserved")
	}
	if len(out.Overrides) != 0 {
		t.Error("Overrides must be dropped when UseDefault is set")
	}
}

func TestToAPIRemindersOverrides(t *testing.T) {
	out := toAPIReminders(&Reminders{
		Overrides: []ReminderOverride{{Method: "popup", Minutes: 60}},
	})
	if out.UseDefault {
		t.Error("Expected UseDefault to be false")
	}
	if len(out.Overrides) != 1 || out.Overrides[0].Minutes != 60 {
		t.Errorf("Expected one 60-minute override, got %+v", out.Overrides)
	}
}
