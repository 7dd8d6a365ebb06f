package google

import calendar "google.golang.org/api/calendar/v3"

// Scope identifies one of the two independent credential scopes the
// assistant maintains. They are persisted as separate token files so that
// write capability is physically confined to the bot-owned calendar even
// though read access may span many calendars.
type Scope string

const (
	// ScopeReadOnly grants broad read-only access for browsing any
	// calendar the authorizing account can see. Clients built from this
	// credential must never issue mutations.
	ScopeReadOnly Scope = "readonly"

	// ScopeEvents grants read-write access to events only. The assistant
	// pairs it with a single configured calendar ID, which bounds the
	// blast radius of a misbehaving mutation path.
	ScopeEvents Scope = "events"
)

// URL returns the Google OAuth scope URL for this credential scope.
func (s Scope) URL() string {
	switch s {
	case ScopeEvents:
		return calendar.CalendarEventsScope
	default:
		return calendar.CalendarReadonlyScope
	}
}

// ParseScope maps a user-supplied scope name to a Scope.
func ParseScope(name string) (Scope, bool) {
	switch Scope(name) {
	case ScopeReadOnly, ScopeEvents:
		return Scope(name), true
	}
	return "", false
}
