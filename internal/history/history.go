package history

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultLimit is how many entries a ring keeps per sender.
const DefaultLimit = 10

// Role identifies who wrote an entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one turn of recent conversation.
type Entry struct {
	At   time.Time
	Role Role
	Text string
}

// Store keeps a bounded recent-conversation window per sender. It is safe
// for concurrent use by multiple transport goroutines.
type Store struct {
	mu    sync.Mutex
	limit int
	rings map[string][]Entry
}

// NewStore creates a store keeping up to limit entries per sender.
func NewStore(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		limit: limit,
		rings: make(map[string][]Entry),
	}
}

// Append records one turn for a sender, evicting the oldest entry when the
// window is full.
func (s *Store) Append(sender string, role Role, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ring := append(s.rings[sender], Entry{At: time.Now(), Role: role, Text: text})
	if len(ring) > s.limit {
		ring = ring[len(ring)-s.limit:]
	}
	s.rings[sender] = ring
}

// Recent returns the sender's window, oldest first. The returned slice is
// a copy; callers may not mutate store state through it.
func (s *Store) Recent(sender string) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	ring := s.rings[sender]
	if len(ring) == 0 {
		return nil
	}
	out := make([]Entry, len(ring))
	copy(out, ring)
	return out
}

// Clear drops the sender's window.
func (s *Store) Clear(sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rings, sender)
}

// Format renders entries for embedding in a model prompt. Empty history
// renders as an empty string so prompts stay clean for first contact.
func Format(entries []Entry, assistantName string) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\nRecent conversation:\n")
	for _, e := range entries {
		label := "User"
		if e.Role == RoleAssistant {
			label = assistantName
		}
		fmt.Fprintf(&b, "%s: %s\n", label, e.Text)
	}
	b.WriteString("\n")
	return b.String()
}
