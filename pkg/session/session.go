// Package session carries the per-run conversation context: the generated
// user id the backend uses to correlate preference and itinerary state, the
// plan the user has chosen, and the change requests accumulated through the
// refine loop. Nothing here outlives the process except the pending schedule
// payload, which has its own store.
package session

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Session is the explicit request context threaded through every backend
// call. It replaces the ambient globals the browser client leaned on.
type Session struct {
	UserID string

	originalQuery     string
	selectedItinerary string
	changes           []string
}

// New creates a session with a fresh random user id. The id lives in memory
// only; a restart is a new user as far as the backend is concerned.
func New() *Session {
	return &Session{UserID: uuid.NewString()}
}

// RecordQuery remembers the first user message of the current planning
// exchange. Later refine turns keep the original query so the backend can
// relate the selection back to what was asked.
func (s *Session) RecordQuery(query string) {
	if s.originalQuery == "" {
		s.originalQuery = strings.TrimSpace(query)
	}
}

// OriginalQuery returns the query that opened the current exchange.
func (s *Session) OriginalQuery() string { return s.originalQuery }

// Choose marks an alternative as the selected plan. Any previously selected
// content is replaced; the change log is kept because refinement iterates on
// the same plan.
func (s *Session) Choose(content string) {
	s.selectedItinerary = content
}

// SelectedItinerary returns the currently chosen plan content, empty when
// nothing has been selected yet.
func (s *Session) SelectedItinerary() string { return s.selectedItinerary }

// HasSelection reports whether a plan has been chosen this exchange.
func (s *Session) HasSelection() bool { return s.selectedItinerary != "" }

// RequestChange appends a free-text change request and returns the
// synthesized revise message to send as the next chat turn.
func (s *Session) RequestChange(text string) string {
	trimmed := strings.TrimSpace(text)
	s.changes = append(s.changes, trimmed)
	return fmt.Sprintf(
		"Please revise the following itinerary based on this request: %q\n\nItinerary:\n%s",
		trimmed, s.selectedItinerary,
	)
}

// Changes returns the accumulated change requests joined for the save call.
func (s *Session) Changes() string {
	return strings.Join(s.changes, "\n")
}

// Reset clears the exchange state (selection, query, changes) while keeping
// the user id, ready for a brand new planning conversation.
func (s *Session) Reset() {
	s.originalQuery = ""
	s.selectedItinerary = ""
	s.changes = nil
}
