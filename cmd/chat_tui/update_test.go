package chat_tui

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/api"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/config"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/session"
)

func newTestModel(t *testing.T, backendURL string) Model {
	t.Helper()
	cfg := config.Default()
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := api.New(cfg.BackendURL, 2*time.Second, time.Minute, logger)
	m := New(cfg, client, session.New(), session.NewPendingStore(t.TempDir()), logger)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func twoAlternatives() api.ChatResult {
	return api.ChatResult{Alternatives: []api.Alternative{
		{Content: "Day 1: Temples first\nDay 2: Food", Type: "itinerary"},
		{Content: "Day 1: Food first\nDay 2: Temples", Type: "itinerary"},
	}}
}

func lastMessage(t *testing.T, m Model) message {
	t.Helper()
	if len(m.messages) == 0 {
		t.Fatalf("expected at least one message")
	}
	return m.messages[len(m.messages)-1]
}

func TestAlternativesRenderOnePerOption(t *testing.T) {
	m := newTestModel(t, "")

	updated, _ := m.Update(chatDoneMsg{result: twoAlternatives()})
	mm := updated.(Model)

	if mm.phase != phaseAwaitingSelection {
		t.Fatalf("expected awaiting-selection phase, got %s", mm.phase)
	}
	if len(mm.alternatives) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(mm.alternatives))
	}
	view := mm.View()
	if !strings.Contains(view, "Option 1") || !strings.Contains(view, "Option 2") {
		t.Fatalf("expected one card per alternative in the view")
	}
}

func TestPickLocksImmediately(t *testing.T) {
	m := newTestModel(t, "")
	updated, _ := m.Update(chatDoneMsg{result: twoAlternatives()})
	mm := updated.(Model)

	updated, cmd := mm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	mm = updated.(Model)
	if !mm.selecting {
		t.Fatalf("expected selection lock after picking")
	}
	if cmd == nil {
		t.Fatalf("expected a selection request to be issued")
	}

	// A second keypress while locked must not issue another request.
	_, cmd = mm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	if cmd != nil {
		t.Fatalf("expected no duplicate submission while locked")
	}
}

func TestSelectionCollapsesSiblings(t *testing.T) {
	m := newTestModel(t, "")
	updated, _ := m.Update(chatDoneMsg{result: twoAlternatives()})
	mm := updated.(Model)

	updated, _ = mm.Update(selectDoneMsg{index: 1})
	mm = updated.(Model)

	if len(mm.alternatives) != 1 {
		t.Fatalf("expected exactly one visible alternative after selection, got %d", len(mm.alternatives))
	}
	if mm.phase != phasePlanChosen {
		t.Fatalf("expected plan-chosen phase, got %s", mm.phase)
	}
	if got := mm.sess.SelectedItinerary(); !strings.Contains(got, "Food first") {
		t.Fatalf("expected the picked content selected, got %q", got)
	}
	view := mm.View()
	if strings.Count(view, "Option ") != 1 {
		t.Fatalf("expected a single option card after selection")
	}
}

func TestFailedSelectionKeepsAlternatives(t *testing.T) {
	m := newTestModel(t, "")
	updated, _ := m.Update(chatDoneMsg{result: twoAlternatives()})
	mm := updated.(Model)
	mm.selecting = true

	updated, _ = mm.Update(selectDoneMsg{index: 0, err: errors.New("backend hiccup")})
	mm = updated.(Model)

	if mm.selecting {
		t.Fatalf("expected the selection lock released on failure")
	}
	if len(mm.alternatives) != 2 {
		t.Fatalf("expected both alternatives still selectable, got %d", len(mm.alternatives))
	}
	if mm.phase != phaseAwaitingSelection {
		t.Fatalf("expected to remain awaiting selection, got %s", mm.phase)
	}
}

func TestRateLimitGetsCooldownAndDistinctMessage(t *testing.T) {
	m := newTestModel(t, "")
	m.phase = phaseAwaitingResponse
	m.inflight = true

	updated, _ := m.Update(chatDoneMsg{err: api.ErrRateLimited})
	mm := updated.(Model)

	if !mm.inCooldown() {
		t.Fatalf("expected the cooldown lockout after a 429")
	}
	if !mm.rateLimited {
		t.Fatalf("expected the rate-limited flag")
	}
	last := lastMessage(t, mm)
	if last.text != rateLimitNotice {
		t.Fatalf("expected the rate-limit message, got %q", last.text)
	}
	if strings.Contains(last.text, "Something went wrong") {
		t.Fatalf("rate limit must never surface the generic error message")
	}

	// Input stays blocked for the window.
	mm.input.SetValue("hello again")
	updated, _ = mm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm = updated.(Model)
	if mm.inflight || mm.phase == phaseAwaitingResponse {
		t.Fatalf("expected submission blocked during cooldown")
	}
}

func TestGenericErrorHasNoCooldown(t *testing.T) {
	m := newTestModel(t, "")
	m.phase = phaseAwaitingResponse
	m.inflight = true

	updated, _ := m.Update(chatDoneMsg{err: errors.New("connection refused")})
	mm := updated.(Model)

	if mm.inCooldown() {
		t.Fatalf("generic failures must not trigger the cooldown")
	}
	last := lastMessage(t, mm)
	if !last.isErr || !strings.Contains(last.text, "Something went wrong") {
		t.Fatalf("expected an inline error message, got %+v", last)
	}
	if mm.phase != phaseIdle {
		t.Fatalf("expected idle after a failed turn, got %s", mm.phase)
	}
}

func TestEnterSendsChatTurn(t *testing.T) {
	m := newTestModel(t, "")
	m.input.SetValue("3 days in Kyoto")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm := updated.(Model)

	if mm.phase != phaseAwaitingResponse || !mm.inflight {
		t.Fatalf("expected an in-flight chat turn, phase=%s inflight=%v", mm.phase, mm.inflight)
	}
	if cmd == nil {
		t.Fatalf("expected a chat request command")
	}
	last := lastMessage(t, mm)
	if last.author != authorUser || last.text != "3 days in Kyoto" {
		t.Fatalf("expected the user message appended, got %+v", last)
	}
	if mm.sess.OriginalQuery() != "3 days in Kyoto" {
		t.Fatalf("expected the original query recorded")
	}
}

func TestRefineSynthesizesReviseMessage(t *testing.T) {
	m := newTestModel(t, "")
	m.sess.RecordQuery("3 days in Kyoto")
	m.sess.Choose("Day 1: Temples")
	m.phase = phasePlanChosen
	m.input.SetValue("add a tea ceremony")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm := updated.(Model)

	if mm.phase != phaseAwaitingResponse {
		t.Fatalf("expected the refine loop back to awaiting-response, got %s", mm.phase)
	}
	if cmd == nil {
		t.Fatalf("expected a revise request command")
	}
	if !strings.Contains(mm.sess.Changes(), "add a tea ceremony") {
		t.Fatalf("expected the change request accumulated")
	}
}

func TestSaveSuccessOpensScheduling(t *testing.T) {
	m := newTestModel(t, "")
	m.phase = phasePlanChosen
	m.inflight = true

	updated, _ := m.Update(saveDoneMsg{})
	mm := updated.(Model)

	if mm.phase != phaseScheduling {
		t.Fatalf("expected the scheduling modal after save, got %s", mm.phase)
	}
}

func TestSaveFailureStaysOnPlan(t *testing.T) {
	m := newTestModel(t, "")
	m.sess.Choose("Day 1: Temples")
	m.phase = phasePlanChosen
	m.inflight = true

	updated, _ := m.Update(saveDoneMsg{err: errors.New("storage offline")})
	mm := updated.(Model)

	if mm.phase != phasePlanChosen {
		t.Fatalf("expected to stay on the chosen plan, got %s", mm.phase)
	}
	if mm.inflight {
		t.Fatalf("expected the confirm action re-enabled")
	}
	if last := lastMessage(t, mm); !last.isErr {
		t.Fatalf("expected an inline error message")
	}
}

func TestPreviewFullyReplacesAndDropsStale(t *testing.T) {
	m := newTestModel(t, "")
	m.phase = phaseScheduling
	m.startDate = "2026-09-01"
	m.previewLoading = true

	first := []api.PreviewEvent{
		{DayNumber: 1, Description: "Check in", StartTime: "15:00"},
		{DayNumber: 2, Description: "Temples", StartTime: "09:00"},
	}
	updated, _ := m.Update(previewDoneMsg{startDate: "2026-09-01", events: first})
	mm := updated.(Model)
	if len(mm.preview) != 2 {
		t.Fatalf("expected 2 preview events, got %d", len(mm.preview))
	}

	// The user has since asked for a different date: the late response for
	// the old date must be dropped, not merged.
	mm.startDate = "2026-09-08"
	mm.previewLoading = true
	stale := []api.PreviewEvent{{DayNumber: 1, Description: "Old date arrival"}}
	updated, _ = mm.Update(previewDoneMsg{startDate: "2026-09-01", events: stale})
	mm = updated.(Model)
	if len(mm.preview) != 2 || mm.preview[0].Description != "Check in" {
		t.Fatalf("stale preview must not replace the current one")
	}

	fresh := []api.PreviewEvent{{DayNumber: 1, Description: "New arrival", StartTime: "10:00"}}
	updated, _ = mm.Update(previewDoneMsg{startDate: "2026-09-08", events: fresh})
	mm = updated.(Model)
	if len(mm.preview) != 1 || mm.preview[0].Description != "New arrival" {
		t.Fatalf("expected the fresh preview to fully replace the old list")
	}
}

func TestSchedulingRejectsBadDate(t *testing.T) {
	m := newTestModel(t, "")
	m.phase = phaseScheduling
	m.dateInput.SetValue("next tuesday")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm := updated.(Model)

	if cmd != nil {
		t.Fatalf("expected no preview request for an invalid date")
	}
	if mm.schedErr == "" || mm.previewLoading {
		t.Fatalf("expected an inline date error")
	}
}

func TestUnauthenticatedConfirmParksPayload(t *testing.T) {
	m := newTestModel(t, "")
	m.sess.Choose("Day 1: Temples\nDay 2: Food")
	m.phase = phaseScheduling
	m.startDate = "2026-09-01"
	m.creating = true

	updated, cmd := m.Update(confirmAuthMsg{status: api.CalendarStatus{Authenticated: false}})
	mm := updated.(Model)

	if cmd != nil {
		t.Fatalf("no event-creation call may happen in an unauthenticated turn")
	}
	if !mm.awaitingAuth || mm.creating {
		t.Fatalf("expected the modal waiting for authorization")
	}

	payload, ok, err := mm.pending.Take()
	if err != nil || !ok {
		t.Fatalf("expected the pending payload stored, ok=%v err=%v", ok, err)
	}
	if payload.StartDate != "2026-09-01" || !strings.Contains(payload.Itinerary, "Temples") {
		t.Fatalf("pending payload mismatch: %+v", payload)
	}
}

func TestAuthenticatedConfirmCreatesEvents(t *testing.T) {
	m := newTestModel(t, "")
	m.sess.Choose("Day 1: Temples")
	m.phase = phaseScheduling
	m.startDate = "2026-09-01"
	m.creating = true

	_, cmd := m.Update(confirmAuthMsg{status: api.CalendarStatus{Authenticated: true}})
	if cmd == nil {
		t.Fatalf("expected the event-creation request to be issued")
	}
}

func TestEventsDoneClosesModal(t *testing.T) {
	m := newTestModel(t, "")
	m.sess.Choose("Day 1: Temples")
	m.phase = phaseScheduling
	m.startDate = "2026-09-01"
	m.preview = []api.PreviewEvent{{DayNumber: 1}}
	m.creating = true

	updated, _ := m.Update(eventsDoneMsg{ids: []string{"a", "b", "c"}})
	mm := updated.(Model)

	if mm.phase == phaseScheduling {
		t.Fatalf("expected the modal closed after event creation")
	}
	if len(mm.preview) != 0 || mm.startDate != "" {
		t.Fatalf("expected scheduling state cleared")
	}
	if last := lastMessage(t, mm); !strings.Contains(last.text, "3 events") {
		t.Fatalf("expected a completion report, got %q", last.text)
	}
}

func TestEventsFailureReenablesConfirm(t *testing.T) {
	m := newTestModel(t, "")
	m.phase = phaseScheduling
	m.startDate = "2026-09-01"
	m.preview = []api.PreviewEvent{{DayNumber: 1}}
	m.creating = true

	updated, _ := m.Update(eventsDoneMsg{err: errors.New("quota exceeded")})
	mm := updated.(Model)

	if mm.creating {
		t.Fatalf("expected the confirm action re-enabled after failure")
	}
	if mm.phase != phaseScheduling || mm.schedErr == "" {
		t.Fatalf("expected the modal open with an inline error")
	}
}

func TestPendingPayloadConsumedExactlyOnce(t *testing.T) {
	eventCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/calendar/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "success", "authenticated": true})
	})
	mux.HandleFunc("/api/calendar/event", func(w http.ResponseWriter, r *http.Request) {
		eventCalls++
		json.NewEncoder(w).Encode(map[string]any{"status": "success", "event_ids": []string{"e1", "e2"}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	m := newTestModel(t, server.URL)
	err := m.pending.Save(session.PendingSchedule{Itinerary: "Day 1: Temples", StartDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("seed pending payload: %v", err)
	}

	msg := m.consumePendingCmd()()
	done, ok := msg.(pendingDoneMsg)
	if !ok {
		t.Fatalf("unexpected message type %T", msg)
	}
	if !done.attempted || !done.created || len(done.ids) != 2 {
		t.Fatalf("expected one successful creation attempt, got %+v", done)
	}
	if eventCalls != 1 {
		t.Fatalf("expected exactly one event-creation call, got %d", eventCalls)
	}

	// The payload is gone: a second startup attempts nothing.
	msg = m.consumePendingCmd()()
	done = msg.(pendingDoneMsg)
	if done.attempted {
		t.Fatalf("expected no second attempt for a consumed payload")
	}
	if eventCalls != 1 {
		t.Fatalf("payload must be cleared after one consumption, got %d calls", eventCalls)
	}
}

func TestPendingClearedEvenWhenUnauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/calendar/status", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "success", "authenticated": false})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	m := newTestModel(t, server.URL)
	if err := m.pending.Save(session.PendingSchedule{Itinerary: "Day 1", StartDate: "2026-09-01"}); err != nil {
		t.Fatalf("seed pending payload: %v", err)
	}

	done := m.consumePendingCmd()().(pendingDoneMsg)
	if !done.attempted || done.created {
		t.Fatalf("expected an attempt without creation, got %+v", done)
	}

	if _, ok, _ := m.pending.Take(); ok {
		t.Fatalf("payload must be discarded regardless of outcome")
	}
}

func TestSlashHelp(t *testing.T) {
	m := newTestModel(t, "")
	m.input.SetValue("/help")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	mm := updated.(Model)

	if last := lastMessage(t, mm); !strings.Contains(last.text, "/prefs") {
		t.Fatalf("expected the help text, got %q", last.text)
	}
	if mm.inflight {
		t.Fatalf("local commands must not mark a request in flight")
	}
}
