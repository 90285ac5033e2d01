package chat_tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/api"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/session"
)

// Backend calls live in tea.Cmd closures so the event loop never blocks.
// Each closure captures what it needs from the model by value; results come
// back as the typed messages in state.go.

func (m Model) sendChatCmd(text string) tea.Cmd {
	client := m.client
	userID := m.sess.UserID
	return func() tea.Msg {
		result, err := client.Chat(context.Background(), userID, text)
		return chatDoneMsg{result: result, err: err}
	}
}

func (m Model) selectCmd(index int, content string) tea.Cmd {
	client := m.client
	userID := m.sess.UserID
	query := m.sess.OriginalQuery()
	return func() tea.Msg {
		analysis, err := client.SelectResponse(context.Background(), userID, query, content)
		return selectDoneMsg{index: index, analysis: analysis, err: err}
	}
}

func (m Model) saveItineraryCmd() tea.Cmd {
	client := m.client
	userID := m.sess.UserID
	query := m.sess.OriginalQuery()
	itinerary := m.sess.SelectedItinerary()
	changes := m.sess.Changes()
	return func() tea.Msg {
		err := client.SaveItinerary(context.Background(), userID, query, itinerary, changes)
		return saveDoneMsg{err: err}
	}
}

func (m Model) savePrefsCmd(prefs api.Preferences) tea.Cmd {
	client := m.client
	userID := m.sess.UserID
	return func() tea.Msg {
		return prefsDoneMsg{err: client.SavePreferences(context.Background(), userID, prefs)}
	}
}

func (m Model) listPlansCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		plans, err := client.ListPlans(context.Background())
		return plansDoneMsg{plans: plans, err: err}
	}
}

func (m Model) previewCmd(startDate string) tea.Cmd {
	client := m.client
	itinerary := m.sess.SelectedItinerary()
	return func() tea.Msg {
		events, err := client.PreviewEvents(context.Background(), itinerary, startDate)
		return previewDoneMsg{startDate: startDate, events: events, err: err}
	}
}

// confirmAuthCmd is the authentication check at schedule-confirm time. It
// bypasses the status cache: a stale "authenticated" here would produce a
// doomed event-creation call.
func (m Model) confirmAuthCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		status, err := client.CalendarStatus(context.Background(), true)
		return confirmAuthMsg{status: status, err: err}
	}
}

func (m Model) createEventsCmd(itinerary, startDate string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ids, err := client.CreateEvents(context.Background(), itinerary, startDate)
		return eventsDoneMsg{ids: ids, err: err}
	}
}

// consumePendingCmd runs once at startup: if a payload was parked before the
// OAuth hand-off, re-check authentication and attempt event creation exactly
// once. Take clears the payload before the attempt, so the retry budget is
// spent no matter how this ends.
func (m Model) consumePendingCmd() tea.Cmd {
	client := m.client
	store := m.pending
	return func() tea.Msg {
		payload, ok, err := store.Take()
		if err != nil {
			return pendingDoneMsg{err: err}
		}
		if !ok {
			return pendingDoneMsg{}
		}
		status, err := client.CalendarStatus(context.Background(), true)
		if err != nil {
			return pendingDoneMsg{attempted: true, err: err}
		}
		if !status.Authenticated {
			return pendingDoneMsg{attempted: true}
		}
		ids, err := client.CreateEvents(context.Background(), payload.Itinerary, payload.StartDate)
		if err != nil {
			return pendingDoneMsg{attempted: true, err: err}
		}
		return pendingDoneMsg{attempted: true, created: true, ids: ids}
	}
}

func cooldownTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return cooldownTickMsg(t)
	})
}

// storePending parks the payload for the OAuth hand-off. Kept synchronous:
// it is a local file write and the user is about to leave for a browser.
func (m *Model) storePending(itinerary, startDate string) error {
	return m.pending.Save(session.PendingSchedule{Itinerary: itinerary, StartDate: startDate})
}
