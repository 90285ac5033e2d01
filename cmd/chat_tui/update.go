package chat_tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/api"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/format"
)

const rateLimitNotice = "The planner is receiving too many requests. Input is paused for a moment; please wait before sending more."

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case chatDoneMsg:
		m.inflight = false
		if msg.err != nil {
			m.handleChatError(msg.err, &cmds)
			break
		}
		m.startCooldown(m.cfg.ChatCooldown(), false, &cmds)
		if msg.result.HasAlternatives() {
			m.alternatives = msg.result.Alternatives
			m.altIndex = 0
			m.phase = phaseAwaitingSelection
			m.input.Blur()
			m.statusLine = fmt.Sprintf("%d options — ↑/↓ and enter to select", len(m.alternatives))
			m.renderTimeline()
		} else {
			m.appendMessage(message{
				author:    authorSystem,
				text:      msg.result.Response,
				itinerary: format.LooksLikeItinerary(msg.result.Response),
			})
			m.phase = m.restingPhase()
			m.statusLine = "ready"
		}

	case selectDoneMsg:
		m.selecting = false
		if msg.err != nil {
			m.appendError("Could not record your selection: " + msg.err.Error())
			m.statusLine = "selection failed — try again"
			break
		}
		if msg.index < 0 || msg.index >= len(m.alternatives) {
			break
		}
		chosen := m.alternatives[msg.index]
		m.sess.Choose(chosen.Content)
		// Competing alternatives disappear once one is picked.
		m.alternatives = []api.Alternative{chosen}
		m.phase = phasePlanChosen
		m.input.Focus()
		m.input.Placeholder = "Describe changes to refine, or ctrl+s to confirm this plan"
		m.appendMessage(message{
			author:    authorSystem,
			text:      chosen.Content,
			itinerary: chosen.Type == "itinerary" || format.LooksLikeItinerary(chosen.Content),
		})
		if len(msg.analysis) > 0 {
			m.appendMessage(message{author: authorNotice, text: "Your preferences were updated from this choice."})
		}
		m.statusLine = "plan chosen — type changes to refine, ctrl+s to confirm"

	case saveDoneMsg:
		m.inflight = false
		if msg.err != nil {
			m.appendError("Could not save the itinerary: " + msg.err.Error())
			m.statusLine = "save failed — ctrl+s to retry"
			break
		}
		m.openScheduling()

	case previewDoneMsg:
		m.previewLoading = false
		if msg.startDate != m.startDate {
			// A newer date was chosen while this preview was in flight.
			break
		}
		if msg.err != nil {
			m.schedErr = "Preview failed: " + msg.err.Error()
			break
		}
		m.schedErr = ""
		m.preview = msg.events

	case confirmAuthMsg:
		if msg.err != nil {
			m.creating = false
			m.schedErr = "Could not check calendar access: " + msg.err.Error()
			break
		}
		if !msg.status.Authenticated {
			m.creating = false
			m.awaitingAuth = true
			if err := m.storePending(m.sess.SelectedItinerary(), m.startDate); err != nil {
				m.schedErr = "Could not store the schedule for later: " + err.Error()
				break
			}
			m.appendMessage(message{
				author: authorNotice,
				text: "Calendar access is not authorized yet. Open this link in your browser, grant access, then restart the client to finish scheduling:\n" +
					m.client.AuthURL(),
			})
			m.schedErr = ""
			m.statusLine = "waiting for calendar authorization"
			break
		}
		cmds = append(cmds, m.createEventsCmd(m.sess.SelectedItinerary(), m.startDate))

	case eventsDoneMsg:
		m.creating = false
		if msg.err != nil {
			m.schedErr = "Event creation failed: " + msg.err.Error()
			break
		}
		m.closeScheduling()
		m.phase = m.restingPhase()
		m.appendMessage(message{
			author: authorNotice,
			text:   fmt.Sprintf("Added %d events to your calendar. Enjoy the trip!", len(msg.ids)),
		})
		m.statusLine = "schedule created"

	case pendingDoneMsg:
		if msg.err != nil {
			m.appendError("Finishing your earlier schedule failed: " + msg.err.Error())
			break
		}
		if !msg.attempted {
			break
		}
		if msg.created {
			m.appendMessage(message{
				author: authorNotice,
				text:   fmt.Sprintf("Finished your earlier confirmation: %d calendar events created.", len(msg.ids)),
			})
		} else {
			m.appendMessage(message{
				author: authorNotice,
				text:   "A schedule was pending from last time, but calendar access is still not authorized. It was discarded; confirm again once authorized.",
			})
		}

	case prefsDoneMsg:
		m.inflight = false
		if msg.err != nil {
			m.appendError("Could not save preferences: " + msg.err.Error())
			break
		}
		m.appendMessage(message{author: authorNotice, text: "Preferences saved."})

	case plansDoneMsg:
		m.inflight = false
		if msg.err != nil {
			m.appendError("Could not load your plans: " + msg.err.Error())
			break
		}
		m.appendMessage(message{author: authorNotice, text: renderPlansSummary(msg.plans)})

	case cooldownTickMsg:
		if m.inCooldown() {
			m.statusLine = fmt.Sprintf("paused — %s remaining", m.cooldownRemaining())
			cmds = append(cmds, cooldownTick())
		} else {
			m.rateLimited = false
			m.statusLine = "ready"
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.renderTimeline()

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.timeline, cmd = m.timeline.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		return m.handleKey(msg, cmds)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleChatError(err error, cmds *[]tea.Cmd) {
	m.phase = m.restingPhase()
	if errors.Is(err, api.ErrRateLimited) {
		m.startCooldown(m.cfg.RateLimitCooldown(), true, cmds)
		m.appendError(rateLimitNotice)
		m.statusLine = "rate limited — input paused"
		return
	}
	m.appendError("Something went wrong: " + err.Error())
	m.statusLine = "request failed — try again"
}

// restingPhase is where the controller settles when a turn ends without
// producing alternatives: back to the chosen plan when one exists, otherwise
// idle.
func (m Model) restingPhase() phase {
	if m.sess.HasSelection() {
		return phasePlanChosen
	}
	return phaseIdle
}

func (m *Model) startCooldown(window time.Duration, rateLimited bool, cmds *[]tea.Cmd) {
	if window <= 0 {
		return
	}
	m.cooldownUntil = time.Now().Add(window)
	m.rateLimited = rateLimited
	*cmds = append(*cmds, cooldownTick())
}

func (m *Model) openScheduling() {
	m.phase = phaseScheduling
	m.startDate = ""
	m.preview = nil
	m.schedErr = ""
	m.awaitingAuth = false
	m.input.Blur()
	m.dateInput.SetValue("")
	m.dateInput.Focus()
	m.statusLine = "plan saved — enter a start date"
}

func (m *Model) closeScheduling() {
	m.startDate = ""
	m.preview = nil
	m.previewLoading = false
	m.creating = false
	m.schedErr = ""
	m.awaitingAuth = false
	m.dateInput.Blur()
	m.input.Focus()
}

func (m Model) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.quitConfirm {
		switch msg.String() {
		case "y", "Y", "enter":
			return m, tea.Quit
		default:
			m.quitConfirm = false
			m.statusLine = "quit canceled"
		}
		return m, tea.Batch(cmds...)
	}

	switch m.phase {
	case phaseScheduling:
		return m.handleSchedulingKey(msg, cmds)
	case phaseAwaitingSelection:
		return m.handleSelectionKey(msg, cmds)
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.quitConfirm = true
		m.statusLine = "quit? (y/n)"
		return m, tea.Batch(cmds...)
	case key.Matches(msg, m.keys.PageUp):
		m.timeline.LineUp(8)
		return m, tea.Batch(cmds...)
	case key.Matches(msg, m.keys.PageDown):
		m.timeline.LineDown(8)
		return m, tea.Batch(cmds...)
	case key.Matches(msg, m.keys.Confirm):
		if m.phase == phasePlanChosen && m.canSubmit() {
			m.inflight = true
			m.statusLine = "saving your plan..."
			cmds = append(cmds, m.saveItineraryCmd())
		}
		return m, tea.Batch(cmds...)
	case msg.String() == "enter":
		return m.handleSubmit(cmds)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleSubmit(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if !m.canSubmit() {
		if m.rateLimited {
			m.statusLine = "still rate limited — hold on"
		}
		return m, tea.Batch(cmds...)
	}
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return m, tea.Batch(cmds...)
	}
	m.input.SetValue("")

	if strings.HasPrefix(raw, "/") {
		cmd := m.handleSlash(raw)
		if cmd != nil {
			m.inflight = true
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	m.appendMessage(message{author: authorUser, text: raw})

	var outbound string
	if m.phase == phasePlanChosen {
		outbound = m.sess.RequestChange(raw)
		m.statusLine = "revising the plan..."
	} else {
		m.sess.RecordQuery(raw)
		outbound = raw
		m.statusLine = "planning..."
	}
	m.phase = phaseAwaitingResponse
	m.inflight = true
	cmds = append(cmds, m.sendChatCmd(outbound))
	return m, tea.Batch(cmds...)
}

func (m Model) handleSelectionKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if m.selecting {
		return m, tea.Batch(cmds...)
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.altIndex = (m.altIndex + len(m.alternatives) - 1) % len(m.alternatives)
		m.renderTimeline()
	case key.Matches(msg, m.keys.Down):
		m.altIndex = (m.altIndex + 1) % len(m.alternatives)
		m.renderTimeline()
	case key.Matches(msg, m.keys.Pick):
		return m.pickAlternative(m.altIndex, cmds)
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.alternatives) {
			return m.pickAlternative(n-1, cmds)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) pickAlternative(index int, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	// Lock immediately so a second keypress cannot double-submit.
	m.selecting = true
	m.altIndex = index
	m.statusLine = "recording your selection..."
	cmds = append(cmds, m.selectCmd(index, m.alternatives[index].Content))
	return m, tea.Batch(cmds...)
}

func (m Model) handleSchedulingKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeScheduling()
		m.phase = phasePlanChosen
		m.statusLine = "scheduling canceled — plan is still saved"
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.Confirm):
		if m.creating || m.previewLoading || len(m.preview) == 0 {
			return m, tea.Batch(cmds...)
		}
		m.creating = true
		m.schedErr = ""
		m.statusLine = "checking calendar access..."
		cmds = append(cmds, m.confirmAuthCmd())
		return m, tea.Batch(cmds...)

	case msg.String() == "enter":
		if m.previewLoading || m.creating {
			return m, tea.Batch(cmds...)
		}
		raw := strings.TrimSpace(m.dateInput.Value())
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			m.schedErr = "Enter the start date as YYYY-MM-DD."
			return m, tea.Batch(cmds...)
		}
		m.startDate = raw
		m.previewLoading = true
		m.schedErr = ""
		m.statusLine = "building preview..."
		cmds = append(cmds, m.previewCmd(raw))
		return m, tea.Batch(cmds...)
	}

	var cmd tea.Cmd
	m.dateInput, cmd = m.dateInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleSlash(raw string) tea.Cmd {
	parts := strings.Fields(raw)
	switch parts[0] {
	case "/prefs":
		if len(parts) < 3 {
			m.appendMessage(message{author: authorNotice, text: "Usage: /prefs <budget> <travel-style>  e.g. /prefs moderate adventurous"})
			return nil
		}
		m.statusLine = "saving preferences..."
		return m.savePrefsCmd(api.Preferences{Budget: parts[1], TravelStyle: strings.Join(parts[2:], " ")})
	case "/plans":
		m.statusLine = "loading plans..."
		return m.listPlansCmd()
	case "/logout":
		m.appendMessage(message{author: authorNotice, text: "Open this link to disconnect your calendar:\n" + m.client.LogoutURL()})
		return nil
	case "/new":
		m.sess.Reset()
		m.alternatives = nil
		m.closeScheduling()
		m.phase = phaseIdle
		m.input.Placeholder = "Where do you want to go? (e.g. \"3 days in Kyoto\")"
		m.appendMessage(message{author: authorNotice, text: "Started a new planning conversation."})
		return nil
	case "/help":
		m.appendMessage(message{author: authorNotice, text: helpText})
		return nil
	default:
		m.appendMessage(message{author: authorNotice, text: "Unknown command " + parts[0] + ". Try /help."})
		return nil
	}
}

const helpText = `Commands:
  /prefs <budget> <style>   save budget & travel-style preferences
  /plans                    list your saved plans
  /logout                   calendar logout link
  /new                      start a fresh planning conversation
  /help                     this message

Keys:
  enter        send message / select option / fetch preview
  ctrl+s       confirm plan (then confirm schedule)
  esc          close modal / quit
  pgup/pgdn    scroll the conversation`

func renderPlansSummary(plans []api.Plan) string {
	if len(plans) == 0 {
		return "No saved plans yet."
	}
	var b strings.Builder
	b.WriteString("Your saved plans:\n")
	for _, p := range plans {
		fmt.Fprintf(&b, "  %s  %s → %s  [%s]\n", p.Destination, p.StartDate, p.EndDate, p.Status)
	}
	return strings.TrimRight(b.String(), "\n")
}
