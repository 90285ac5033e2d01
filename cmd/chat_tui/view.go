package chat_tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/calendar"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/format"
)

type theme struct {
	root        lipgloss.Style
	header      lipgloss.Style
	panel       lipgloss.Style
	panelTitle  lipgloss.Style
	inputPanel  lipgloss.Style
	footer      lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	helpText    lipgloss.Style
	option      lipgloss.Style
	optionPick  lipgloss.Style
	modal       lipgloss.Style
	modalTitle  lipgloss.Style
	dayTitle    lipgloss.Style
	authors     map[string]lipgloss.Style
}

func newTheme() theme {
	blue := lipgloss.Color("#01cdfe")
	mint := lipgloss.Color("#05ffa1")
	pink := lipgloss.Color("#ff71ce")
	text := lipgloss.Color("#f3f3ff")
	muted := lipgloss.Color("#9ca3d8")
	panelBg := lipgloss.Color("#1b0f35")

	return theme{
		root: lipgloss.NewStyle().Foreground(text).Padding(0, 1),
		header: lipgloss.NewStyle().
			Background(panelBg).
			Foreground(text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().Foreground(mint).Bold(true),
		inputPanel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(mint).
			Padding(0, 1),
		footer: lipgloss.NewStyle().
			Foreground(muted).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(pink).
			Padding(0, 1),
		status:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		errorStatus: lipgloss.NewStyle().Foreground(pink).Bold(true),
		helpText:    lipgloss.NewStyle().Foreground(muted),
		option: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1),
		optionPick: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(pink).
			Padding(0, 1),
		modal: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(blue).
			Padding(1, 2),
		modalTitle: lipgloss.NewStyle().Foreground(pink).Bold(true),
		dayTitle:   lipgloss.NewStyle().Foreground(blue).Bold(true).Underline(true),
		authors: map[string]lipgloss.Style{
			authorUser:   lipgloss.NewStyle().Foreground(mint).Bold(true),
			authorSystem: lipgloss.NewStyle().Foreground(blue).Bold(true),
			authorNotice: lipgloss.NewStyle().Foreground(muted).Bold(true),
		},
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	sections := []string{
		m.renderHeader(),
		m.timeline.View(),
	}
	if m.phase == phaseAwaitingSelection || (m.phase == phasePlanChosen && len(m.alternatives) == 1) {
		sections = append(sections, m.renderAlternatives())
	}
	if m.phase == phaseScheduling {
		sections = append(sections, m.renderSchedulingModal())
	} else {
		sections = append(sections, m.renderInput())
	}
	sections = append(sections, m.renderFooter())

	if m.quitConfirm {
		sections = append(sections, m.theme.errorStatus.Render("Quit? (y/n)"))
	}
	return m.theme.root.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderHeader() string {
	title := m.theme.panelTitle.Render("Travel Planner")
	state := m.theme.helpText.Render("· " + m.phase.String())
	return m.theme.header.Width(maxInt(20, m.width-4)).Render(title + " " + state)
}

func (m Model) renderInput() string {
	if m.inflight || m.selecting {
		return m.theme.inputPanel.Width(maxInt(20, m.width-4)).Render(m.spinner.View() + " " + m.statusLine)
	}
	if m.inCooldown() {
		note := fmt.Sprintf("input paused (%s)", m.cooldownRemaining())
		if m.rateLimited {
			note = fmt.Sprintf("rate limited — paused (%s)", m.cooldownRemaining())
		}
		return m.theme.inputPanel.Width(maxInt(20, m.width-4)).Render(m.theme.errorStatus.Render(note))
	}
	return m.theme.inputPanel.Width(maxInt(20, m.width-4)).Render(m.input.View())
}

func (m Model) renderFooter() string {
	status := m.theme.status.Render(m.statusLine)
	help := m.theme.helpText.Render("/help for commands · ctrl+c to quit")
	return m.theme.footer.Width(maxInt(20, m.width-4)).Render(status + "  " + help)
}

func (m Model) renderAlternatives() string {
	var parts []string
	for i, alt := range m.alternatives {
		label := fmt.Sprintf("Option %d", i+1)
		if alt.Type != "" {
			label += " · " + alt.Type
		}
		body := m.theme.panelTitle.Render(label) + "\n" + summarize(alt.Content, 6)
		style := m.theme.option
		if m.phase == phaseAwaitingSelection && i == m.altIndex {
			style = m.theme.optionPick
		}
		parts = append(parts, style.Width(maxInt(20, m.width-8)).Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderSchedulingModal() string {
	var b strings.Builder
	b.WriteString(m.theme.modalTitle.Render("Schedule this plan"))
	b.WriteString("\n\n")
	b.WriteString(m.dateInput.View())
	b.WriteString("\n")

	switch {
	case m.previewLoading:
		b.WriteString("\n" + m.spinner.View() + " building preview...\n")
	case m.creating:
		b.WriteString("\n" + m.spinner.View() + " creating events...\n")
	case len(m.preview) > 0:
		b.WriteString("\n")
		for _, day := range calendar.GroupByDay(m.preview) {
			title := day.Title
			if title == "" {
				title = fmt.Sprintf("Day %d", day.Number)
			}
			b.WriteString(m.theme.dayTitle.Render(fmt.Sprintf("Day %d — %s", day.Number, title)) + "\n")
			for _, ev := range day.Events {
				line := fmt.Sprintf("  %s  %s", ev.StartTime, ev.Description)
				if ev.Location != "" {
					line += " @ " + ev.Location
				}
				if ev.Duration != "" {
					line += " (" + ev.Duration + ")"
				}
				b.WriteString(line + "\n")
			}
		}
		b.WriteString("\n" + m.theme.helpText.Render("ctrl+s to add these to your calendar · enter to re-preview another date"))
	default:
		b.WriteString("\n" + m.theme.helpText.Render("enter a start date and press enter to preview the events"))
	}

	if m.schedErr != "" {
		b.WriteString("\n" + m.theme.errorStatus.Render(m.schedErr))
	}
	if m.awaitingAuth {
		b.WriteString("\n" + m.theme.helpText.Render("authorization pending — the schedule will finish on next launch"))
	}
	b.WriteString("\n" + m.theme.helpText.Render("esc to close"))

	return m.theme.modal.Width(maxInt(30, m.width-6)).Render(b.String())
}

// renderTimeline re-renders the conversation into the viewport. Rendering is
// a pure function of the message list; nothing mutates the entries.
func (m *Model) renderTimeline() {
	width := maxInt(20, m.timeline.Width-2)
	var b strings.Builder
	for _, msg := range m.messages {
		author, ok := m.theme.authors[msg.author]
		if !ok {
			author = m.theme.authors[authorNotice]
		}
		b.WriteString(author.Render(msg.author) + "\n")

		text := msg.text
		switch {
		case msg.isErr:
			text = m.theme.errorStatus.Render(text)
		case msg.itinerary:
			text = format.Itinerary(text, m.styles)
		case msg.author == authorSystem:
			text = format.Markdown(text, width)
		}
		b.WriteString(text + "\n\n")
	}
	m.timeline.SetContent(b.String())
}

func (m *Model) resize() {
	m.timeline.Width = maxInt(20, m.width-4)
	height := m.height - 10
	if m.phase == phaseAwaitingSelection {
		height -= 4 * len(m.alternatives)
	}
	m.timeline.Height = maxInt(5, height)
	m.input.Width = maxInt(20, m.width-10)
	m.renderTimeline()
}

// summarize trims option content to its first n meaningful lines.
func summarize(content string, n int) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	var kept []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
		if len(kept) == n {
			break
		}
	}
	out := strings.Join(kept, "\n")
	if len(kept) == n && len(lines) > n {
		out += "\n…"
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
