// Package chat_tui implements the conversational travel-planning interface:
// chat timeline, itinerary alternative selection, the refine/confirm loop,
// and the calendar scheduling modal. All backend calls run inside tea.Cmd
// closures and report back as typed messages; the model is the single source
// of truth for what is on screen.
package chat_tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/api"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/config"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/format"
	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/session"
)

type Model struct {
	cfg     config.Config
	client  *api.Client
	sess    *session.Session
	pending *session.PendingStore
	log     *logrus.Logger

	phase    phase
	messages []message

	// Alternatives of the current turn. At most one set is active; a
	// successful selection collapses it to the chosen entry.
	alternatives []api.Alternative
	altIndex     int
	selecting    bool

	// Scheduling modal state. The preview always belongs to startDate;
	// a new date fully replaces it.
	startDate      string
	preview        []api.PreviewEvent
	previewLoading bool
	creating       bool
	awaitingAuth   bool
	schedErr       string
	dateInput      textinput.Model

	// Input lockout window. rateLimited distinguishes the 429 message
	// from the courtesy pause after a normal turn.
	cooldownUntil time.Time
	rateLimited   bool

	inflight   bool
	statusLine string

	input    textinput.Model
	timeline viewport.Model
	spinner  spinner.Model
	keys     KeyMap
	theme    theme
	styles   format.Styles

	quitConfirm bool
	width       int
	height      int
}

// New wires the controller. The session and pending store are created by the
// caller so the same context can serve the CLI commands too.
func New(cfg config.Config, client *api.Client, sess *session.Session, pending *session.PendingStore, log *logrus.Logger) Model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 2000
	input.Placeholder = "Where do you want to go? (e.g. \"3 days in Kyoto\")"
	input.Focus()

	dateInput := textinput.New()
	dateInput.Prompt = "start date ❯ "
	dateInput.CharLimit = 10
	dateInput.Placeholder = "YYYY-MM-DD"

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#05ffa1"))

	timeline := viewport.New(0, 0)
	timeline.MouseWheelEnabled = true
	timeline.MouseWheelDelta = 4

	return Model{
		cfg:        cfg,
		client:     client,
		sess:       sess,
		pending:    pending,
		log:        log,
		phase:      phaseIdle,
		statusLine: "ready",
		input:      input,
		dateInput:  dateInput,
		spinner:    sp,
		timeline:   timeline,
		keys:       NewKeyMap(),
		theme:      newTheme(),
		styles:     format.DefaultStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.consumePendingCmd(),
	)
}

// inCooldown reports whether input is locked out by the 429 window or the
// post-turn courtesy pause.
func (m Model) inCooldown() bool {
	return time.Now().Before(m.cooldownUntil)
}

func (m Model) cooldownRemaining() time.Duration {
	if !m.inCooldown() {
		return 0
	}
	return time.Until(m.cooldownUntil).Round(time.Second)
}

// canSubmit is the in-flight guard: one outstanding request per logical
// action, and nothing while locked out.
func (m Model) canSubmit() bool {
	return !m.inflight && !m.inCooldown()
}

func (m *Model) appendMessage(msg message) {
	m.messages = append(m.messages, msg)
	m.renderTimeline()
	m.timeline.GotoBottom()
}

func (m *Model) appendError(text string) {
	m.appendMessage(message{author: authorNotice, text: text, isErr: true})
}
