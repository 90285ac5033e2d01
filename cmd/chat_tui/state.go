package chat_tui

import (
	"time"

	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/api"
)

// phase tracks where the conversation controller is in its per-turn state
// machine. Exactly one phase is active at a time; every transition happens
// in Update.
type phase int

const (
	// phaseIdle: input enabled, waiting for the user.
	phaseIdle phase = iota
	// phaseAwaitingResponse: a chat request is in flight, input locked.
	phaseAwaitingResponse
	// phaseAwaitingSelection: alternatives rendered, waiting for a pick.
	phaseAwaitingSelection
	// phasePlanChosen: one alternative selected; refine or confirm.
	phasePlanChosen
	// phaseScheduling: the scheduling modal is open.
	phaseScheduling
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseAwaitingResponse:
		return "awaiting response"
	case phaseAwaitingSelection:
		return "awaiting selection"
	case phasePlanChosen:
		return "plan chosen"
	case phaseScheduling:
		return "scheduling"
	default:
		return "unknown"
	}
}

// message is one rendered entry in the conversation timeline.
type message struct {
	author    string
	text      string
	isErr     bool
	itinerary bool
}

const (
	authorUser   = "you"
	authorSystem = "planner"
	authorNotice = "notice"
)

type chatDoneMsg struct {
	result api.ChatResult
	err    error
}

type selectDoneMsg struct {
	index    int
	analysis api.PreferenceAnalysis
	err      error
}

type saveDoneMsg struct {
	err error
}

type prefsDoneMsg struct {
	err error
}

type plansDoneMsg struct {
	plans []api.Plan
	err   error
}

// previewDoneMsg carries the start date it was requested for so stale
// responses can be dropped instead of replacing a newer preview.
type previewDoneMsg struct {
	startDate string
	events    []api.PreviewEvent
	err       error
}

// confirmAuthMsg is the authentication check made at schedule-confirm time.
type confirmAuthMsg struct {
	status api.CalendarStatus
	err    error
}

type eventsDoneMsg struct {
	ids []string
	err error
}

// pendingDoneMsg reports the one startup re-attempt for a payload stored
// before the OAuth hand-off.
type pendingDoneMsg struct {
	attempted bool
	created   bool
	ids       []string
	err       error
}

type cooldownTickMsg time.Time
