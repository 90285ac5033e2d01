package api

// Alternative is one candidate itinerary returned by the backend for a
// single chat turn. Type is a loose classifier ("itinerary" for day-by-day
// plans); empty means plain prose.
type Alternative struct {
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

// ChatResult is the useful part of a POST /api/chat response: either a plain
// text reply or a set of alternatives, never both.
type ChatResult struct {
	Response     string        `json:"response,omitempty"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
}

// HasAlternatives reports whether this turn produced selectable options.
func (r ChatResult) HasAlternatives() bool {
	return len(r.Alternatives) > 0
}

// Preferences are the user-tunable knobs forwarded to the backend's
// preference store.
type Preferences struct {
	Budget      string `json:"budget"`
	TravelStyle string `json:"travelStyle"`
}

// PreferenceAnalysis is the backend's structured read of what the selected
// alternative says about the user. The shape is backend-owned; the client
// only displays it.
type PreferenceAnalysis map[string]any

// CalendarStatus reports whether the backend session holds calendar
// credentials.
type CalendarStatus struct {
	Authenticated bool `json:"authenticated"`
	Available     bool `json:"available"`
}

// PreviewEvent is one row of a scheduling preview: a single calendar event
// derived from the itinerary, positioned relative to the chosen start date.
type PreviewEvent struct {
	DayNumber   int    `json:"day_number"`
	DayTitle    string `json:"day_title"`
	Description string `json:"description"`
	StartTime   string `json:"start_time"`
	Duration    string `json:"duration"`
	Location    string `json:"location"`
}

// Plan is a saved, user-confirmed itinerary as listed by GET /api/plans.
type Plan struct {
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Status      string `json:"status"`
}

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type selectRequest struct {
	UserID           string `json:"user_id"`
	OriginalQuery    string `json:"original_query"`
	SelectedResponse string `json:"selected_response"`
}

type preferencesRequest struct {
	UserID      string      `json:"user_id"`
	Preferences Preferences `json:"preferences"`
}

type saveItineraryRequest struct {
	UserID            string `json:"user_id"`
	OriginalQuery     string `json:"original_query"`
	SelectedItinerary string `json:"selected_itinerary"`
	UserChanges       string `json:"user_changes"`
}

type calendarEventRequest struct {
	ItineraryContent string `json:"itinerary_content"`
	StartDate        string `json:"start_date"`
}

// envelope is the common wrapper every backend response carries.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type chatResponse struct {
	envelope
	ChatResult
}

type selectResponse struct {
	envelope
	PreferenceAnalysis PreferenceAnalysis `json:"preference_analysis,omitempty"`
}

type calendarStatusResponse struct {
	envelope
	CalendarStatus
}

type createEventsResponse struct {
	envelope
	EventIDs []string `json:"event_ids,omitempty"`
}

type previewResponse struct {
	envelope
	Preview []PreviewEvent `json:"preview"`
}

type plansResponse struct {
	envelope
	Plans []Plan `json:"plans"`
}
