package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// ErrRateLimited marks an HTTP 429 from the backend. Callers give it a
// distinguished cooldown treatment instead of the generic error path.
var ErrRateLimited = errors.New("backend rate limit reached")

// StatusError is a non-2xx response that was not a rate limit.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Code)
}

// APIError is an application-level failure: HTTP 2xx but status != "success"
// in the envelope.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "backend reported failure"
	}
	return e.Message
}

const (
	statusCacheKey = "calendar-status"
	plansCacheKey  = "plans"
)

// Client is a typed client for the travel-planner backend API. All calls are
// sequential and blocking; the surrounding TUI issues them from tea.Cmd
// closures so the event loop never stalls.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
	cache   *cache.Cache
}

// New builds a Client. cacheTTL bounds how long calendar status and plan
// listings are reused before hitting the backend again.
func New(baseURL string, timeout time.Duration, cacheTTL time.Duration, log *logrus.Logger) *Client {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
		cache:   cache.New(cacheTTL, 2*cacheTTL),
	}
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// AuthURL is the OAuth entry point. It is a browser redirect target, never
// fetched by the client itself.
func (c *Client) AuthURL() string { return c.baseURL + "/api/calendar/auth" }

// LogoutURL clears the backend's calendar credentials when opened.
func (c *Client) LogoutURL() string { return c.baseURL + "/api/calendar/logout" }

// Chat submits a user message and returns either a plain response or a set
// of alternatives.
func (c *Client) Chat(ctx context.Context, userID, message string) (ChatResult, error) {
	var resp chatResponse
	err := c.post(ctx, "/api/chat", chatRequest{Message: message, UserID: userID}, &resp)
	if err != nil {
		return ChatResult{}, err
	}
	return resp.ChatResult, nil
}

// SelectResponse tells the backend which alternative won this turn so it can
// fold the choice into its preference model.
func (c *Client) SelectResponse(ctx context.Context, userID, originalQuery, selected string) (PreferenceAnalysis, error) {
	var resp selectResponse
	err := c.post(ctx, "/api/chat/select", selectRequest{
		UserID:           userID,
		OriginalQuery:    originalQuery,
		SelectedResponse: selected,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.PreferenceAnalysis, nil
}

// SavePreferences stores budget/travel-style preferences server-side.
func (c *Client) SavePreferences(ctx context.Context, userID string, prefs Preferences) error {
	var resp envelope
	return c.post(ctx, "/api/preferences", preferencesRequest{UserID: userID, Preferences: prefs}, &resp)
}

// SaveItinerary persists the confirmed plan, including the accumulated
// free-text change requests from the refine loop.
func (c *Client) SaveItinerary(ctx context.Context, userID, originalQuery, itinerary, userChanges string) error {
	var resp envelope
	return c.post(ctx, "/api/itinerary/save", saveItineraryRequest{
		UserID:            userID,
		OriginalQuery:     originalQuery,
		SelectedItinerary: itinerary,
		UserChanges:       userChanges,
	}, &resp)
}

// CalendarStatus reports calendar authentication state. Results are cached
// briefly; pass fresh=true to bypass the cache at decision points such as
// schedule confirmation.
func (c *Client) CalendarStatus(ctx context.Context, fresh bool) (CalendarStatus, error) {
	if !fresh {
		if v, ok := c.cache.Get(statusCacheKey); ok {
			return v.(CalendarStatus), nil
		}
	}
	var resp calendarStatusResponse
	if err := c.get(ctx, "/api/calendar/status", &resp); err != nil {
		return CalendarStatus{}, err
	}
	c.cache.Set(statusCacheKey, resp.CalendarStatus, cache.DefaultExpiration)
	return resp.CalendarStatus, nil
}

// CreateEvents asks the backend to create calendar events for the itinerary
// starting at startDate (YYYY-MM-DD).
func (c *Client) CreateEvents(ctx context.Context, itinerary, startDate string) ([]string, error) {
	var resp createEventsResponse
	err := c.post(ctx, "/api/calendar/event", calendarEventRequest{
		ItineraryContent: itinerary,
		StartDate:        startDate,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.EventIDs, nil
}

// PreviewEvents returns the day-by-day event breakdown the backend would
// create for the itinerary at the given start date.
func (c *Client) PreviewEvents(ctx context.Context, itinerary, startDate string) ([]PreviewEvent, error) {
	var resp previewResponse
	err := c.post(ctx, "/api/calendar/preview", calendarEventRequest{
		ItineraryContent: itinerary,
		StartDate:        startDate,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Preview, nil
}

// ListPlans returns the saved plans for display. Cached briefly.
func (c *Client) ListPlans(ctx context.Context) ([]Plan, error) {
	if v, ok := c.cache.Get(plansCacheKey); ok {
		return v.([]Plan), nil
	}
	var resp plansResponse
	if err := c.get(ctx, "/api/plans", &resp); err != nil {
		return nil, err
	}
	c.cache.Set(plansCacheKey, resp.Plans, cache.DefaultExpiration)
	return resp.Plans, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request for %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", req.URL.Path).Warn("request failed")
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"path":    req.URL.Path,
		"status":  resp.StatusCode,
		"elapsed": time.Since(started).Round(time.Millisecond).String(),
	}).Debug("request complete")

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response from %s: %w", req.URL.Path, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &StatusError{Code: resp.StatusCode, Message: "response was not valid JSON"}
	}
	if env.Status != "" && env.Status != "success" {
		return &APIError{Message: env.Message}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
		}
	}
	return nil
}

// readErrorMessage pulls a human-readable message out of an error body when
// one exists. Bodies are often JSON envelopes but can be anything.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && env.Message != "" {
		return env.Message
	}
	var loose map[string]any
	if err := json.Unmarshal(data, &loose); err == nil {
		if msg, ok := loose["error"].(string); ok {
			return msg
		}
	}
	return ""
}
