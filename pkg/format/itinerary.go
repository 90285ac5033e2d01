// Package format turns raw itinerary text from the backend into styled
// terminal output. The primary path is lightweight pattern substitution over
// the conventions the planner emits (day headers, time-prefixed lines, bold
// locations, parenthesized durations, bullets); full markdown rendering is
// used as a fallback for free-form prose, and the raw text is returned when
// rendering fails.
package format

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	dayHeaderPattern = regexp.MustCompile(`(?mi)^\s*(?:#+\s*)?(day\s+\d+[:\-—]?\s*.*)$`)
	timeLinePattern  = regexp.MustCompile(`(?m)^(\s*)(\d{1,2}:\d{2}\s*(?:AM|PM|am|pm)?)\b`)
	boldPattern      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	durationPattern  = regexp.MustCompile(`\((\d+(?:\.\d+)?\s*(?:hours?|hrs?|minutes?|mins?))\)`)
	bulletPattern    = regexp.MustCompile(`(?m)^(\s*)[-*•]\s+`)
)

// Styles holds the fragment styles applied during substitution. Zero-value
// styles pass text through unchanged, which keeps the formatter usable in
// tests and non-TTY output.
type Styles struct {
	DayHeader lipgloss.Style
	Time      lipgloss.Style
	Location  lipgloss.Style
	Duration  lipgloss.Style
	Bullet    string
}

// DefaultStyles matches the chat timeline theme.
func DefaultStyles() Styles {
	return Styles{
		DayHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#01cdfe")).Underline(true),
		Time:      lipgloss.NewStyle().Foreground(lipgloss.Color("#05ffa1")),
		Location:  lipgloss.NewStyle().Bold(true),
		Duration:  lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3d8")),
		Bullet:    "• ",
	}
}

// Itinerary applies the pattern substitutions to text.
func Itinerary(text string, st Styles) string {
	out := dayHeaderPattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := dayHeaderPattern.FindStringSubmatch(match)
		return st.DayHeader.Render(sub[1])
	})
	out = boldPattern.ReplaceAllStringFunc(out, func(match string) string {
		sub := boldPattern.FindStringSubmatch(match)
		return st.Location.Render(sub[1])
	})
	out = durationPattern.ReplaceAllStringFunc(out, func(match string) string {
		sub := durationPattern.FindStringSubmatch(match)
		return st.Duration.Render("(" + sub[1] + ")")
	})
	out = timeLinePattern.ReplaceAllStringFunc(out, func(match string) string {
		sub := timeLinePattern.FindStringSubmatch(match)
		return sub[1] + st.Time.Render(sub[2])
	})
	if st.Bullet != "" {
		out = bulletPattern.ReplaceAllString(out, "${1}"+st.Bullet)
	}
	return out
}

// Markdown renders text as terminal markdown, falling back to the raw text
// when rendering fails or produces nothing.
func Markdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	rendered, err := renderer.Render(text)
	if err != nil || strings.TrimSpace(rendered) == "" {
		return text
	}
	return strings.TrimRight(rendered, "\n")
}

// LooksLikeItinerary reports whether text follows the day-by-day planner
// conventions, which decides between substitution and markdown rendering.
func LooksLikeItinerary(text string) bool {
	return dayHeaderPattern.MatchString(text)
}
