// Package calendar works with the scheduling preview rows the backend
// returns: grouping them by day for display and exporting them as an iCal
// file so a plan is usable before (or without) the calendar OAuth flow.
package calendar

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/api"
)

const defaultEventDuration = time.Hour

var durationPattern = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*(hours?|hrs?|h|minutes?|mins?|m)\s*$`)

// ParseDuration understands the loose duration strings the backend emits,
// e.g. "2 hours", "90 minutes", "1.5 hrs". Unparseable or empty input falls
// back to one hour rather than failing the whole preview.
func ParseDuration(s string) time.Duration {
	match := durationPattern.FindStringSubmatch(s)
	if match == nil {
		return defaultEventDuration
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil || value <= 0 {
		return defaultEventDuration
	}
	unit := strings.ToLower(match[2])
	if strings.HasPrefix(unit, "h") {
		return time.Duration(value * float64(time.Hour))
	}
	return time.Duration(value * float64(time.Minute))
}

// ParseStartTime accepts "15:04" and "3:04 PM" clock strings. The boolean is
// false when the string is not a recognizable clock time.
func ParseStartTime(s string) (hour, minute int, ok bool) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Hour(), t.Minute(), true
		}
	}
	return 0, 0, false
}

// Day is one day's worth of preview events, ordered as received.
type Day struct {
	Number int
	Title  string
	Events []api.PreviewEvent
}

// GroupByDay buckets preview events by day number, ascending. Events with a
// missing or non-positive day number land on day 1.
func GroupByDay(events []api.PreviewEvent) []Day {
	grouped := lo.GroupBy(events, func(ev api.PreviewEvent) int {
		if ev.DayNumber < 1 {
			return 1
		}
		return ev.DayNumber
	})

	days := make([]Day, 0, len(grouped))
	for number, evs := range grouped {
		day := Day{Number: number, Events: evs}
		for _, ev := range evs {
			if ev.DayTitle != "" {
				day.Title = ev.DayTitle
				break
			}
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Number < days[j].Number })
	return days
}

// EventStart resolves the absolute start of a preview event given the trip
// start date. Events without a parseable clock time default to 09:00.
func EventStart(ev api.PreviewEvent, start time.Time) time.Time {
	day := ev.DayNumber
	if day < 1 {
		day = 1
	}
	hour, minute, ok := ParseStartTime(ev.StartTime)
	if !ok {
		hour, minute = 9, 0
	}
	base := start.AddDate(0, 0, day-1)
	return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, 0, 0, start.Location())
}

// BuildICS serializes preview events into an iCal document anchored at the
// given start date.
func BuildICS(events []api.PreviewEvent, start time.Time) (string, error) {
	if len(events) == 0 {
		return "", fmt.Errorf("no events to export")
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Travel AI Agent//Itinerary Export//EN")

	for _, ev := range events {
		begin := EventStart(ev, start)
		event := cal.AddEvent(uuid.NewString())
		event.SetCreatedTime(time.Now())
		event.SetStartAt(begin)
		event.SetEndAt(begin.Add(ParseDuration(ev.Duration)))
		event.SetSummary(eventSummary(ev))
		if ev.Location != "" {
			event.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			event.SetDescription(ev.Description)
		}
	}
	return cal.Serialize(), nil
}

func eventSummary(ev api.PreviewEvent) string {
	title := strings.TrimSpace(ev.DayTitle)
	if title == "" {
		title = strings.TrimSpace(ev.Description)
	}
	if title == "" {
		title = fmt.Sprintf("Day %d", ev.DayNumber)
	}
	return title
}
