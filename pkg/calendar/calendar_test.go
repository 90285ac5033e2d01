package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TechTinkerPradhan/Travel-AI-agent/pkg/api"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"2 hours", 2 * time.Hour},
		{"1 hour", time.Hour},
		{"1.5 hrs", 90 * time.Minute},
		{"90 minutes", 90 * time.Minute},
		{"45 mins", 45 * time.Minute},
		{"3h", 3 * time.Hour},
		{"", time.Hour},
		{"a while", time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDuration(tt.in))
		})
	}
}

func TestParseStartTime(t *testing.T) {
	hour, minute, ok := ParseStartTime("09:30")
	require.True(t, ok)
	assert.Equal(t, 9, hour)
	assert.Equal(t, 30, minute)

	hour, minute, ok = ParseStartTime("3:15 PM")
	require.True(t, ok)
	assert.Equal(t, 15, hour)
	assert.Equal(t, 15, minute)

	_, _, ok = ParseStartTime("midmorning")
	assert.False(t, ok)
}

func TestGroupByDay(t *testing.T) {
	events := []api.PreviewEvent{
		{DayNumber: 2, DayTitle: "Temples", Description: "Kinkaku-ji"},
		{DayNumber: 1, DayTitle: "Arrival", Description: "Check in"},
		{DayNumber: 2, Description: "Tea ceremony"},
		{DayNumber: 0, Description: "Flight"},
	}

	days := GroupByDay(events)
	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].Number)
	assert.Equal(t, 2, days[1].Number)
	// Missing day numbers land on day 1.
	assert.Len(t, days[0].Events, 2)
	assert.Equal(t, "Temples", days[1].Title)
}

func TestEventStart(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	got := EventStart(api.PreviewEvent{DayNumber: 3, StartTime: "14:30"}, start)
	assert.Equal(t, time.Date(2026, 9, 3, 14, 30, 0, 0, time.UTC), got)

	// Unparseable clock times default to 09:00 on the right day.
	got = EventStart(api.PreviewEvent{DayNumber: 1, StartTime: "morning"}, start)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), got)
}

func TestBuildICS(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	events := []api.PreviewEvent{
		{DayNumber: 1, DayTitle: "Arrival", Description: "Check in", StartTime: "15:00", Duration: "1 hour", Location: "Gion, Kyoto"},
		{DayNumber: 2, DayTitle: "Temples", Description: "Kinkaku-ji", StartTime: "09:00", Duration: "2 hours", Location: "Kyoto"},
	}

	out, err := BuildICS(events, start)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:Arrival")
	assert.Contains(t, out, "Gion")
	assert.Contains(t, out, "DTSTART:20260902T090000Z")
}

func TestBuildICSEmpty(t *testing.T) {
	_, err := BuildICS(nil, time.Now())
	require.Error(t, err)
}
