package engine_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-countdown/internal/engine"
)

func TestBuildCalendar_Events(t *testing.T) {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	labels := engine.CalendarLabels{
		Step:        func(step int) string { return fmt.Sprintf("Card %d unlocks", step) },
		Anniversary: "Anniversary surprise",
		Finale:      "Valentine's Day",
	}

	data, err := engine.BuildCalendar(valentine(), now, labels)
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Equal(t, 14, strings.Count(ics, "BEGIN:VEVENT"), "12 steps + anniversary + finale")

	assert.Contains(t, ics, "SUMMARY:Card 1 unlocks")
	assert.Contains(t, ics, "SUMMARY:Card 12 unlocks")
	assert.Contains(t, ics, "UID:"+engine.EventUID(valentine(), "step-1"))
	assert.Contains(t, ics, "UID:"+engine.EventUID(valentine(), "anniversary"))
	assert.Contains(t, ics, "DTSTART:20260202T000000Z")
	assert.Contains(t, ics, "DTSTART:20260213T000000Z", "last step starts on the eve of the target")
	assert.Contains(t, ics, "DTSTART:20260211T000000Z")
	assert.Contains(t, ics, "DTSTART:20260214T000000Z")
	assert.Contains(t, ics, "DTSTAMP:20260115T090000Z")

	// Only the finale carries the urgency alarm.
	assert.Equal(t, 1, strings.Count(ics, "BEGIN:VALARM"))
	assert.Contains(t, ics, "TRIGGER:-P1D")
	assert.Contains(t, ics, "ACTION:DISPLAY")
}

// TestBuildCalendar_RoundTrip decodes the export to make sure it is a valid feed.
func TestBuildCalendar_RoundTrip(t *testing.T) {
	data, err := engine.BuildCalendar(valentine(), time.Now(), engine.CalendarLabels{})
	require.NoError(t, err)

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 14)

	summary, err := events[0].Props.Text("SUMMARY")
	require.NoError(t, err)
	assert.Equal(t, "Day 1", summary, "missing step labels fall back to a default title")
}

func TestBuildCalendar_LocalTimesExportedAsUTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	s := engine.Schedule{
		Start:       time.Date(2026, 2, 2, 0, 0, 0, 0, tokyo),
		End:         time.Date(2026, 2, 3, 0, 0, 0, 0, tokyo),
		Anniversary: time.Date(2026, 2, 3, 0, 0, 0, 0, tokyo),
		TotalSteps:  1,
	}

	data, err := engine.BuildCalendar(s, time.Now(), engine.CalendarLabels{})
	require.NoError(t, err)

	ics := string(data)
	assert.Contains(t, ics, "DTSTART:20260201T150000Z")
	assert.NotContains(t, ics, "TZID")
}

func TestEventUID(t *testing.T) {
	s := valentine()

	uid := engine.EventUID(s, "step-1")
	assert.True(t, strings.HasSuffix(uid, "@gocountdown"))
	id, err := uuid.Parse(strings.TrimSuffix(uid, "@gocountdown"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(5), id.Version())

	assert.Equal(t, uid, engine.EventUID(s, "step-1"), "stable across exports")
	assert.NotEqual(t, uid, engine.EventUID(s, "step-2"))

	moved := s
	moved.Start = moved.Start.Add(24 * time.Hour)
	assert.NotEqual(t, uid, engine.EventUID(moved, "step-1"), "another schedule gets other UIDs")
}
