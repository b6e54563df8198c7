package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"

	"github.com/campusbeat/campusbeat/internal/model"
)

func TestExport(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	loc := "main quad"

	items := []model.CalendarItem{
		model.NewSharedItem(model.SharedItem{
			Event: model.EventWithEntity{
				Event: model.Event{
					EventID:      "ev-1",
					Title:        "spring fair",
					StartAt:      now.Add(time.Hour),
					EndAt:        now.Add(3 * time.Hour),
					LocationName: &loc,
				},
				Entity: model.EntityRef{EntityID: "en-1", Name: "events board"},
			},
		}),
		model.NewPersonalItem(model.PersonalEvent{
			PersonalEventID: "pe-1",
			Title:           "dentist",
			StartAt:         now.Add(5 * time.Hour),
			EndAt:           now.Add(6 * time.Hour),
		}),
	}

	out := Export(items, now)
	require.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	require.Contains(t, out, "SUMMARY:spring fair")
	require.Contains(t, out, "LOCATION:main quad")
	require.Contains(t, out, "SUMMARY:dentist")
	require.Contains(t, out, "event-ev-1@campusbeat")
	require.Contains(t, out, "personal-pe-1@campusbeat")

	// Round-trips through the parser with both events intact.
	cal, err := ical.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 2)
}

func TestExportEmpty(t *testing.T) {
	out := Export(nil, time.Now())
	require.Contains(t, out, "BEGIN:VCALENDAR")
	require.Contains(t, out, "END:VCALENDAR")
	require.NotContains(t, out, "BEGIN:VEVENT")
}
