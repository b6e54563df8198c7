// Package ics renders a user's merged calendar as an iCalendar feed for
// subscription from external calendar apps.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/campusbeat/campusbeat/internal/model"
)

const prodID = "-//CampusBeat//beat-service//EN"

// ContentType is the MIME type for serialized calendars.
const ContentType = "text/calendar; charset=utf-8"

// Export serializes calendar items as a VCALENDAR document. Shared items get
// stable "event-" UIDs so re-syncs update in place; personal items likewise
// with "personal-".
func Export(items []model.CalendarItem, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	for _, item := range items {
		switch item.Kind {
		case model.KindShared:
			ev := item.Shared.Event
			ve := cal.AddEvent("event-" + ev.EventID + "@campusbeat")
			ve.SetDtStampTime(now)
			ve.SetStartAt(ev.StartAt)
			ve.SetEndAt(ev.EndAt)
			ve.SetSummary(ev.Title)
			if ev.LocationName != nil {
				ve.SetLocation(*ev.LocationName)
			}
			if ev.Description != nil {
				ve.SetDescription(*ev.Description)
			}
			ve.SetOrganizer(ev.Entity.Name)
		case model.KindPersonal:
			pe := item.Personal
			ve := cal.AddEvent("personal-" + pe.PersonalEventID + "@campusbeat")
			ve.SetDtStampTime(now)
			ve.SetStartAt(pe.StartAt)
			ve.SetEndAt(pe.EndAt)
			ve.SetSummary(pe.Title)
			if pe.LocationName != nil {
				ve.SetLocation(*pe.LocationName)
			}
			if pe.Notes != nil {
				ve.SetDescription(*pe.Notes)
			}
		}
	}
	return cal.Serialize()
}
