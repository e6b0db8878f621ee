// Package ics serializes a loaded day into an iCalendar document so the grid
// can be exported to any standard calendar application.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"gitea.jw6.us/james/daygrid/internal/planner"
)

const productID = "-//daygrid//day export//EN"

// BuildDay renders the day's events as a VCALENDAR with one VEVENT each.
func BuildDay(day time.Time, events []planner.Event) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(fmt.Sprintf("DayGrid %s", day.Format("2006-01-02")))

	now := time.Now().UTC()
	for _, ev := range events {
		vevent := cal.AddEvent(uidFor(ev, day))
		vevent.SetDtStampTime(now)
		vevent.SetStartAt(ev.Start)
		vevent.SetEndAt(ev.End)
		vevent.SetSummary(ev.Title)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
	}

	return cal.Serialize()
}

// uidFor keeps the provider id as the UID; events the provider returned
// without one fall back to a day-scoped synthetic id.
func uidFor(ev planner.Event, day time.Time) string {
	if ev.ID != "" {
		return ev.ID
	}
	return fmt.Sprintf("%s-%02d%02d@daygrid", day.Format("20060102"), ev.Start.Hour(), ev.Start.Minute())
}
