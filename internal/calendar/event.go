// Package calendar is the client for the external calendar provider: a
// Google-style REST API plus the token endpoint that exchanges the ambient
// session credential for a short-lived bearer token.
package calendar

import (
	"fmt"
	"time"
)

// EventTime is the provider's wire representation of an instant: an RFC 3339
// timestamp paired with an IANA timezone name.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

// NewEventTime builds the wire form of t, carrying its location name.
func NewEventTime(t time.Time) EventTime {
	return EventTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: t.Location().String(),
	}
}

// Time parses the instant, shifting it into the named timezone when one is
// present and loadable; otherwise the RFC 3339 offset stands.
func (et EventTime) Time() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, et.DateTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse event time %q: %w", et.DateTime, err)
	}
	if et.TimeZone != "" {
		if loc, lerr := time.LoadLocation(et.TimeZone); lerr == nil {
			t = t.In(loc)
		}
	}
	return t, nil
}

// Event is a provider calendar entry.
type Event struct {
	ID          string    `json:"id,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	ColorID     string    `json:"colorId,omitempty"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
}
