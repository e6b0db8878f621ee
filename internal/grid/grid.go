// Package grid implements the pure math of the day view: the fixed table of
// hourly rows, proportional placement of event blocks inside a row, and the
// conversion of a pointer drop position back into a snapped wall-clock time.
package grid

import (
	"fmt"
	"math"
	"time"
)

const (
	// DefaultStartHour is the first visible row (07:00).
	DefaultStartHour = 7
	// DefaultEndHour is the exclusive end of the window (21:00).
	DefaultEndHour = 21

	// SnapMinutes is the quarter-hour snapping granularity for drops.
	SnapMinutes = 15

	// MinHeightPercent keeps sub-15-minute blocks visible and draggable.
	MinHeightPercent = 25
	// MaxHeightPercent clamps blocks that overflow their row band. Blocks of
	// an hour or less keep their proportional height; a full hour fills the
	// row at 100.
	MaxHeightPercent = 95
)

// Window is the contiguous range of clock hours shown in the day view.
// StartHour is inclusive, EndHour exclusive; the default window spans
// 07:00-21:00, fourteen rows.
type Window struct {
	StartHour int
	EndHour   int
}

// DefaultWindow returns the standard 07:00-21:00 window.
func DefaultWindow() Window {
	return Window{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
}

// Validate checks that the window describes at least one row within a day.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("invalid grid window %d..%d", w.StartHour, w.EndHour)
	}
	return nil
}

// Rows returns the number of hourly rows in the window.
func (w Window) Rows() int {
	return w.EndHour - w.StartHour
}

// Slot is one hourly row of the grid.
type Slot struct {
	Hour  int    `json:"hour"`
	Label string `json:"label"`
}

// Slots returns the row table for the window, first row first.
func (w Window) Slots() []Slot {
	slots := make([]Slot, 0, w.Rows())
	for h := w.StartHour; h < w.EndHour; h++ {
		slots = append(slots, Slot{Hour: h, Label: HourLabel(h)})
	}
	return slots
}

// HourLabel formats an hour of day as a 12-hour clock label like "7 AM".
func HourLabel(h int) string {
	switch {
	case h == 0:
		return "12 AM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	case h == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

// Placement positions an event block inside its row. TopPercent is the offset
// from the row top, HeightPercent the block height, both relative to one
// 60-minute row band.
type Placement struct {
	Row           int     `json:"row"`
	TopPercent    float64 `json:"topPercent"`
	HeightPercent float64 `json:"heightPercent"`
}

// Place maps an event to its row and block geometry. The second return value
// is false when the start hour falls outside the window; such events are
// simply not part of the visible set, which is not an error.
func (w Window) Place(start, end time.Time) (Placement, bool) {
	h := start.Hour()
	if h < w.StartHour || h >= w.EndHour {
		return Placement{}, false
	}

	top := float64(start.Minute()) / 60 * 100

	height := end.Sub(start).Minutes() / 60 * 100
	if height < MinHeightPercent {
		height = MinHeightPercent
	}
	if height > 100 {
		height = MaxHeightPercent
	}

	return Placement{
		Row:           h - w.StartHour,
		TopPercent:    top,
		HeightPercent: height,
	}, true
}

// DropTime converts a drop's vertical pixel position within a row into a
// snapped time of day. pointerY is the absolute pointer position, rowTop and
// rowHeight the row's pixel bounds, rowHour the row's hour value.
//
// The raw minute offset is snapped to the nearest quarter hour. A snapped
// value of 60 rolls over to the top of the next hour rather than clamping to
// :45, so a drop at the very bottom of a row lands on the following row's
// first slot.
func DropTime(pointerY, rowTop, rowHeight float64, rowHour int) (hour, minute int) {
	fraction := 0.0
	if rowHeight > 0 {
		fraction = (pointerY - rowTop) / rowHeight
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	raw := math.Floor(fraction * 60)
	snapped := int(math.Round(raw/SnapMinutes)) * SnapMinutes

	if snapped >= 60 {
		return rowHour + 1, 0
	}
	return rowHour, snapped
}
