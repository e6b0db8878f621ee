package grid_test

import (
	"testing"
	"time"

	"gitea.jw6.us/james/daygrid/internal/grid"
)

func TestWindowSlots(t *testing.T) {
	w := grid.DefaultWindow()
	slots := w.Slots()

	if len(slots) != 14 {
		t.Fatalf("expected 14 rows, got %d", len(slots))
	}
	if slots[0].Hour != 7 || slots[0].Label != "7 AM" {
		t.Errorf("first slot = %+v, want hour 7 / 7 AM", slots[0])
	}
	if slots[13].Hour != 20 || slots[13].Label != "8 PM" {
		t.Errorf("last slot = %+v, want hour 20 / 8 PM", slots[13])
	}
}

func TestHourLabel(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "12 AM"},
		{7, "7 AM"},
		{11, "11 AM"},
		{12, "12 PM"},
		{13, "1 PM"},
		{20, "8 PM"},
		{23, "11 PM"},
	}
	for _, tt := range tests {
		if got := grid.HourLabel(tt.hour); got != tt.want {
			t.Errorf("HourLabel(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestPlaceRowAssignment(t *testing.T) {
	w := grid.DefaultWindow()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	for h := 7; h < 21; h++ {
		start := grid.At(day, h, 0)
		p, ok := w.Place(start, start.Add(30*time.Minute))
		if !ok {
			t.Fatalf("hour %d: expected placement", h)
		}
		if p.Row != h-7 {
			t.Errorf("hour %d: row = %d, want %d", h, p.Row, h-7)
		}
	}

	for _, h := range []int{0, 5, 6, 21, 22, 23} {
		start := grid.At(day, h, 0)
		if _, ok := w.Place(start, start.Add(30*time.Minute)); ok {
			t.Errorf("hour %d: expected event outside window to be dropped", h)
		}
	}
}

func TestPlaceGeometry(t *testing.T) {
	w := grid.DefaultWindow()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)

	tests := []struct {
		name       string
		start      time.Time
		duration   time.Duration
		wantTop    float64
		wantHeight float64
	}{
		{"on the hour, full hour", grid.At(day, 9, 0), 60 * time.Minute, 0, 100},
		{"half past", grid.At(day, 9, 30), 30 * time.Minute, 50, 50},
		{"ten minutes floors to min height", grid.At(day, 9, 0), 10 * time.Minute, 0, 25},
		{"ninety minutes clamps to row bound", grid.At(day, 9, 0), 90 * time.Minute, 0, 95},
		{"two hours caps at row bound", grid.At(day, 9, 0), 120 * time.Minute, 0, 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := w.Place(tt.start, tt.start.Add(tt.duration))
			if !ok {
				t.Fatal("expected placement")
			}
			if p.TopPercent != tt.wantTop {
				t.Errorf("top = %v, want %v", p.TopPercent, tt.wantTop)
			}
			if p.HeightPercent != tt.wantHeight {
				t.Errorf("height = %v, want %v", p.HeightPercent, tt.wantHeight)
			}
		})
	}
}

func TestDropTimeSnapping(t *testing.T) {
	// A 100px row starting at hour 9: pointerY maps linearly to minutes.
	tests := []struct {
		name       string
		pointerY   float64
		wantHour   int
		wantMinute int
	}{
		{"top of row", 0, 9, 0},
		{"halfway snaps to :30", 50, 9, 30},
		{"raw 52 snaps down to :45", 52.0 / 60 * 100, 9, 45},
		{"raw 58 rolls over to next hour", 58.0 / 60 * 100, 10, 0},
		{"bottom of row rolls over", 100, 10, 0},
		{"pointer above row clamps to :00", -40, 9, 0},
		{"pointer below row clamps and rolls over", 240, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := grid.DropTime(tt.pointerY, 0, 100, 9)
			if h != tt.wantHour || m != tt.wantMinute {
				t.Errorf("DropTime = %d:%02d, want %d:%02d", h, m, tt.wantHour, tt.wantMinute)
			}
		})
	}
}

func TestDropTimeZeroHeightRow(t *testing.T) {
	h, m := grid.DropTime(120, 100, 0, 14)
	if h != 14 || m != 0 {
		t.Errorf("DropTime with zero-height row = %d:%02d, want 14:00", h, m)
	}
}
