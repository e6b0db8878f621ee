package grid_test

import (
	"testing"
	"time"

	"gitea.jw6.us/james/daygrid/internal/grid"
)

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 3, 2, 9, 15, 0, 0, time.UTC)
	b := time.Date(2026, 3, 2, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	if !grid.SameDay(a, b) {
		t.Error("expected a and b on the same day")
	}
	if grid.SameDay(a, c) {
		t.Error("expected a and c on different days")
	}
}

func TestSameDayAcrossZones(t *testing.T) {
	// 23:30 UTC on March 2 is already March 3 in a UTC+2 zone; equality is
	// judged in the first argument's location.
	loc := time.FixedZone("UTC+2", 2*60*60)
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, loc)
	evt := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)

	if !grid.SameDay(day, evt) {
		t.Error("expected event to fall on March 3 in UTC+2")
	}
}

func TestDayNavigation(t *testing.T) {
	day := time.Date(2026, 3, 2, 14, 45, 0, 0, time.Local)

	next := grid.NextDay(day)
	if next.Day() != 3 || next.Hour() != 0 {
		t.Errorf("NextDay = %v, want March 3 00:00", next)
	}

	prev := grid.PreviousDay(next)
	if !prev.Equal(grid.StartOfDay(day)) {
		t.Errorf("PreviousDay(NextDay(d)) = %v, want %v", prev, grid.StartOfDay(day))
	}
}

func TestAt(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	got := grid.At(day, 14, 45)
	want := time.Date(2026, 3, 2, 14, 45, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("At = %v, want %v", got, want)
	}
}
