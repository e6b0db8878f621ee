package httpserver_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gitea.jw6.us/james/daygrid/internal/calendar"
	"gitea.jw6.us/james/daygrid/internal/grid"
	httpserver "gitea.jw6.us/james/daygrid/internal/http"
	"gitea.jw6.us/james/daygrid/internal/planner"
)

type fakeSource struct {
	events  []calendar.Event
	created []calendar.Event
}

func (f *fakeSource) List(ctx context.Context, from, to time.Time) ([]calendar.Event, error) {
	var out []calendar.Event
	for _, ev := range f.events {
		start, err := ev.Start.Time()
		if err != nil {
			continue
		}
		if !start.Before(from) && start.Before(to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeSource) Create(ctx context.Context, event calendar.Event) (calendar.Event, error) {
	event.ID = fmt.Sprintf("created-%d", len(f.created)+1)
	f.created = append(f.created, event)
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeSource) Update(ctx context.Context, id string, event calendar.Event) (calendar.Event, error) {
	event.ID = id
	for i, ev := range f.events {
		if ev.ID == id {
			f.events[i] = event
		}
	}
	return event, nil
}

func testNow() time.Time {
	return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
}

func newTestHandler(src *fakeSource) *httpserver.GridHandler {
	window := grid.Window{StartHour: grid.DefaultStartHour, EndHour: grid.DefaultEndHour}
	p := planner.New(src, window, testNow)
	return httpserver.NewGridHandler(p, window, nil)
}

func TestGridSnapshot(t *testing.T) {
	day := testNow()
	src := &fakeSource{events: []calendar.Event{
		{
			ID:      "ev-1",
			Summary: "Standup",
			Start:   calendar.NewEventTime(time.Date(day.Year(), day.Month(), day.Day(), 9, 30, 0, 0, time.UTC)),
			End:     calendar.NewEventTime(time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.UTC)),
		},
	}}
	handler := newTestHandler(src)

	rec := httptest.NewRecorder()
	handler.Grid(rec, httptest.NewRequest(http.MethodGet, "/api/grid", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var view struct {
		Day    string `json:"day"`
		Slots  []struct {
			Hour  int    `json:"hour"`
			Label string `json:"label"`
		} `json:"slots"`
		Events []struct {
			ID         string  `json:"id"`
			Row        int     `json:"row"`
			TopPercent float64 `json:"topPercent"`
		} `json:"events"`
		Phase string `json:"phase"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if view.Day != "2026-03-02" {
		t.Errorf("day = %q", view.Day)
	}
	if len(view.Slots) != 14 {
		t.Errorf("slots = %d, want 14", len(view.Slots))
	}
	if len(view.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(view.Events))
	}
	if view.Events[0].Row != 2 || view.Events[0].TopPercent != 50 {
		t.Errorf("placement = row %d top %v", view.Events[0].Row, view.Events[0].TopPercent)
	}
	if view.Phase != "idle" {
		t.Errorf("phase = %q", view.Phase)
	}
}

func TestDropTask(t *testing.T) {
	src := &fakeSource{}
	handler := newTestHandler(src)

	body := `{"kind":"task","title":"Write report","estimatedMinutes":45,
		"rowHour":14,"pointerY":50,"rowTop":0,"rowHeight":100}`
	rec := httptest.NewRecorder()
	handler.Drop(rec, httptest.NewRequest(http.MethodPost, "/api/grid/drop", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(src.created) != 1 {
		t.Fatalf("expected 1 created event, got %d", len(src.created))
	}

	created := src.created[0]
	start, err := created.Start.Time()
	if err != nil {
		t.Fatalf("parse created start: %v", err)
	}
	if start.Hour() != 14 || start.Minute() != 30 {
		t.Errorf("created start = %v, want 14:30", start)
	}
	end, err := created.End.Time()
	if err != nil {
		t.Fatalf("parse created end: %v", err)
	}
	if got := end.Sub(start); got != 45*time.Minute {
		t.Errorf("created duration = %v, want 45m", got)
	}
	if created.Summary != "Write report" {
		t.Errorf("created summary = %q", created.Summary)
	}
}

func TestDropUnknownKindIgnored(t *testing.T) {
	src := &fakeSource{}
	handler := newTestHandler(src)

	body := `{"kind":"file","rowHour":9,"pointerY":10,"rowTop":0,"rowHeight":100}`
	rec := httptest.NewRecorder()
	handler.Drop(rec, httptest.NewRequest(http.MethodPost, "/api/grid/drop", strings.NewReader(body)))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if len(src.created) != 0 {
		t.Errorf("unexpected created events: %d", len(src.created))
	}
}

func TestDropOutsideWindowRejected(t *testing.T) {
	handler := newTestHandler(&fakeSource{})

	for _, hour := range []int{6, 21, -1} {
		body := fmt.Sprintf(`{"kind":"task","title":"x","rowHour":%d,"pointerY":0,"rowTop":0,"rowHeight":100}`, hour)
		rec := httptest.NewRecorder()
		handler.Drop(rec, httptest.NewRequest(http.MethodPost, "/api/grid/drop", strings.NewReader(body)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("rowHour %d: status = %d, want 400", hour, rec.Code)
		}
	}
}

func TestDropMalformedBody(t *testing.T) {
	handler := newTestHandler(&fakeSource{})

	rec := httptest.NewRecorder()
	handler.Drop(rec, httptest.NewRequest(http.MethodPost, "/api/grid/drop", strings.NewReader("{not json")))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDropUnknownEventNoOp(t *testing.T) {
	src := &fakeSource{}
	handler := newTestHandler(src)

	body := `{"kind":"event","eventId":"missing","rowHour":9,"pointerY":0,"rowTop":0,"rowHeight":100}`
	rec := httptest.NewRecorder()
	handler.Drop(rec, httptest.NewRequest(http.MethodPost, "/api/grid/drop", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if len(src.created) != 0 {
		t.Errorf("unexpected create calls for stale event payload: %d", len(src.created))
	}
}

func TestTasksNotConfigured(t *testing.T) {
	handler := newTestHandler(&fakeSource{})

	rec := httptest.NewRecorder()
	handler.Tasks(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestExportICS(t *testing.T) {
	day := testNow()
	src := &fakeSource{events: []calendar.Event{
		{
			ID:      "ev-1",
			Summary: "Standup",
			Start:   calendar.NewEventTime(time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, time.UTC)),
			End:     calendar.NewEventTime(time.Date(day.Year(), day.Month(), day.Day(), 9, 30, 0, 0, time.UTC)),
		},
	}}
	handler := newTestHandler(src)

	rec := httptest.NewRecorder()
	handler.ExportICS(rec, httptest.NewRequest(http.MethodGet, "/api/grid/export.ics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "SUMMARY:Standup") {
		t.Error("expected event summary in ICS body")
	}
}
