package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gitea.jw6.us/james/daygrid/internal/calendar"
	"gitea.jw6.us/james/daygrid/internal/grid"
	httperrors "gitea.jw6.us/james/daygrid/internal/http/errors"
	"gitea.jw6.us/james/daygrid/internal/ics"
	"gitea.jw6.us/james/daygrid/internal/metrics"
	"gitea.jw6.us/james/daygrid/internal/planner"
	"gitea.jw6.us/james/daygrid/internal/tasks"
)

// GridHandler serves the day view API consumed by the host UI.
type GridHandler struct {
	planner *planner.Planner
	window  grid.Window
	tasks   *tasks.Client
}

func NewGridHandler(p *planner.Planner, window grid.Window, taskClient *tasks.Client) *GridHandler {
	return &GridHandler{planner: p, window: window, tasks: taskClient}
}

type eventView struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Location      string    `json:"location,omitempty"`
	Color         string    `json:"color,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	Row           int       `json:"row"`
	TopPercent    float64   `json:"topPercent"`
	HeightPercent float64   `json:"heightPercent"`
}

type snapshotView struct {
	Day    string      `json:"day"`
	Slots  []grid.Slot `json:"slots"`
	Events []eventView `json:"events"`
	Phase  string      `json:"phase"`
	Banner string      `json:"banner,omitempty"`
}

// Grid returns the current day view, loading events on first use and after
// each day change.
func (h *GridHandler) Grid(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.Refresh(r.Context()); err != nil {
		if errors.Is(err, calendar.ErrUnauthorized) {
			http.Error(w, "calendar authorization failed", http.StatusUnauthorized)
			return
		}
		// The snapshot carries the error banner; the view still renders.
		httperrors.LogError(r, "refresh day view", err)
	}
	h.writeSnapshot(w, r)
}

// Next advances the selected day by one and reloads.
func (h *GridHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, planner.DirectionNext)
}

// Previous retreats the selected day by one and reloads.
func (h *GridHandler) Previous(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, planner.DirectionPrevious)
}

func (h *GridHandler) navigate(w http.ResponseWriter, r *http.Request, dir planner.Direction) {
	if err := h.planner.SelectDay(r.Context(), dir); err != nil {
		if errors.Is(err, calendar.ErrUnauthorized) {
			http.Error(w, "calendar authorization failed", http.StatusUnauthorized)
			return
		}
		httperrors.LogError(r, "load events after navigation", err)
	}
	h.writeSnapshot(w, r)
}

type dropRequest struct {
	Kind string `json:"kind"`

	// Task payload fields.
	Title            string `json:"title"`
	Description      string `json:"description"`
	EstimatedMinutes int    `json:"estimatedMinutes"`

	// Event payload field.
	EventID string `json:"eventId"`

	// Row-relative drop geometry.
	RowHour   int     `json:"rowHour"`
	PointerY  float64 `json:"pointerY"`
	RowTop    float64 `json:"rowTop"`
	RowHeight float64 `json:"rowHeight"`
}

// Drop completes a drag interaction: it snaps the drop geometry to a
// quarter-hour and either schedules a task or moves an event.
func (h *GridHandler) Drop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.BadRequestError(w, r, err, "invalid drop request")
		return
	}
	if req.RowHour < h.window.StartHour || req.RowHour >= h.window.EndHour {
		httperrors.BadRequestError(w, r, fmt.Errorf("row hour %d outside window", req.RowHour), "invalid drop row")
		return
	}

	var payload planner.DropPayload
	switch req.Kind {
	case "task":
		payload = planner.TaskPayload{
			Title:            req.Title,
			Description:      req.Description,
			EstimatedMinutes: req.EstimatedMinutes,
		}
	case "event":
		payload = planner.EventPayload{ID: req.EventID}
	default:
		// Unknown drag data is ignored rather than reported.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	hour, minute := grid.DropTime(req.PointerY, req.RowTop, req.RowHeight, req.RowHour)

	applied, err := h.planner.Drop(r.Context(), payload, hour, minute)
	switch {
	case errors.Is(err, planner.ErrBusy):
		metrics.CountDrop(req.Kind, "busy")
		http.Error(w, "a drop is already pending", http.StatusConflict)
		return
	case errors.Is(err, calendar.ErrUnauthorized):
		metrics.CountDrop(req.Kind, "unauthorized")
		http.Error(w, "calendar authorization failed", http.StatusUnauthorized)
		return
	case err != nil:
		metrics.CountDrop(req.Kind, "error")
		httperrors.BadGatewayError(w, r, err, "calendar provider error")
		return
	}

	if !applied {
		// Stale drag data referencing nothing we know about; no mutation ran.
		metrics.CountDrop(req.Kind, "ignored")
		h.writeSnapshot(w, r)
		return
	}

	metrics.CountDrop(req.Kind, "ok")
	h.writeSnapshot(w, r)
}

// Tasks lists the schedulable tasks for the drag tray.
func (h *GridHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	if h.tasks == nil || !h.tasks.IsConfigured() {
		http.Error(w, "task source not configured", http.StatusNotFound)
		return
	}

	list, err := h.tasks.List(r.Context())
	if err != nil {
		httperrors.BadGatewayError(w, r, err, "task source error")
		return
	}
	h.writeJSON(w, r, list)
}

// ExportICS serializes the selected day as an iCalendar document.
func (h *GridHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	if err := h.planner.Refresh(r.Context()); err != nil {
		if errors.Is(err, calendar.ErrUnauthorized) {
			http.Error(w, "calendar authorization failed", http.StatusUnauthorized)
			return
		}
		httperrors.BadGatewayError(w, r, err, "calendar provider error")
		return
	}

	snap := h.planner.Snapshot()
	body := ics.BuildDay(snap.Day, snap.Events)

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="daygrid-%s.ics"`, snap.Day.Format("2006-01-02")))
	_, _ = w.Write([]byte(body))
}

func (h *GridHandler) writeSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := h.planner.Snapshot()

	view := snapshotView{
		Day:    snap.Day.Format("2006-01-02"),
		Slots:  snap.Slots,
		Phase:  string(snap.Phase),
		Banner: snap.Banner,
	}
	for _, ev := range snap.Events {
		if !ev.Placed {
			continue
		}
		view.Events = append(view.Events, eventView{
			ID:            ev.ID,
			Title:         ev.Title,
			Description:   ev.Description,
			Location:      ev.Location,
			Color:         ev.Color,
			Start:         ev.Start,
			End:           ev.End,
			Row:           ev.Placement.Row,
			TopPercent:    ev.Placement.TopPercent,
			HeightPercent: ev.Placement.HeightPercent,
		})
	}

	h.writeJSON(w, r, view)
}

func (h *GridHandler) writeJSON(w http.ResponseWriter, r *http.Request, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		httperrors.LogError(r, "encode response", err)
	}
}
