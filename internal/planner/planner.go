// Package planner holds the day view's interaction state: the selected day,
// the events loaded for it, and the drag/drop state machine that turns a
// snapped drop time into a provider mutation followed by a full reload.
package planner

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"gitea.jw6.us/james/daygrid/internal/calendar"
	"gitea.jw6.us/james/daygrid/internal/grid"
)

// DefaultTaskMinutes is the event duration used when a dropped task carries
// no estimate.
const DefaultTaskMinutes = 60

// ErrBusy rejects a drop while a previous mutation is still in flight.
var ErrBusy = errors.New("a drop is already pending")

// Direction navigates the selected day.
type Direction string

const (
	DirectionNext     Direction = "next"
	DirectionPrevious Direction = "previous"
)

// Phase is the drag interaction state. Pending disables further drop
// acceptance so mutating calls never overlap.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
	PhaseError   Phase = "error"
)

// EventSource is the external calendar collaborator contract.
type EventSource interface {
	List(ctx context.Context, from, to time.Time) ([]calendar.Event, error)
	Create(ctx context.Context, event calendar.Event) (calendar.Event, error)
	Update(ctx context.Context, id string, event calendar.Event) (calendar.Event, error)
}

// Event is a provider event parsed and positioned for the selected day.
// Placed is false for events of the day whose start hour falls outside the
// visible window; they are loaded but not rendered.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Color       string
	Start       time.Time
	End         time.Time
	Placement   grid.Placement
	Placed      bool
}

// Snapshot is an immutable view of the planner for rendering.
type Snapshot struct {
	Day    time.Time
	Slots  []grid.Slot
	Events []Event
	Phase  Phase
	Banner string
}

// Planner is the single mounted day view component. All state transitions go
// through the mutex; provider calls run outside it.
type Planner struct {
	source EventSource
	window grid.Window
	now    func() time.Time

	mu        sync.Mutex
	day       time.Time
	loadedFor time.Time
	events    []Event
	phase     Phase
	banner    string
}

// New builds a planner selecting today's date. now is injectable for tests;
// pass nil for the wall clock.
func New(source EventSource, window grid.Window, now func() time.Time) *Planner {
	if now == nil {
		now = time.Now
	}
	p := &Planner{
		source: source,
		window: window,
		now:    now,
		phase:  PhaseIdle,
	}
	p.day = grid.StartOfDay(p.now())
	return p
}

// Day returns the start of the currently selected day.
func (p *Planner) Day() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.day
}

// SelectDay moves the selected day by one and reloads it in full.
func (p *Planner) SelectDay(ctx context.Context, dir Direction) error {
	p.mu.Lock()
	switch dir {
	case DirectionPrevious:
		p.day = grid.PreviousDay(p.day)
	default:
		p.day = grid.NextDay(p.day)
	}
	p.mu.Unlock()

	return p.Load(ctx)
}

// Load fetches the selected day's events from the provider and replaces the
// in-memory list. The provider may return a wider window than asked for, so
// results are filtered by local calendar-day equality. On failure the banner
// is set and the previously loaded list is retained.
func (p *Planner) Load(ctx context.Context) error {
	p.mu.Lock()
	day := p.day
	p.mu.Unlock()

	items, err := p.source.List(ctx, day, grid.NextDay(day))
	if err != nil {
		log.Printf("[ERROR] load events for %s: %v", day.Format("2006-01-02"), err)
		p.setBanner(loadErrorMessage(err))
		return err
	}

	events := make([]Event, 0, len(items))
	for _, item := range items {
		start, serr := item.Start.Time()
		end, eerr := item.End.Time()
		if serr != nil || eerr != nil {
			// Skip items the provider sent with unparseable times.
			continue
		}
		start = start.In(day.Location())
		end = end.In(day.Location())
		if !grid.SameDay(day, start) {
			continue
		}

		placement, placed := p.window.Place(start, end)
		events = append(events, Event{
			ID:          item.ID,
			Title:       item.Summary,
			Description: item.Description,
			Location:    item.Location,
			Color:       item.ColorID,
			Start:       start,
			End:         end,
			Placement:   placement,
			Placed:      placed,
		})
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Last resolved load wins; repaint the full list.
	p.events = events
	p.loadedFor = day
	p.banner = ""
	if p.phase == PhaseError {
		p.phase = PhaseIdle
	}
	return nil
}

// Refresh loads the selected day only when the loaded list is stale, i.e. on
// first use and after each day change.
func (p *Planner) Refresh(ctx context.Context) error {
	p.mu.Lock()
	stale := !p.loadedFor.Equal(p.day)
	p.mu.Unlock()

	if !stale {
		return nil
	}
	return p.Load(ctx)
}

// Drop handles a completed drag interaction at the snapped time hour:minute.
// Task payloads create a new event; event payloads move an existing one. A
// payload referencing nothing the planner knows about is silently ignored.
// The boolean reports whether a provider mutation ran; it is false on the
// ignored path so callers can tell a no-op from a scheduled change.
func (p *Planner) Drop(ctx context.Context, payload DropPayload, hour, minute int) (bool, error) {
	p.mu.Lock()
	if p.phase == PhasePending {
		p.mu.Unlock()
		return false, ErrBusy
	}

	day := p.day
	start := grid.At(day, hour, minute)

	var mutate func(context.Context) error
	switch pl := payload.(type) {
	case TaskPayload:
		minutes := pl.EstimatedMinutes
		if minutes <= 0 {
			minutes = DefaultTaskMinutes
		}
		event := calendar.Event{
			Summary:     pl.Title,
			Description: pl.Description,
			Start:       calendar.NewEventTime(start),
			End:         calendar.NewEventTime(start.Add(time.Duration(minutes) * time.Minute)),
		}
		mutate = func(ctx context.Context) error {
			_, err := p.source.Create(ctx, event)
			return err
		}

	case EventPayload:
		existing, ok := p.findLocked(pl.ID)
		if !ok {
			// Stale or malformed drag data; fall through to the no-op path.
			p.mu.Unlock()
			return false, nil
		}
		// The moved event lands on the selected day and keeps its duration.
		duration := existing.End.Sub(existing.Start)
		event := calendar.Event{
			Summary:     existing.Title,
			Description: existing.Description,
			Location:    existing.Location,
			ColorID:     existing.Color,
			Start:       calendar.NewEventTime(start),
			End:         calendar.NewEventTime(start.Add(duration)),
		}
		id := existing.ID
		mutate = func(ctx context.Context) error {
			_, err := p.source.Update(ctx, id, event)
			return err
		}

	default:
		p.mu.Unlock()
		return false, nil
	}

	p.phase = PhasePending
	p.mu.Unlock()

	if err := mutate(ctx); err != nil {
		log.Printf("[ERROR] drop mutation: %v", err)
		p.mu.Lock()
		p.phase = PhaseError
		p.banner = dropErrorMessage(err)
		p.mu.Unlock()
		return false, err
	}

	p.mu.Lock()
	p.phase = PhaseIdle
	p.mu.Unlock()

	return true, p.Load(ctx)
}

// Snapshot returns the current rendering state. Events carries the full
// loaded day; callers filter on Placed for the visible set.
func (p *Planner) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	events := make([]Event, len(p.events))
	copy(events, p.events)

	return Snapshot{
		Day:    p.day,
		Slots:  p.window.Slots(),
		Events: events,
		Phase:  p.phase,
		Banner: p.banner,
	}
}

func (p *Planner) findLocked(id string) (Event, bool) {
	for _, ev := range p.events {
		if ev.ID == id {
			return ev, true
		}
	}
	return Event{}, false
}

func (p *Planner) setBanner(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.banner = msg
	if p.phase == PhaseIdle {
		p.phase = PhaseError
	}
}

func loadErrorMessage(err error) string {
	if errors.Is(err, calendar.ErrUnauthorized) {
		return "Calendar authorization failed. Please sign in again."
	}
	return "Could not load calendar events."
}

func dropErrorMessage(err error) string {
	if errors.Is(err, calendar.ErrUnauthorized) {
		return "Calendar authorization failed. Please sign in again."
	}
	return "Could not save the event."
}
