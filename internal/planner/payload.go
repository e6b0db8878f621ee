package planner

// DropPayload is the transient data carried by a drag interaction. It is one
// of two tagged variants: a task being scheduled for the first time, or an
// already-loaded event being moved to a new slot.
type DropPayload interface {
	dropPayload()
}

// TaskPayload schedules an external task as a new event at the drop time.
type TaskPayload struct {
	Title            string
	Description      string
	EstimatedMinutes int
}

func (TaskPayload) dropPayload() {}

// EventPayload moves an existing event, identified by its provider id, to the
// drop time on the selected day.
type EventPayload struct {
	ID string
}

func (EventPayload) dropPayload() {}
