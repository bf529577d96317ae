package backfill

import "fmt"

// Status classifies what happened to one week during a run.
type Status int

const (
	// StatusWorking means the week is being fetched and merged.
	StatusWorking Status = iota

	// StatusSkipped means a report already existed for the week.
	StatusSkipped

	// StatusNoData means the week had no time entries.
	StatusNoData

	// StatusComplete means the week's report was merged and written.
	StatusComplete

	// StatusReplaced means an existing report was overwritten (replace mode).
	StatusReplaced

	// StatusFailed means the week errored; the run continues regardless.
	StatusFailed
)

// Event is one progress notification from a backfill run.
type Event struct {
	// Label is the week-ending label being processed.
	Label string

	// Index is the 1-based position in the run; Total is the week count.
	Index int
	Total int

	Status  Status
	Message string
}

// ProgressReporter emits events through a buffered channel.
type ProgressReporter struct {
	ch chan Event
}

// NewProgressReporter creates a ProgressReporter with a buffered channel of size 64.
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		ch: make(chan Event, 64),
	}
}

// Emit sends a progress event in a non-blocking fashion.
// If the channel is full, the event is silently dropped.
func (pr *ProgressReporter) Emit(event Event) {
	select {
	case pr.ch <- event:
	default:
		// Drop the event if the channel is full.
	}
}

// Subscribe returns a read-only channel for consuming progress events.
func (pr *ProgressReporter) Subscribe() <-chan Event {
	return pr.ch
}

// Close closes the progress event channel.
func (pr *ProgressReporter) Close() {
	close(pr.ch)
}

// FormatEvent formats an Event as a human-readable status line.
func FormatEvent(event Event) string {
	prefix := fmt.Sprintf("[%d/%d] w/e %s", event.Index, event.Total, event.Label)
	switch event.Status {
	case StatusWorking:
		return fmt.Sprintf("%s...", prefix)
	case StatusSkipped:
		return fmt.Sprintf("%s already exists, skipping", prefix)
	case StatusNoData:
		return fmt.Sprintf("%s no time entries, skipping", prefix)
	case StatusComplete:
		return fmt.Sprintf("%s done", prefix)
	case StatusReplaced:
		return fmt.Sprintf("%s replaced", prefix)
	case StatusFailed:
		return fmt.Sprintf("%s failed: %s", prefix, event.Message)
	default:
		return fmt.Sprintf("%s (unknown status)", prefix)
	}
}
