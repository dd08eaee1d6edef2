package telemetry

import "sync"

// Recorder is an in-memory Sender used in tests and dry runs.
type Recorder struct {
	// Fail, when set, is consulted before an event is stored; a non-nil
	// result is returned from Send and the event is not kept.
	Fail func(ev Event) error

	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Send stores the event.
func (r *Recorder) Send(ev Event) error {
	if r.Fail != nil {
		if err := r.Fail(ev); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

// Events returns a copy of the stored events in submission order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset drops the stored events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
