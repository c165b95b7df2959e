package audit

import (
	"context"
	"sync"
)

// MemoryRecorder keeps events in process. It backs tests and the
// development profile when no audit database is configured.
type MemoryRecorder struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Record(_ context.Context, ev Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *MemoryRecorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Multi fans an event out to every recorder and returns the first error.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, ev Event) error {
	var first error
	for _, rec := range m {
		if rec == nil {
			continue
		}
		if err := rec.Record(ctx, ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
