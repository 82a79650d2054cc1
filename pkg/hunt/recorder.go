package hunt

import (
	"fmt"
	"sync"
)

// Recorder is the append-only record of successful steps, in step order.
// It is the source the animator replays from.
type Recorder struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewRecorder() *Recorder {
	return &Recorder{entries: make([]Entry, 0, StepCount)}
}

// Record appends the outcome text of stepIndex. Entries must arrive in step
// order with no gaps.
func (r *Recorder) Record(stepIndex int, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stepIndex != len(r.entries) || stepIndex >= StepCount {
		return fmt.Errorf("%w: got step %d with %d recorded", ErrOutOfOrder, stepIndex, len(r.entries))
	}
	r.entries = append(r.entries, Entry{StepIndex: stepIndex, Text: text})
	return nil
}

// Entries returns a copy of the record
func (r *Recorder) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Entry(nil), r.entries...)
}

func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Texts returns just the recorded texts
func (r *Recorder) Texts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Text
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = r.entries[:0]
}
