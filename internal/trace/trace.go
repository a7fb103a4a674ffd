// Package trace keeps a bounded in-memory record of dispatched SCI
// events for the control socket and signal dumps.
package trace

import (
	"fmt"
	"sync"
	"time"
)

// Record is the outcome of one serviced interrupt.
type Record struct {
	Time    time.Time
	Event   string
	Status  int
	Handled bool
}

// String renders one record the way the trace command prints it.
func (r Record) String() string {
	outcome := "handled"
	if !r.Handled {
		outcome = "spurious"
	}
	return fmt.Sprintf("%s %s status=%d %s",
		r.Time.Format(time.RFC3339Nano), r.Event, r.Status, outcome)
}

// Log is a fixed-size ring of records. A nil Log drops everything, so
// callers never have to guard their Add calls.
type Log struct {
	mu   sync.Mutex
	recs []Record
	next int
	full bool
}

// New returns a ring holding the last capacity records.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = 64
	}
	return &Log{recs: make([]Record, capacity)}
}

// Add appends one record, evicting the oldest when full.
func (l *Log) Add(rec Record) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recs[l.next] = rec
	l.next++
	if l.next == len(l.recs) {
		l.next = 0
		l.full = true
	}
}

// Snapshot returns the records oldest first.
func (l *Log) Snapshot() []Record {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.full {
		return append([]Record(nil), l.recs[:l.next]...)
	}
	out := make([]Record, 0, len(l.recs))
	out = append(out, l.recs[l.next:]...)
	out = append(out, l.recs[:l.next]...)
	return out
}
