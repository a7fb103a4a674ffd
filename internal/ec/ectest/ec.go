// Package ectest provides an in-memory KB3310B for tests.
package ectest

import (
	"errors"
	"sync"

	"github.com/loongson-community/yeeloong-laptop/internal/ec"
)

// ErrNoEvent is what QueryEvent returns once the scripted queue runs
// dry.
var ErrNoEvent = errors.New("ectest: no pending event")

// Write is one recorded register write.
type Write struct {
	Reg   ec.Reg
	Value byte
}

// EC is a scripted embedded controller. Registers read back whatever
// was seeded or last written, events pop from a queue, and every write
// lands in an ordered log.
type EC struct {
	mu       sync.Mutex
	regs     map[ec.Reg]byte
	events   []byte
	queryErr error
	writes   []Write
	flushes  int
}

// New returns an empty controller.
func New() *EC {
	return &EC{regs: make(map[ec.Reg]byte)}
}

// Set seeds a register without recording a write.
func (e *EC) Set(reg ec.Reg, value byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.regs[reg] = value
}

// SetString seeds consecutive registers from a string.
func (e *EC) SetString(base ec.Reg, s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < len(s); i++ {
		e.regs[base+ec.Reg(i)] = s[i]
	}
}

// SetPair seeds a high/low register pair with a 16-bit value.
func (e *EC) SetPair(high, low ec.Reg, value uint16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.regs[high] = byte(value >> 8)
	e.regs[low] = byte(value)
}

// PushEvent queues one SCI event number for the next query.
func (e *EC) PushEvent(num byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, num)
}

// FailQueries makes every following query return err.
func (e *EC) FailQueries(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queryErr = err
}

func (e *EC) ReadReg(reg ec.Reg) byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.regs[reg]
}

func (e *EC) WriteReg(reg ec.Reg, value byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.regs[reg] = value
	e.writes = append(e.writes, Write{Reg: reg, Value: value})
}

func (e *EC) QueryEvent() (byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.queryErr != nil {
		return 0, e.queryErr
	}
	if len(e.events) == 0 {
		return 0, ErrNoEvent
	}
	num := e.events[0]
	e.events = e.events[1:]
	return num, nil
}

// FlushEvent drops one queued event, if any.
func (e *EC) FlushEvent() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushes++
	if e.queryErr != nil {
		return e.queryErr
	}
	if len(e.events) > 0 {
		e.events = e.events[1:]
	}
	return nil
}

// Writes returns the ordered write log.
func (e *EC) Writes() []Write {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Write(nil), e.writes...)
}

// WritesTo filters the write log down to one register.
func (e *EC) WritesTo(reg ec.Reg) []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	var values []byte
	for _, w := range e.writes {
		if w.Reg == reg {
			values = append(values, w.Value)
		}
	}
	return values
}

// Flushes counts FlushEvent calls.
func (e *EC) Flushes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flushes
}

var _ ec.RegisterIO = (*EC)(nil)
var _ ec.EventQuerier = (*EC)(nil)
