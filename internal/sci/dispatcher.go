package sci

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/loongson-community/yeeloong-laptop/internal/ec"
	"github.com/loongson-community/yeeloong-laptop/internal/input"
	"github.com/loongson-community/yeeloong-laptop/internal/trace"
	"github.com/loongson-community/yeeloong-laptop/internal/video"
)

// signalBacklog bounds how many interrupt edges can queue while a
// dispatch is running. Beyond that, edges coalesce into the drop
// counter.
const signalBacklog = 32

// VideoOutput switches the display rails.
type VideoOutput interface {
	SetLCD(on bool)
	SetCRT(on bool)
	Set(lcd, crt bool)
}

var _ VideoOutput = (*video.Output)(nil)

// PowerNotifier receives AC and battery change notifications.
type PowerNotifier interface {
	PowerChanged()
}

// Dispatcher turns SCI interrupts into register actions and input
// reports. Exactly one dispatch runs at a time: the mutex spans the
// whole query-act-report sequence, and suspend/resume parks itself on
// the same lock through Quiesce.
type Dispatcher struct {
	mu sync.Mutex

	ec      ec.RegisterIO
	querier ec.EventQuerier
	video   VideoOutput
	gate    ec.FeatureGate
	input   input.Reporter
	power   PowerNotifier
	log     *trace.Log

	// Toggle history. -1 means no reading yet; EC registers are
	// unsigned bytes, so -1 never collides with a real status.
	lastBrightness int
	lastVolume     int

	// Video output cycle position, 1..4 once engaged.
	cycle int

	signals chan struct{}
	dropped atomic.Uint64
}

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithTrace records every serviced interrupt into log.
func WithTrace(log *trace.Log) DispatcherOption {
	return func(d *Dispatcher) {
		d.log = log
	}
}

// NewDispatcher wires the event pipeline together. The reporter
// starts out discarding; attach the real input device with
// SetReporter once it exists.
func NewDispatcher(regs ec.RegisterIO, querier ec.EventQuerier, vo VideoOutput,
	gate ec.FeatureGate, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		ec:             regs,
		querier:        querier,
		video:          vo,
		gate:           gate,
		input:          input.Discard(),
		lastBrightness: -1,
		lastVolume:     -1,
		signals:        make(chan struct{}, signalBacklog),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetReporter swaps the input reporter. Pass input.Discard() to
// detach.
func (d *Dispatcher) SetReporter(rep input.Reporter) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if rep == nil {
		rep = input.Discard()
	}
	d.input = rep
}

// SetPowerNotifier attaches or detaches (nil) the power subsystem.
func (d *Dispatcher) SetPowerNotifier(n PowerNotifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.power = n
}

// Notify queues one dispatch. It never blocks, so it is safe to call
// from an interrupt event handler.
func (d *Dispatcher) Notify() {
	select {
	case d.signals <- struct{}{}:
	default:
		d.dropped.Add(1)
	}
}

// Dropped counts interrupt edges that arrived with a full backlog.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Run consumes queued interrupts until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.signals:
			d.HandleInterrupt()
		}
	}
}

// Quiesce blocks until no dispatch is in flight and keeps new ones
// out until the returned release runs. Suspend and resume wrap
// themselves in this so power transitions never interleave with event
// handling.
func (d *Dispatcher) Quiesce() (release func()) {
	d.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(d.mu.Unlock)
	}
}

// HandleInterrupt services one SCI edge: query the event number and
// run the full dispatch. It reports false for spurious interrupts,
// which leave every piece of state untouched.
func (d *Dispatcher) HandleInterrupt() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	num, err := d.querier.QueryEvent()
	if err != nil {
		slog.Debug("sci: event query failed", "err", err)
		d.log.Add(trace.Record{Time: time.Now(), Event: "query-failed", Handled: false})
		return false
	}
	event := Event(num)
	if !event.Valid() {
		slog.Debug("sci: event out of range", "event", int(event))
		d.log.Add(trace.Record{Time: time.Now(), Event: event.String(), Handled: false})
		return false
	}

	act := actionFor(event)
	status := 0
	if act.reg != 0 {
		status = int(d.ec.ReadReg(act.reg))
	}
	if act.transform != nil {
		status = act.transform(d, status)
	}
	slog.Debug("sci: dispatched", "event", event, "status", status)
	d.log.Add(trace.Record{Time: time.Now(), Event: event.String(), Status: status, Handled: true})

	d.report(event, status)
	return true
}

// report resolves the keymap entry and delivers the input event. The
// lid is a switch and reports the logical negation of its status; an
// open lid reads nonzero and reports "not closed".
func (d *Dispatcher) report(event Event, status int) {
	entry := d.resolveEntry(event, status)
	if entry == nil {
		return
	}
	switch entry.kind {
	case kindSwitch:
		d.input.Switch(entry.code, status == 0)
	case kindKey:
		d.input.Key(entry.code)
	}
}
