// Package power models the Yeeloong's power sources and sequences its
// suspend and resume transitions. The EC keeps running on the suspend
// rail, so suspend parks every peripheral it feeds and resume both
// restores them and reprograms the SCI routing the chipset lost.
package power

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/loongson-community/yeeloong-laptop/internal/ec"
)

// State is the position in the suspend/resume cycle.
type State int

const (
	StateActive State = iota
	StateSuspending
	StateSuspended
	StateResuming
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateSuspending:
		return "suspending"
	case StateSuspended:
		return "suspended"
	case StateResuming:
		return "resuming"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Router reprograms the SCI interrupt routing lost across suspend.
type Router interface {
	Program() error
}

// Quiescer holds event dispatch out of the way for the duration of a
// transition.
type Quiescer interface {
	Quiesce() (release func())
}

// VideoRails drives the display rails during power transitions.
type VideoRails interface {
	SetLCD(on bool)
	SetCRT(on bool)
}

// Orchestrator runs the suspend and resume sequences. Transitions
// reject unless the machine sits in the expected source state, so
// overlapping requests fail instead of interleaving.
type Orchestrator struct {
	mu    sync.Mutex
	state State

	ec       ec.RegisterIO
	video    VideoRails
	gate     ec.FeatureGate
	router   Router
	quiescer Quiescer
}

// NewOrchestrator wires the transition sequencer. It starts active.
func NewOrchestrator(rw ec.RegisterIO, rails VideoRails, gate ec.FeatureGate,
	router Router, q Quiescer) *Orchestrator {
	return &Orchestrator{
		ec:       rw,
		video:    rails,
		gate:     gate,
		router:   router,
		quiescer: q,
	}
}

// State reports the current transition state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Suspend parks the peripherals for the suspend rail: LCD (unless the
// firmware blanks the panel itself), CRT, the USB ports and the WLAN
// radio. Event dispatch stays quiesced for the whole sequence.
func (o *Orchestrator) Suspend() error {
	o.mu.Lock()
	if o.state != StateActive {
		state := o.state
		o.mu.Unlock()
		return fmt.Errorf("power: suspend from %s", state)
	}
	o.state = StateSuspending
	o.mu.Unlock()

	release := o.quiescer.Quiesce()
	defer release()

	if !o.gate.SelfLCDSuspend {
		o.video.SetLCD(false)
	}
	o.video.SetCRT(false)
	o.setUSB(false)
	SetWLAN(o.ec, false)

	o.setState(StateSuspended)
	slog.Info("power: suspended")
	return nil
}

// Resume mirrors Suspend and then reprograms the SCI routing, which
// does not survive the suspend. A routing failure surfaces as an
// error; the rails stay restored and dispatch re-enables regardless.
func (o *Orchestrator) Resume() error {
	o.mu.Lock()
	if o.state != StateSuspended {
		state := o.state
		o.mu.Unlock()
		return fmt.Errorf("power: resume from %s", state)
	}
	o.state = StateResuming
	o.mu.Unlock()

	release := o.quiescer.Quiesce()
	defer release()

	if !o.gate.SelfLCDSuspend {
		o.video.SetLCD(true)
	}
	o.video.SetCRT(true)
	o.setUSB(true)
	SetWLAN(o.ec, true)

	err := o.router.Program()
	o.setState(StateActive)
	if err != nil {
		return fmt.Errorf("power: resume routing: %w", err)
	}
	slog.Info("power: resumed")
	return nil
}

func (o *Orchestrator) setUSB(on bool) {
	value := ec.USBFlagOff
	if on {
		value = ec.USBFlagOn
	}
	o.ec.WriteReg(ec.RegUSB0Flag, value)
	o.ec.WriteReg(ec.RegUSB1Flag, value)
	o.ec.WriteReg(ec.RegUSB2Flag, value)
}

// SetWLAN drives the wireless radio rail.
func SetWLAN(rw ec.RegisterIO, on bool) {
	if on {
		rw.WriteReg(ec.RegWLAN, ec.WLANOn)
	} else {
		rw.WriteReg(ec.RegWLAN, ec.WLANOff)
	}
}
