package sci

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/loongson-community/yeeloong-laptop/internal/ec"
)

// Southbridge MSRs involved in SCI routing. The DIVIL GPIO LBAR holds
// the GPIO register base; the three interrupt-group MSRs steer the
// virtual GPIO into interrupt group 10.
const (
	msrDivilLBARGPIO uint32 = 0x8000000c
	msrIRQMapZ       uint32 = 0x80000023
	msrIRQMapPrimary uint32 = 0x80000024
	msrIRQMapLPC     uint32 = 0x80000025
)

// GPIO register offsets off the LBAR base and the SCI pin bit. GPIO27
// lives in the high bank, so bit 11.
const (
	gpioInputEnable uint16 = 0xa0
	gpioInputInvert uint16 = 0xa4
	gpioEventEnable uint16 = 0xb8

	gpioSCIPin uint32 = 1 << 11
)

// defaultSettleDelay waits out the EC event filter window between the
// flush and the routing writes.
const defaultSettleDelay = 10 * time.Second

// EventFlusher discards a possibly pending EC event query.
type EventFlusher interface {
	FlushEvent() error
}

// Routing programs the southbridge so the EC's GPIO27 pin raises the
// system control interrupt. The programming does not survive suspend;
// resume runs it again.
type Routing struct {
	ports   ec.PortIO
	msr     MSRIO
	flusher EventFlusher
	settle  time.Duration
	sleep   func(time.Duration)
}

// RoutingOption customises the routing sequence.
type RoutingOption func(*Routing)

// WithSettleDelay adjusts the post-flush settle window.
func WithSettleDelay(d time.Duration) RoutingOption {
	return func(r *Routing) {
		if d >= 0 {
			r.settle = d
		}
	}
}

// WithRoutingSleep overrides the sleep function for tests.
func WithRoutingSleep(sleep func(time.Duration)) RoutingOption {
	return func(r *Routing) {
		if sleep != nil {
			r.sleep = sleep
		}
	}
}

// NewRouting wires the routing sequencer.
func NewRouting(ports ec.PortIO, msr MSRIO, flusher EventFlusher, opts ...RoutingOption) *Routing {
	r := &Routing{
		ports:   ports,
		msr:     msr,
		flusher: flusher,
		settle:  defaultSettleDelay,
		sleep:   time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Program runs the full routing sequence: flush a stale event, wait
// out the firmware filter window, route interrupt group 10 to the
// virtual GPIO and arm the GPIO27 event pin.
func (r *Routing) Program() error {
	_, lo, err := r.msr.ReadMSR(msrDivilLBARGPIO)
	if err != nil {
		return fmt.Errorf("sci: gpio lbar: %w", err)
	}
	gpioBase := uint16(lo & 0xff00)

	if err := r.flusher.FlushEvent(); err != nil {
		return fmt.Errorf("sci: flush stale event: %w", err)
	}
	r.sleep(r.settle)

	if err := r.clearBit(msrIRQMapPrimary, 1<<10); err != nil {
		return err
	}
	if err := r.clearBit(msrIRQMapLPC, 1<<10); err != nil {
		return err
	}
	if err := r.setBits(msrIRQMapZ, 0x0a); err != nil {
		return err
	}

	// Arm GPIO27: input enable, inverted input, event-int enable.
	for _, off := range []uint16{gpioInputEnable, gpioInputInvert, gpioEventEnable} {
		if err := r.ports.Outl(gpioBase|off, gpioSCIPin); err != nil {
			return fmt.Errorf("sci: arm gpio %#04x: %w", gpioBase|off, err)
		}
	}

	slog.Debug("sci: routing programmed", "gpio_base", fmt.Sprintf("%#04x", gpioBase))
	return nil
}

func (r *Routing) clearBit(addr uint32, bit uint32) error {
	hi, lo, err := r.msr.ReadMSR(addr)
	if err != nil {
		return fmt.Errorf("sci: route irq: %w", err)
	}
	lo &^= bit
	if err := r.msr.WriteMSR(addr, hi, lo); err != nil {
		return fmt.Errorf("sci: route irq: %w", err)
	}
	return nil
}

func (r *Routing) setBits(addr uint32, bits uint32) error {
	hi, lo, err := r.msr.ReadMSR(addr)
	if err != nil {
		return fmt.Errorf("sci: route irq: %w", err)
	}
	lo |= bits
	if err := r.msr.WriteMSR(addr, hi, lo); err != nil {
		return fmt.Errorf("sci: route irq: %w", err)
	}
	return nil
}
