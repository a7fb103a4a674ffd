package sci

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

type msrValue struct{ hi, lo uint32 }

type fakeMSR struct {
	regs    map[uint32]msrValue
	wrote   map[uint32]msrValue
	order   *[]string
	readErr error
}

func (m *fakeMSR) ReadMSR(addr uint32) (hi, lo uint32, err error) {
	if m.readErr != nil {
		return 0, 0, m.readErr
	}
	v, ok := m.regs[addr]
	if !ok {
		return 0, 0, fmt.Errorf("no msr %#x", addr)
	}
	if w, ok := m.wrote[addr]; ok {
		v = w
	}
	return v.hi, v.lo, nil
}

func (m *fakeMSR) WriteMSR(addr uint32, hi, lo uint32) error {
	m.wrote[addr] = msrValue{hi, lo}
	if m.order != nil {
		*m.order = append(*m.order, fmt.Sprintf("wrmsr %#x", addr))
	}
	return nil
}

type portWrite32 struct {
	port  uint16
	value uint32
}

// fakeBus answers long port accesses. Writes to the PCI config pair
// land in a register file keyed by the last config address, which is
// enough to stand in for the CS5536 mailbox.
type fakeBus struct {
	order   *[]string
	outl    []portWrite32
	cfg     map[uint32]uint32
	lastCfg uint32
}

func newFakeBus(order *[]string) *fakeBus {
	return &fakeBus{order: order, cfg: make(map[uint32]uint32)}
}

func (b *fakeBus) Inb(port uint16) (byte, error)    { return 0, nil }
func (b *fakeBus) Outb(port uint16, value byte) error { return nil }

func (b *fakeBus) Inl(port uint16) (uint32, error) {
	if port == pciConfigData {
		return b.cfg[b.lastCfg], nil
	}
	return 0, nil
}

func (b *fakeBus) Outl(port uint16, value uint32) error {
	b.outl = append(b.outl, portWrite32{port, value})
	if b.order != nil {
		*b.order = append(*b.order, fmt.Sprintf("outl %#04x", port))
	}
	switch port {
	case pciConfigAddress:
		b.lastCfg = value
	case pciConfigData:
		b.cfg[b.lastCfg] = value
	}
	return nil
}

func (b *fakeBus) Close() error { return nil }

type fakeFlusher struct {
	order   *[]string
	flushes int
	err     error
}

func (f *fakeFlusher) FlushEvent() error {
	f.flushes++
	if f.order != nil {
		*f.order = append(*f.order, "flush")
	}
	return f.err
}

type routingRig struct {
	order   []string
	msr     *fakeMSR
	bus     *fakeBus
	flusher *fakeFlusher
	slept   []time.Duration
	routing *Routing
}

func newRoutingRig(opts ...RoutingOption) *routingRig {
	rig := &routingRig{}
	rig.msr = &fakeMSR{
		regs: map[uint32]msrValue{
			msrDivilLBARGPIO: {hi: 0x0000f001, lo: 0x6100},
			msrIRQMapPrimary: {hi: 0xdead0000, lo: 0xffff},
			msrIRQMapLPC:     {lo: 0x0410},
			msrIRQMapZ:       {lo: 0x50},
		},
		wrote: map[uint32]msrValue{},
		order: &rig.order,
	}
	rig.bus = newFakeBus(&rig.order)
	rig.flusher = &fakeFlusher{order: &rig.order}
	all := append([]RoutingOption{WithRoutingSleep(func(d time.Duration) {
		rig.slept = append(rig.slept, d)
		rig.order = append(rig.order, "sleep")
	})}, opts...)
	rig.routing = NewRouting(rig.bus, rig.msr, rig.flusher, all...)
	return rig
}

func TestRoutingProgram(t *testing.T) {
	rig := newRoutingRig()

	if err := rig.routing.Program(); err != nil {
		t.Fatalf("Program: %v", err)
	}

	// GPIO27 armed at the LBAR base for input, invert and event-int.
	wantOutl := []portWrite32{
		{0x61a0, gpioSCIPin},
		{0x61a4, gpioSCIPin},
		{0x61b8, gpioSCIPin},
	}
	if len(rig.bus.outl) != len(wantOutl) {
		t.Fatalf("outl writes = %+v, want %+v", rig.bus.outl, wantOutl)
	}
	for i := range wantOutl {
		if rig.bus.outl[i] != wantOutl[i] {
			t.Errorf("outl %d = %+v, want %+v", i, rig.bus.outl[i], wantOutl[i])
		}
	}

	// Group 10 steered off the primary and LPC maps, other groups and
	// the high words untouched.
	if got, want := rig.msr.wrote[msrIRQMapPrimary], (msrValue{0xdead0000, 0xfbff}); got != want {
		t.Errorf("primary map = %+v, want %+v", got, want)
	}
	if got, want := rig.msr.wrote[msrIRQMapLPC], (msrValue{0, 0x0010}); got != want {
		t.Errorf("lpc map = %+v, want %+v", got, want)
	}
	if got, want := rig.msr.wrote[msrIRQMapZ], (msrValue{0, 0x5a}); got != want {
		t.Errorf("z map = %+v, want %+v", got, want)
	}

	if rig.flusher.flushes != 1 {
		t.Errorf("flushes = %d, want 1", rig.flusher.flushes)
	}
	if len(rig.slept) != 1 || rig.slept[0] != defaultSettleDelay {
		t.Errorf("slept = %v, want [%v]", rig.slept, defaultSettleDelay)
	}
}

func TestRoutingOrder(t *testing.T) {
	rig := newRoutingRig()

	if err := rig.routing.Program(); err != nil {
		t.Fatalf("Program: %v", err)
	}

	idx := func(step string) int {
		for i, e := range rig.order {
			if e == step {
				return i
			}
		}
		t.Fatalf("step %q missing from %v", step, rig.order)
		return -1
	}
	flush := idx("flush")
	sleep := idx("sleep")
	firstWrite := idx(fmt.Sprintf("wrmsr %#x", msrIRQMapPrimary))
	firstArm := idx("outl 0x61a0")
	if !(flush < sleep && sleep < firstWrite && firstWrite < firstArm) {
		t.Fatalf("sequence out of order: %v", rig.order)
	}
}

func TestRoutingFlushError(t *testing.T) {
	rig := newRoutingRig()
	rig.flusher.err = errors.New("ec busy")

	if err := rig.routing.Program(); err == nil {
		t.Fatal("Program succeeded with a failing flush")
	}
	if len(rig.msr.wrote) != 0 {
		t.Fatalf("msr writes after failed flush: %v", rig.msr.wrote)
	}
	if len(rig.bus.outl) != 0 {
		t.Fatalf("gpio writes after failed flush: %v", rig.bus.outl)
	}
}

func TestRoutingLBARError(t *testing.T) {
	rig := newRoutingRig()
	rig.msr.readErr = errors.New("no mailbox")

	if err := rig.routing.Program(); err == nil {
		t.Fatal("Program succeeded without the LBAR")
	}
	if rig.flusher.flushes != 0 {
		t.Fatalf("flushed %d times before the LBAR read", rig.flusher.flushes)
	}
}

func TestRoutingSettleOverride(t *testing.T) {
	rig := newRoutingRig(WithSettleDelay(25 * time.Millisecond))

	if err := rig.routing.Program(); err != nil {
		t.Fatalf("Program: %v", err)
	}
	if len(rig.slept) != 1 || rig.slept[0] != 25*time.Millisecond {
		t.Fatalf("slept = %v, want [25ms]", rig.slept)
	}
}
