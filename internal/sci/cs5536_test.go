package sci

import "testing"

func TestConfigAddr(t *testing.T) {
	// Enable bit, device 14, register f4.
	if got := configAddr(pciMSRAddr); got != 0x800070f4 {
		t.Fatalf("configAddr(f4) = %#08x, want 0x800070f4", got)
	}
	if got := configAddr(pciMSRDataHi); got != 0x800070fc {
		t.Fatalf("configAddr(fc) = %#08x, want 0x800070fc", got)
	}
}

func TestCS5536ReadMSR(t *testing.T) {
	bus := newFakeBus(nil)
	bus.cfg[configAddr(pciMSRDataLo)] = 0x6100
	bus.cfg[configAddr(pciMSRDataHi)] = 0xf001

	c := NewCS5536(bus)
	hi, lo, err := c.ReadMSR(msrDivilLBARGPIO)
	if err != nil {
		t.Fatalf("ReadMSR: %v", err)
	}
	if hi != 0xf001 || lo != 0x6100 {
		t.Fatalf("ReadMSR = %#x:%#x, want 0xf001:0x6100", hi, lo)
	}
	// The MSR address reached the mailbox before the data reads.
	if got := bus.cfg[configAddr(pciMSRAddr)]; got != msrDivilLBARGPIO {
		t.Fatalf("mailbox address = %#x, want %#x", got, msrDivilLBARGPIO)
	}
}

func TestCS5536WriteMSR(t *testing.T) {
	bus := newFakeBus(nil)

	c := NewCS5536(bus)
	if err := c.WriteMSR(msrIRQMapPrimary, 0xdead, 0xbeef); err != nil {
		t.Fatalf("WriteMSR: %v", err)
	}
	if got := bus.cfg[configAddr(pciMSRAddr)]; got != msrIRQMapPrimary {
		t.Errorf("mailbox address = %#x, want %#x", got, msrIRQMapPrimary)
	}
	if got := bus.cfg[configAddr(pciMSRDataLo)]; got != 0xbeef {
		t.Errorf("mailbox lo = %#x, want 0xbeef", got)
	}
	if got := bus.cfg[configAddr(pciMSRDataHi)]; got != 0xdead {
		t.Errorf("mailbox hi = %#x, want 0xdead", got)
	}

	// Every exchange is an address strobe then a data access.
	wantPorts := []uint16{
		pciConfigAddress, pciConfigData,
		pciConfigAddress, pciConfigData,
		pciConfigAddress, pciConfigData,
	}
	if len(bus.outl) != len(wantPorts) {
		t.Fatalf("outl count = %d, want %d", len(bus.outl), len(wantPorts))
	}
	for i, want := range wantPorts {
		if bus.outl[i].port != want {
			t.Errorf("outl %d port = %#04x, want %#04x", i, bus.outl[i].port, want)
		}
	}
}
