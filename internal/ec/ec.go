// Package ec talks to the KB3310B embedded controller of the Yeeloong
// 2F laptop. The EC exposes a flat byte-register index space through
// three I/O ports and answers SCI event queries over an ACPI-style
// command/data port pair.
package ec

// RegisterIO is byte-level access to the EC index space. Accesses on
// an opened backend do not fail; errors surface when the backend is
// opened, not per register.
type RegisterIO interface {
	ReadReg(reg Reg) byte
	WriteReg(reg Reg, value byte)
}

// EventQuerier fetches the pending SCI event number from the EC.
type EventQuerier interface {
	QueryEvent() (byte, error)
}

// PortIO is raw access to x86 I/O port space.
type PortIO interface {
	Inb(port uint16) (byte, error)
	Outb(port uint16, value byte) error
	Inl(port uint16) (uint32, error)
	Outl(port uint16, value uint32) error
	Close() error
}

// ReadPair reads a 16-bit value spread over a high/low register pair.
func ReadPair(rw RegisterIO, high, low Reg) int {
	return int(rw.ReadReg(high))<<8 | int(rw.ReadReg(low))
}
