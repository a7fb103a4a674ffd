//go:build linux

package ec

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// DevPort accesses x86 I/O port space through /dev/port, where the
// port number is the file offset.
type DevPort struct {
	fd int
}

// OpenPorts opens the port space backend.
func OpenPorts() (PortIO, error) {
	fd, err := unix.Open("/dev/port", unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("ec: open /dev/port: %w", err)
	}
	return &DevPort{fd: fd}, nil
}

func (p *DevPort) Inb(port uint16) (byte, error) {
	var buf [1]byte
	if _, err := unix.Pread(p.fd, buf[:], int64(port)); err != nil {
		return 0, fmt.Errorf("ec: inb %#04x: %w", port, err)
	}
	return buf[0], nil
}

func (p *DevPort) Outb(port uint16, value byte) error {
	buf := [1]byte{value}
	if _, err := unix.Pwrite(p.fd, buf[:], int64(port)); err != nil {
		return fmt.Errorf("ec: outb %#04x: %w", port, err)
	}
	return nil
}

func (p *DevPort) Inl(port uint16) (uint32, error) {
	var buf [4]byte
	if _, err := unix.Pread(p.fd, buf[:], int64(port)); err != nil {
		return 0, fmt.Errorf("ec: inl %#04x: %w", port, err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (p *DevPort) Outl(port uint16, value uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	if _, err := unix.Pwrite(p.fd, buf[:], int64(port)); err != nil {
		return fmt.Errorf("ec: outl %#04x: %w", port, err)
	}
	return nil
}

func (p *DevPort) Close() error {
	return unix.Close(p.fd)
}

var _ PortIO = (*DevPort)(nil)
