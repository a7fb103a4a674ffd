package sci

import (
	"fmt"
	"sync"

	"github.com/loongson-community/yeeloong-laptop/internal/ec"
)

// PCI type-1 configuration cycle ports.
const (
	pciConfigAddress uint16 = 0x0cf8
	pciConfigData    uint16 = 0x0cfc
)

// The CS5536 ISA bridge answers at IDSEL 14 on the Yeeloong and
// exposes the southbridge MSRs through a mailbox in its config space.
const (
	cs5536Device uint32 = 14

	pciMSRAddr   uint8 = 0xf4
	pciMSRDataLo uint8 = 0xf8
	pciMSRDataHi uint8 = 0xfc
)

// MSRIO accesses CS5536 model-specific registers.
type MSRIO interface {
	ReadMSR(addr uint32) (hi, lo uint32, err error)
	WriteMSR(addr uint32, hi, lo uint32) error
}

// CS5536 implements MSRIO over PCI configuration cycles. One mailbox
// exchange is three config accesses, serialized by the mutex.
type CS5536 struct {
	mu    sync.Mutex
	ports ec.PortIO
}

// NewCS5536 wraps an opened port backend.
func NewCS5536(ports ec.PortIO) *CS5536 {
	return &CS5536{ports: ports}
}

func (c *CS5536) ReadMSR(addr uint32) (hi, lo uint32, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err = c.writeConfig(pciMSRAddr, addr); err != nil {
		return 0, 0, fmt.Errorf("sci: rdmsr %#08x: %w", addr, err)
	}
	if lo, err = c.readConfig(pciMSRDataLo); err != nil {
		return 0, 0, fmt.Errorf("sci: rdmsr %#08x: %w", addr, err)
	}
	if hi, err = c.readConfig(pciMSRDataHi); err != nil {
		return 0, 0, fmt.Errorf("sci: rdmsr %#08x: %w", addr, err)
	}
	return hi, lo, nil
}

func (c *CS5536) WriteMSR(addr uint32, hi, lo uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writeConfig(pciMSRAddr, addr); err != nil {
		return fmt.Errorf("sci: wrmsr %#08x: %w", addr, err)
	}
	if err := c.writeConfig(pciMSRDataLo, lo); err != nil {
		return fmt.Errorf("sci: wrmsr %#08x: %w", addr, err)
	}
	if err := c.writeConfig(pciMSRDataHi, hi); err != nil {
		return fmt.Errorf("sci: wrmsr %#08x: %w", addr, err)
	}
	return nil
}

func configAddr(reg uint8) uint32 {
	return 1<<31 | cs5536Device<<11 | uint32(reg)
}

func (c *CS5536) readConfig(reg uint8) (uint32, error) {
	if err := c.ports.Outl(pciConfigAddress, configAddr(reg)); err != nil {
		return 0, err
	}
	return c.ports.Inl(pciConfigData)
}

func (c *CS5536) writeConfig(reg uint8, value uint32) error {
	if err := c.ports.Outl(pciConfigAddress, configAddr(reg)); err != nil {
		return err
	}
	return c.ports.Outl(pciConfigData, value)
}

var _ MSRIO = (*CS5536)(nil)
