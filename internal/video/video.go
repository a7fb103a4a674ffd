// Package video switches the LCD and CRT output rails of the display
// controller through its extended sequencer registers.
package video

import (
	"sync"

	"github.com/loongson-community/yeeloong-laptop/internal/ec"
)

// Sequencer index/data ports and the per-rail register indexes.
const (
	portIndex uint16 = 0x3c4
	portData  uint16 = 0x3c5

	idxLCD byte = 0x31
	idxCRT byte = 0x21
)

// Output drives the two display rails. Each switch is one
// read-modify-write on a sequencer register.
type Output struct {
	mu    sync.Mutex
	ports ec.PortIO
}

// NewOutput wraps an opened port backend.
func NewOutput(ports ec.PortIO) *Output {
	return &Output{ports: ports}
}

// SetLCD turns the panel rail on or off.
func (o *Output) SetLCD(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	value := o.read(idxLCD)
	if on {
		value |= 0x03
	} else {
		value |= 0x02
	}
	o.write(idxLCD, value)
}

// SetCRT turns the VGA rail on or off.
func (o *Output) SetCRT(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	value := o.read(idxCRT)
	if on {
		value &^= 1 << 7
	} else {
		value |= 1 << 7
	}
	o.write(idxCRT, value)
}

// Set drives both rails, LCD first.
func (o *Output) Set(lcd, crt bool) {
	o.SetLCD(lcd)
	o.SetCRT(crt)
}

func (o *Output) read(idx byte) byte {
	o.outb(portIndex, idx)
	value, _ := o.ports.Inb(portData)
	return value
}

func (o *Output) write(idx, value byte) {
	o.outb(portIndex, idx)
	o.outb(portData, value)
}

func (o *Output) outb(port uint16, value byte) {
	_ = o.ports.Outb(port, value)
}
