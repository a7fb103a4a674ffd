package sci

import (
	"log/slog"

	"github.com/loongson-community/yeeloong-laptop/internal/ec"
)

// videoCycle advances the four-state video output cycle. The button
// only engages while a CRT is attached; otherwise the cycle position
// stays frozen and the event reports with status zero.
//
// Positions: 1 both on, 2 CRT only, 3 both off, 4 LCD only.
func (d *Dispatcher) videoCycle(status int) int {
	if d.ec.ReadReg(ec.RegCRTDetect) == 0 {
		return 0
	}
	d.cycle++
	if d.cycle > 4 {
		d.cycle = 1
	}
	switch d.cycle {
	case 1:
		d.video.Set(true, true)
	case 2:
		d.video.Set(false, true)
	case 3:
		d.video.Set(false, false)
	case 4:
		d.video.Set(true, false)
	}
	return d.cycle
}

// displayToggle mirrors the LCD state the EC reports. Firmware from
// PQ1D26 on switches the panel itself; a second write from here leaves
// the brightness restored wrong, so the gate keeps us out.
func (d *Dispatcher) displayToggle(status int) int {
	if !d.gate.SelfLCDToggle {
		d.video.SetLCD(status != 0)
	}
	return status
}

// crtDetect reacts to the CRT plug state: plugging enables both
// outputs, unplugging falls back to the panel alone.
func (d *Dispatcher) crtDetect(status int) int {
	if status != 0 {
		d.video.Set(true, true)
	} else {
		d.video.Set(true, false)
	}
	return status
}

// cameraPulse strobes the camera enable bit in the control register.
func (d *Dispatcher) cameraPulse(status int) int {
	value := d.ec.ReadReg(ec.RegCameraControl)
	d.ec.WriteReg(ec.RegCameraControl, value|ec.CameraEnable)
	return status
}

func (d *Dispatcher) usb2OverCurrent(status int) int {
	slog.Error("sci: USB2 over current")
	return status
}

func (d *Dispatcher) usb0OverCurrent(status int) int {
	slog.Error("sci: USB0 over current")
	return status
}

// powerChanged fans an AC/battery change out to the power subsystem,
// if one is attached right now.
func (d *Dispatcher) powerChanged(status int) int {
	if d.power != nil {
		d.power.PowerChanged()
	}
	return status
}
