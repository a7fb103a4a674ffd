// Package backlight drives the panel brightness through the EC.
package backlight

import (
	"sync"

	"github.com/loongson-community/yeeloong-laptop/internal/ec"
)

// Device tracks the panel brightness. The EC adjusts the register on
// its own while restoring the panel, so a write only lands when the
// current reading still matches the last level written from here;
// otherwise the request is remembered and the EC keeps the panel.
type Device struct {
	mu       sync.Mutex
	ec       ec.RegisterIO
	level    int
	poweroff bool

	// old is the last level this driver applied.
	old int
}

// New adopts whatever level the EC currently drives without touching
// the register.
func New(rw ec.RegisterIO) *Device {
	d := &Device{ec: rw}
	d.level = int(rw.ReadReg(ec.RegBrightness))
	d.apply()
	return d
}

// Level reads the current panel brightness out of the EC.
func (d *Device) Level() int {
	return int(d.ec.ReadReg(ec.RegBrightness))
}

// MaxLevel is the brightest panel setting.
func (d *Device) MaxLevel() int { return ec.MaxBrightness }

// SetLevel requests a brightness level. Requests clamp to the panel
// range.
func (d *Device) SetLevel(level int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.level = level
	d.apply()
}

// SetPower blanks or unblanks the panel. Blanked drives level 0; the
// requested level comes back on unblank.
func (d *Device) SetPower(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.poweroff = !on
	d.apply()
}

func (d *Device) apply() {
	level := d.level
	if d.poweroff {
		level = 0
	}
	level = min(max(level, 0), ec.MaxBrightness)
	if d.old == level {
		return
	}
	if current := int(d.ec.ReadReg(ec.RegBrightness)); d.old == current {
		d.ec.WriteReg(ec.RegBrightness, byte(level))
	}
	d.old = level
}
