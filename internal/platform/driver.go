package platform

import (
	"errors"
	"fmt"
	"log/slog"
)

// Subsystem is one platform subdriver. Start and Stop may be nil.
type Subsystem struct {
	Name  string
	Start func() error
	Stop  func()
}

// Driver brings subsystems up in registration order and tears them
// down in reverse, so later subsystems can lean on earlier ones.
type Driver struct {
	subsystems []Subsystem
	started    int
}

// NewDriver returns an empty driver.
func NewDriver() *Driver {
	return &Driver{}
}

// Register appends a subsystem. Names are unique.
func (d *Driver) Register(sub Subsystem) error {
	if sub.Name == "" {
		return errors.New("platform: subsystem without a name")
	}
	for _, have := range d.subsystems {
		if have.Name == sub.Name {
			return fmt.Errorf("platform: subsystem %q already registered", sub.Name)
		}
	}
	d.subsystems = append(d.subsystems, sub)
	return nil
}

// Start runs every subsystem's Start in registration order. On
// failure the already-started subsystems stop again in reverse and
// the error names the one that failed.
func (d *Driver) Start() error {
	for _, sub := range d.subsystems {
		if sub.Start != nil {
			if err := sub.Start(); err != nil {
				d.Stop()
				return fmt.Errorf("platform: start %s: %w", sub.Name, err)
			}
		}
		d.started++
		slog.Debug("platform: subsystem up", "subsystem", sub.Name)
	}
	return nil
}

// Stop tears the started subsystems down in reverse order.
func (d *Driver) Stop() {
	for i := d.started - 1; i >= 0; i-- {
		sub := d.subsystems[i]
		if sub.Stop != nil {
			sub.Stop()
		}
		slog.Debug("platform: subsystem down", "subsystem", sub.Name)
	}
	d.started = 0
}
