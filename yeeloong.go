// Package yeeloong drives the platform hardware of the Lemote
// Yeeloong 2F laptop: the KB3310B embedded controller, the hotkey SCI
// pipeline, the AC and battery supplies, the fan and thermal sensors,
// the panel backlight and the suspend/resume sequence.
package yeeloong

import (
	"github.com/loongson-community/yeeloong-laptop/internal/backlight"
	"github.com/loongson-community/yeeloong-laptop/internal/config"
	"github.com/loongson-community/yeeloong-laptop/internal/ec"
	"github.com/loongson-community/yeeloong-laptop/internal/hwmon"
	"github.com/loongson-community/yeeloong-laptop/internal/platform"
	"github.com/loongson-community/yeeloong-laptop/internal/power"
	"github.com/loongson-community/yeeloong-laptop/internal/sci"
)

// EC is a live connection to the KB3310B embedded controller.
type EC = ec.Client

// Reg addresses one EC register.
type Reg = ec.Reg

// FeatureGate captures what the EC firmware handles by itself.
type FeatureGate = ec.FeatureGate

// Event is an SCI event number reported by the EC.
type Event = sci.Event

// Dispatcher turns SCI interrupts into register actions and input
// reports.
type Dispatcher = sci.Dispatcher

// AC reports the external power adapter.
type AC = power.AC

// Battery reads the battery pack state.
type Battery = power.Battery

// Orchestrator sequences suspend and resume.
type Orchestrator = power.Orchestrator

// Sensors is the fan and thermal sensor bank.
type Sensors = hwmon.Sensors

// Backlight drives the panel brightness.
type Backlight = backlight.Device

// Driver owns the platform subsystem lifecycle.
type Driver = platform.Driver

// Config is the yeeloongd configuration file.
type Config = config.Config

// Machine is the machine identity this driver accepts.
const Machine = platform.YeeloongMachine

// ErrUnsupportedMachine means the driver refused to touch this
// hardware.
var ErrUnsupportedMachine = platform.ErrUnsupportedMachine

// OpenEC opens the raw port backend and connects to the EC. The
// caller owns the returned client and must Close it.
func OpenEC() (*EC, error) {
	ports, err := ec.OpenPorts()
	if err != nil {
		return nil, err
	}
	return ec.NewClient(ports), nil
}

// GateFor derives the feature gates from an EC firmware version
// string.
func GateFor(version string) FeatureGate {
	return ec.GateFor(version)
}

// CheckMachine gates callers onto supported hardware. Pass "" for
// the stock Yeeloong identity.
func CheckMachine(expect string) error {
	return platform.Check(expect)
}
