// Package input reports hotkeys and the lid switch into the kernel
// input layer through a uinput device.
package input

import (
	"fmt"

	"github.com/holoplot/go-evdev"
)

// Code identifies an input event code.
type Code = evdev.EvCode

// Input codes the hotkey keymap reports.
const (
	KeyCamera          = evdev.KEY_CAMERA
	KeySleep           = evdev.KEY_SLEEP
	KeyDisplayToggle   = evdev.KEY_DISPLAYTOGGLE
	KeySwitchVideoMode = evdev.KEY_SWITCHVIDEOMODE
	KeyMute            = evdev.KEY_MUTE
	KeyWLAN            = evdev.KEY_WLAN
	KeyBrightnessDown  = evdev.KEY_BRIGHTNESSDOWN
	KeyBrightnessUp    = evdev.KEY_BRIGHTNESSUP
	KeyVolumeDown      = evdev.KEY_VOLUMEDOWN
	KeyVolumeUp        = evdev.KEY_VOLUMEUP
	SwitchLid          = evdev.SW_LID
)

// Reporter delivers input reports. Key sends a full press-release
// pulse; Switch sets an absolute switch state.
type Reporter interface {
	Key(code Code)
	Switch(code Code, on bool)
}

// Discard returns a Reporter that drops everything. It stands in
// until the real device exists and again after teardown.
func Discard() Reporter {
	return discard{}
}

type discard struct{}

func (discard) Key(Code)          {}
func (discard) Switch(Code, bool) {}

// Device is a Reporter over a created uinput device.
type Device struct {
	dev *evdev.InputDevice
}

// NewDevice creates a uinput device with the given key and switch
// capabilities.
func NewDevice(name string, keys, switches []Code) (*Device, error) {
	caps := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: keys,
		evdev.EV_SW:  switches,
	}
	dev, err := evdev.CreateDevice(name, evdev.InputID{BusType: 0x19}, caps)
	if err != nil {
		return nil, fmt.Errorf("input: create %q: %w", name, err)
	}
	return &Device{dev: dev}, nil
}

func (d *Device) Key(code Code) {
	d.emit(evdev.EV_KEY, code, 1)
	d.syn()
	d.emit(evdev.EV_KEY, code, 0)
	d.syn()
}

func (d *Device) Switch(code Code, on bool) {
	var value int32
	if on {
		value = 1
	}
	d.emit(evdev.EV_SW, code, value)
	d.syn()
}

// Close destroys the uinput device.
func (d *Device) Close() error {
	return d.dev.Close()
}

func (d *Device) emit(t evdev.EvType, code Code, value int32) {
	_ = d.dev.WriteOne(&evdev.InputEvent{Type: t, Code: code, Value: value})
}

func (d *Device) syn() {
	d.emit(evdev.EV_SYN, evdev.SYN_REPORT, 0)
}

var _ Reporter = (*Device)(nil)
var _ Reporter = discard{}
