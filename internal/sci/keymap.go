package sci

import "github.com/loongson-community/yeeloong-laptop/internal/input"

type entryKind int

const (
	kindKey entryKind = iota
	kindSwitch
)

type keyEntry struct {
	kind  entryKind
	event Event
	code  input.Code
}

// keymap lists the input code behind each reported event. Brightness
// and volume each occupy two adjacent entries, the decrease code
// first: resolveEntry steps forward to the increase code from there.
var keymap = []keyEntry{
	{kindSwitch, EventLid, input.SwitchLid},
	{kindKey, EventCamera, input.KeyCamera},
	{kindKey, EventSleep, input.KeySleep},
	{kindKey, EventDisplayToggle, input.KeyDisplayToggle},
	{kindKey, EventSwitchVideoMode, input.KeySwitchVideoMode},
	{kindKey, EventAudioMute, input.KeyMute},
	{kindKey, EventWLAN, input.KeyWLAN},
	{kindKey, EventBrightness, input.KeyBrightnessDown},
	{kindKey, EventBrightness, input.KeyBrightnessUp},
	{kindKey, EventVolume, input.KeyVolumeDown},
	{kindKey, EventVolume, input.KeyVolumeUp},
}

// KeyCodes lists every key code the keymap can report, for device
// creation.
func KeyCodes() []input.Code {
	var codes []input.Code
	for _, e := range keymap {
		if e.kind == kindKey {
			codes = append(codes, e.code)
		}
	}
	return codes
}

// SwitchCodes lists every switch code the keymap can report.
func SwitchCodes() []input.Code {
	var codes []input.Code
	for _, e := range keymap {
		if e.kind == kindSwitch {
			codes = append(codes, e.code)
		}
	}
	return codes
}

// resolveEntry picks the keymap entry for an event. For the
// brightness and volume pairs it infers the direction from the status
// history and records the new status.
func (d *Dispatcher) resolveEntry(event Event, status int) *keyEntry {
	idx := -1
	for i := range keymap {
		if keymap[i].event == event {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	switch event {
	case EventBrightness:
		if toggleUp(status, d.lastBrightness) {
			idx++
		}
		d.lastBrightness = status
	case EventVolume:
		if toggleUp(status, d.lastVolume) {
			idx++
		}
		d.lastVolume = status
	}
	return &keymap[idx]
}

// toggleUp decides which half of a toggle pair to report. A reading
// that wrapped to zero, a first-ever reading and a drop below the
// previous level all resolve to the increase key.
func toggleUp(status, prev int) bool {
	return status == 0 || prev < 0 || status < prev
}
