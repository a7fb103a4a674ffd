// Package sci services the system control interrupt of the KB3310B:
// it queries the pending event, runs the matching action and reports
// the resolved key or switch to the input layer.
package sci

import "fmt"

// Event is an SCI event number reported by the EC.
type Event int

// KB3310B SCI event numbers.
const (
	EventLid             Event = 0x01
	EventDisplayToggle   Event = 0x02
	EventSleep           Event = 0x03
	EventOverTemp        Event = 0x04
	EventCRTDetect       Event = 0x05
	EventCamera          Event = 0x06
	EventUSB2OverCurrent Event = 0x07
	EventUSB0OverCurrent Event = 0x08
	EventSwitchVideoMode Event = 0x09
	EventAudioMute       Event = 0x0a
	EventBrightness      Event = 0x0b
	EventACBat           Event = 0x0c
	EventVolume          Event = 0x0d
	EventWLAN            Event = 0x0e

	eventFirst = EventLid
	eventLast  = EventWLAN
)

// Valid reports whether e falls inside the dispatchable range.
func (e Event) Valid() bool {
	return e >= eventFirst && e <= eventLast
}

func (e Event) String() string {
	switch e {
	case EventLid:
		return "lid"
	case EventDisplayToggle:
		return "display-toggle"
	case EventSleep:
		return "sleep"
	case EventOverTemp:
		return "over-temperature"
	case EventCRTDetect:
		return "crt-detect"
	case EventCamera:
		return "camera"
	case EventUSB2OverCurrent:
		return "usb2-overcurrent"
	case EventUSB0OverCurrent:
		return "usb0-overcurrent"
	case EventSwitchVideoMode:
		return "switch-video-mode"
	case EventAudioMute:
		return "audio-mute"
	case EventBrightness:
		return "brightness"
	case EventACBat:
		return "ac-bat"
	case EventVolume:
		return "volume"
	case EventWLAN:
		return "wlan"
	}
	return fmt.Sprintf("event(%#02x)", int(e))
}
