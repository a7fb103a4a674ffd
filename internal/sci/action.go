package sci

import "github.com/loongson-community/yeeloong-laptop/internal/ec"

// transform adjusts or replaces the raw status of one event.
type transform func(d *Dispatcher, status int) int

// action pairs an optional status register with an optional transform.
// A zero register means the event carries no status byte; a nil
// transform passes the status through untouched.
type action struct {
	reg       ec.Reg
	transform transform
}

// actionFor is the dispatch table. Events without an entry fall
// through with status zero and no side effects.
func actionFor(event Event) action {
	switch event {
	case EventLid:
		return action{reg: ec.RegLidDetect}
	case EventSwitchVideoMode:
		return action{transform: (*Dispatcher).videoCycle}
	case EventCRTDetect:
		return action{reg: ec.RegCRTDetect, transform: (*Dispatcher).crtDetect}
	case EventCamera:
		return action{reg: ec.RegCameraStatus, transform: (*Dispatcher).cameraPulse}
	case EventUSB2OverCurrent:
		return action{reg: ec.RegUSB2Flag, transform: (*Dispatcher).usb2OverCurrent}
	case EventUSB0OverCurrent:
		return action{reg: ec.RegUSB0Flag, transform: (*Dispatcher).usb0OverCurrent}
	case EventDisplayToggle:
		return action{reg: ec.RegDisplayLCD, transform: (*Dispatcher).displayToggle}
	case EventAudioMute:
		return action{reg: ec.RegAudioMute}
	case EventBrightness:
		return action{reg: ec.RegBrightness}
	case EventVolume:
		return action{reg: ec.RegAudioVolume}
	case EventACBat:
		return action{transform: (*Dispatcher).powerChanged}
	}
	return action{}
}
