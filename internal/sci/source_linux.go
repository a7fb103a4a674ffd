//go:build linux

package sci

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOSource subscribes to edges on the SCI pin through the GPIO
// character device and forwards each one to notify. The EC pulls the
// line low for roughly 120us per event.
type GPIOSource struct {
	line *gpiocdev.Line
}

// OpenGPIOSource requests the SCI pin as an edge-event input.
func OpenGPIOSource(chip string, offset int, notify func()) (*GPIOSource, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithConsumer("yeeloong-sci"),
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			notify()
		}))
	if err != nil {
		return nil, fmt.Errorf("sci: request %s:%d: %w", chip, offset, err)
	}
	return &GPIOSource{line: line}, nil
}

// Close releases the line. No events fire afterwards.
func (s *GPIOSource) Close() error {
	return s.line.Close()
}
