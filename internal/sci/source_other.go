//go:build !linux

package sci

import "errors"

// GPIOSource is only available on linux.
type GPIOSource struct{}

func OpenGPIOSource(chip string, offset int, notify func()) (*GPIOSource, error) {
	return nil, errors.New("sci: gpio events need linux")
}

func (s *GPIOSource) Close() error { return nil }
