//go:build !linux

package platform

import "errors"

// MachineID is only implemented on Linux.
func MachineID() (string, error) {
	return "", errors.New("platform: machine detection requires linux")
}
