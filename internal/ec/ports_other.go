//go:build !linux

package ec

import "errors"

// OpenPorts opens the port space backend.
func OpenPorts() (PortIO, error) {
	return nil, errors.New("ec: port access needs linux")
}
