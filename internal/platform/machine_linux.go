//go:build linux

package platform

import (
	"errors"
	"fmt"
	"os"
)

// MachineID reads the machine identity from /proc/cpuinfo.
func MachineID() (string, error) {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return "", fmt.Errorf("platform: machine id: %w", err)
	}
	id := machineFromCPUInfo(string(data))
	if id == "" {
		return "", errors.New("platform: no machine field in /proc/cpuinfo")
	}
	return id, nil
}
