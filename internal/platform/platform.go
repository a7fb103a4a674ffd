// Package platform gates the driver onto the right machine and owns
// the subsystem lifecycle.
package platform

import (
	"errors"
	"fmt"
	"strings"
)

// YeeloongMachine is the machine identity of the Lemote Yeeloong 2F
// (8.9 inch) as /proc/cpuinfo reports it.
const YeeloongMachine = "lemote-yeeloong-2f-8.9inches"

// ErrUnsupportedMachine means the driver refused to touch this
// hardware.
var ErrUnsupportedMachine = errors.New("platform: unsupported machine")

// Check refuses to run on anything but the expected machine. An empty
// expect means the stock Yeeloong identity; a config override lets a
// bench setup pass the gate under its own name.
func Check(expect string) error {
	if expect == "" {
		expect = YeeloongMachine
	}
	id, err := MachineID()
	if err != nil {
		return err
	}
	if id != expect {
		return fmt.Errorf("%w: %q", ErrUnsupportedMachine, id)
	}
	return nil
}

// machineFromCPUInfo pulls the machine identity out of /proc/cpuinfo
// content. MIPS kernels report it under "system type" or "machine".
func machineFromCPUInfo(cpuinfo string) string {
	for _, line := range strings.Split(cpuinfo, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "machine", "system type":
			return strings.TrimSpace(value)
		}
	}
	return ""
}
