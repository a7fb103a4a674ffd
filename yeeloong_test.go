package yeeloong_test

import (
	"testing"

	yeeloong "github.com/loongson-community/yeeloong-laptop"
)

func TestGateFor(t *testing.T) {
	cases := []struct {
		version string
		toggle  bool
		suspend bool
	}{
		{"EC_VER=PQ1D25", false, false},
		{"EC_VER=PQ1D26", true, false},
		{"EC_VER=PQ1D27", true, true},
		{"EC_VER=PQ1D28", true, true},
	}
	for _, tc := range cases {
		gate := yeeloong.GateFor(tc.version)
		if gate.SelfLCDToggle != tc.toggle || gate.SelfLCDSuspend != tc.suspend {
			t.Errorf("GateFor(%q) = %+v, want toggle=%v suspend=%v",
				tc.version, gate, tc.toggle, tc.suspend)
		}
	}
}

func TestMachine(t *testing.T) {
	if yeeloong.Machine != "lemote-yeeloong-2f-8.9inches" {
		t.Errorf("Machine = %q", yeeloong.Machine)
	}
}
