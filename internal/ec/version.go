package ec

// Firmware versions that moved LCD handling into the EC itself.
const (
	verSelfLCDToggle  = "EC_VER=PQ1D26"
	verSelfLCDSuspend = "EC_VER=PQ1D27"
)

// FeatureGate records which jobs this firmware performs on its own.
// Doing them again from the driver leaves the panel brightness wrong,
// so the gate is computed once and consulted on every affected path.
type FeatureGate struct {
	// SelfLCDToggle: the firmware switches the LCD on Fn+F3 itself.
	SelfLCDToggle bool
	// SelfLCDSuspend: the firmware restores the LCD across suspend.
	SelfLCDSuspend bool
}

// GateFor derives the feature gate from a firmware version string.
func GateFor(version string) FeatureGate {
	return FeatureGate{
		SelfLCDToggle:  !VersionBefore(version, verSelfLCDToggle),
		SelfLCDSuspend: !VersionBefore(version, verSelfLCDSuspend),
	}
}

// VersionBefore reports whether version a sorts before version b. EC
// version strings compare case-insensitively over at most
// VersionLength bytes.
func VersionBefore(a, b string) bool {
	if len(a) > VersionLength {
		a = a[:VersionLength]
	}
	if len(b) > VersionLength {
		b = b[:VersionLength]
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ca, cb := lower(a[i]), lower(b[i])
		if ca != cb {
			return ca < cb
		}
	}
	return len(a) < len(b)
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
