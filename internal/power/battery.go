package power

import (
	"time"

	"github.com/loongson-community/yeeloong-laptop/internal/ec"
)

// Status is the charge direction of the battery.
type Status int

const (
	StatusNotCharging Status = iota
	StatusCharging
	StatusDischarging
)

func (s Status) String() string {
	switch s {
	case StatusCharging:
		return "charging"
	case StatusDischarging:
		return "discharging"
	}
	return "not-charging"
}

// Health grades the battery condition.
type Health int

const (
	HealthUnknown Health = iota
	HealthGood
	HealthDead
	HealthOverheat
)

func (h Health) String() string {
	switch h {
	case HealthGood:
		return "good"
	case HealthDead:
		return "dead"
	case HealthOverheat:
		return "overheat"
	}
	return "unknown"
}

// CapacityLevel bands the relative capacity.
type CapacityLevel int

const (
	CapacityUnknown CapacityLevel = iota
	CapacityCritical
	CapacityLow
	CapacityNormal
	CapacityHigh
	CapacityFull
)

func (l CapacityLevel) String() string {
	switch l {
	case CapacityCritical:
		return "critical"
	case CapacityLow:
		return "low"
	case CapacityNormal:
		return "normal"
	case CapacityHigh:
		return "high"
	case CapacityFull:
		return "full"
	}
	return "unknown"
}

// Relative capacity bands for CapacityLevel.
const (
	capCritical = 5
	capHigh     = 95
)

// Battery reads the battery pack state out of the EC. All 16-bit
// fields live in high/low register pairs.
type Battery struct {
	ec ec.RegisterIO
}

// NewBattery wraps the EC register backend.
func NewBattery(rw ec.RegisterIO) *Battery {
	return &Battery{ec: rw}
}

// Name implements Supply.
func (b *Battery) Name() string { return "yeeloongbattery" }

// Present reports whether a pack sits in the bay.
func (b *Battery) Present() bool {
	return b.ec.ReadReg(ec.RegBatStatus)&ec.BatStatusIn != 0
}

// Status reports the charge direction.
func (b *Battery) Status() Status {
	charge := b.ec.ReadReg(ec.RegBatCharge)
	switch {
	case charge&ec.BatChargeDischarging != 0:
		return StatusDischarging
	case charge&ec.BatChargeCharging != 0:
		return StatusCharging
	}
	return StatusNotCharging
}

// Health grades the pack. A destroyed or depleted pack reads dead; an
// over-temperature charge condition reads overheat over anything else.
func (b *Battery) Health() Health {
	if !b.Present() {
		return HealthUnknown
	}
	health := HealthGood
	if b.ec.ReadReg(ec.RegBatStatus)&(ec.BatStatusDestroy|ec.BatStatusLow) != 0 {
		health = HealthDead
	}
	if b.OverTemperature() {
		health = HealthOverheat
	}
	return health
}

// OverTemperature reports the charge-circuit temperature alarm.
func (b *Battery) OverTemperature() bool {
	return b.ec.ReadReg(ec.RegBatChargeStatus)&ec.BatChargeStatusOverTemp != 0
}

// DesignVoltage is the nominal pack voltage in µV.
func (b *Battery) DesignVoltage() int {
	return ec.ReadPair(b.ec, ec.RegBatDesignVoltHigh, ec.RegBatDesignVoltLow) * 1000
}

// DesignCapacity is the design capacity in µAh.
func (b *Battery) DesignCapacity() int {
	return ec.ReadPair(b.ec, ec.RegBatDesignCapHigh, ec.RegBatDesignCapLow) * 1000
}

// FullCapacity is the last full-charge capacity in µAh.
func (b *Battery) FullCapacity() int {
	return ec.ReadPair(b.ec, ec.RegBatFullCapHigh, ec.RegBatFullCapLow) * 1000
}

// ChargeNow estimates the current charge in µAh from the relative
// capacity against the full-charge capacity.
func (b *Battery) ChargeNow() int {
	rel := ec.ReadPair(b.ec, ec.RegBatRelCapHigh, ec.RegBatRelCapLow)
	full := ec.ReadPair(b.ec, ec.RegBatFullCapHigh, ec.RegBatFullCapLow)
	return rel * full * 10
}

// CurrentNow is the pack current in µA, negative while discharging as
// the EC counts it, or 0 without a pack.
func (b *Battery) CurrentNow() int {
	if !b.Present() {
		return 0
	}
	raw := int16(ec.ReadPair(b.ec, ec.RegBatCurrentHigh, ec.RegBatCurrentLow))
	return int(-raw) * 1000
}

// VoltageNow is the pack voltage in µV, or 0 without a pack.
func (b *Battery) VoltageNow() int {
	if !b.Present() {
		return 0
	}
	return ec.ReadPair(b.ec, ec.RegBatVoltageHigh, ec.RegBatVoltageLow) * 1000
}

// Temperature is the pack temperature in millidegrees Celsius, or 0
// without a pack.
func (b *Battery) Temperature() int {
	if !b.Present() {
		return 0
	}
	return ec.ReadPair(b.ec, ec.RegBatTempHigh, ec.RegBatTempLow) * 1000
}

// Capacity is the relative capacity in percent, or 0 without a pack.
func (b *Battery) Capacity() int {
	if !b.Present() {
		return 0
	}
	return ec.ReadPair(b.ec, ec.RegBatRelCapHigh, ec.RegBatRelCapLow)
}

// CapacityLevel bands the capacity. Status bits win over the relative
// reading; a destroyed pack reads unknown.
func (b *Battery) CapacityLevel() CapacityLevel {
	if !b.Present() {
		return CapacityUnknown
	}
	status := b.ec.ReadReg(ec.RegBatStatus)
	switch {
	case status&ec.BatStatusDestroy != 0:
		return CapacityUnknown
	case status&ec.BatStatusLow != 0:
		return CapacityLow
	case status&ec.BatStatusFull != 0:
		return CapacityFull
	}
	switch rel := ec.ReadPair(b.ec, ec.RegBatRelCapHigh, ec.RegBatRelCapLow); {
	case rel >= capHigh:
		return CapacityHigh
	case rel <= capCritical:
		return CapacityCritical
	}
	return CapacityNormal
}

// TimeToEmpty estimates the remaining runtime from the relative
// capacity, per the vendor's linear fit. Zero without a pack.
func (b *Battery) TimeToEmpty() time.Duration {
	if !b.Present() {
		return 0
	}
	rel := ec.ReadPair(b.ec, ec.RegBatRelCapHigh, ec.RegBatRelCapLow)
	return time.Duration((rel-3)*54+142) * time.Second
}

// Manufacturer names the pack vendor.
func (b *Battery) Manufacturer() string {
	if b.ec.ReadReg(ec.RegBatVendor) == ec.BatVendorSanyo {
		return "SANYO"
	}
	return "SIMPLO"
}

var _ Supply = (*Battery)(nil)
