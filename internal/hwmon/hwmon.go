// Package hwmon reads the Yeeloong's fan and thermal state out of the
// EC and exposes it as named channels under the hwmon naming scheme.
package hwmon

import (
	"log/slog"

	"github.com/loongson-community/yeeloong-laptop/internal/ec"
)

// Fan PWM modes.
const (
	PWMFullSpeed = 0
	PWMManual    = 1
	PWMAuto      = 2
)

// Channel is one named sensor. Set is nil on read-only channels.
type Channel struct {
	Name string
	Get  func() int
	Set  func(value int)
}

// Sensors is the EC-backed sensor bank.
type Sensors struct {
	ec ec.RegisterIO
}

// NewSensors wraps the EC register backend.
func NewSensors(rw ec.RegisterIO) *Sensors {
	return &Sensors{ec: rw}
}

// Init puts the fan under firmware control.
func (s *Sensors) Init() {
	s.SetPWMEnable(PWMAuto)
	slog.Debug("hwmon: fan mode set to auto")
}

// FanRPM converts the 14-bit tachometer reading into RPM. A stopped
// rotor reads 0.
func (s *Sensors) FanRPM() int {
	high := int(s.ec.ReadReg(ec.RegFanSpeedHigh) & 0x0f)
	low := int(s.ec.ReadReg(ec.RegFanSpeedLow))
	raw := high<<8 | low
	if raw == 0 {
		return 0
	}
	return ec.FanSpeedDivider / raw
}

// FanLevel reads the commanded fan speed level.
func (s *Sensors) FanLevel() int {
	return int(s.ec.ReadReg(ec.RegFanSpeedLevel))
}

// SetFanLevel commands a fan speed level. It only takes effect in
// manual mode; the level clamps to 0..3 and any nonzero level powers
// the fan on first.
func (s *Sensors) SetFanLevel(level int) {
	if s.ec.ReadReg(ec.RegFanAutoManSwitch) != ec.FanManual {
		return
	}
	level = min(max(level, 0), ec.MaxFanLevel)
	if level > 0 {
		s.ec.WriteReg(ec.RegFanControl, ec.FanControlOn)
	}
	s.ec.WriteReg(ec.RegFanSpeedLevel, byte(level))
}

// PWMEnable reports the fan mode: 0 full speed, 1 manual, 2 auto. A
// manual fan pinned at the top level reads back as full speed.
func (s *Sensors) PWMEnable() int {
	level := int(s.ec.ReadReg(ec.RegFanSpeedLevel))
	mode := s.ec.ReadReg(ec.RegFanAutoManSwitch)
	switch {
	case mode == ec.FanManual && level == ec.MaxFanLevel:
		return PWMFullSpeed
	case mode == ec.FanManual:
		return PWMManual
	}
	return PWMAuto
}

// SetPWMEnable switches the fan mode. Unknown modes are ignored.
func (s *Sensors) SetPWMEnable(mode int) {
	switch mode {
	case PWMFullSpeed:
		s.ec.WriteReg(ec.RegFanAutoManSwitch, ec.FanManual)
		s.ec.WriteReg(ec.RegFanSpeedLevel, ec.MaxFanLevel)
	case PWMManual:
		s.ec.WriteReg(ec.RegFanAutoManSwitch, ec.FanManual)
	case PWMAuto:
		s.ec.WriteReg(ec.RegFanAutoManSwitch, ec.FanAuto)
	}
}

// CPUTemp is the CPU temperature in millidegrees Celsius. The EC
// reports a signed byte.
func (s *Sensors) CPUTemp() int {
	return int(int8(s.ec.ReadReg(ec.RegTemperature))) * 1000
}

// CPUTempMax is the design limit in millidegrees Celsius.
func (s *Sensors) CPUTempMax() int { return 60_000 }

// BatteryTemp is the pack temperature in millidegrees Celsius.
func (s *Sensors) BatteryTemp() int {
	return ec.ReadPair(s.ec, ec.RegBatTempHigh, ec.RegBatTempLow) * 1000
}

// BatteryCurrent is the pack current in mA, negated from the EC's
// discharge-positive convention.
func (s *Sensors) BatteryCurrent() int {
	raw := int16(ec.ReadPair(s.ec, ec.RegBatCurrentHigh, ec.RegBatCurrentLow))
	return int(-raw)
}

// BatteryVoltage is the pack voltage in mV.
func (s *Sensors) BatteryVoltage() int {
	return ec.ReadPair(s.ec, ec.RegBatVoltageHigh, ec.RegBatVoltageLow)
}

// BatteryTempAlarm reports the charge-circuit temperature alarm.
func (s *Sensors) BatteryTempAlarm() bool {
	return s.ec.ReadReg(ec.RegBatChargeStatus)&ec.BatChargeStatusOverTemp != 0
}

// Channels lists every sensor under its hwmon name.
func (s *Sensors) Channels() []Channel {
	return []Channel{
		{Name: "pwm1", Get: s.FanLevel, Set: s.SetFanLevel},
		{Name: "pwm1_enable", Get: s.PWMEnable, Set: s.SetPWMEnable},
		{Name: "fan1_input", Get: s.FanRPM},
		{Name: "temp1_input", Get: s.CPUTemp},
		{Name: "temp1_max", Get: s.CPUTempMax},
		{Name: "temp2_input", Get: s.BatteryTemp},
		{Name: "temp2_max_alarm", Get: func() int {
			if s.BatteryTempAlarm() {
				return 1
			}
			return 0
		}},
		{Name: "curr1_input", Get: s.BatteryCurrent},
		{Name: "in1_input", Get: s.BatteryVoltage},
	}
}
