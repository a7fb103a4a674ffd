package hwmon

import (
	"testing"

	"github.com/loongson-community/yeeloong-laptop/internal/ec"
	"github.com/loongson-community/yeeloong-laptop/internal/ec/ectest"
)

func TestPWMEnableReadback(t *testing.T) {
	mock := ectest.New()
	s := NewSensors(mock)

	cases := []struct {
		mode  byte
		level byte
		want  int
	}{
		{ec.FanManual, ec.MaxFanLevel, PWMFullSpeed},
		{ec.FanManual, 1, PWMManual},
		{ec.FanAuto, ec.MaxFanLevel, PWMAuto},
		{ec.FanAuto, 0, PWMAuto},
	}
	for _, c := range cases {
		mock.Set(ec.RegFanAutoManSwitch, c.mode)
		mock.Set(ec.RegFanSpeedLevel, c.level)
		if got := s.PWMEnable(); got != c.want {
			t.Errorf("mode %d level %d: pwm enable = %d, want %d", c.mode, c.level, got, c.want)
		}
	}
}

func TestSetPWMEnable(t *testing.T) {
	mock := ectest.New()
	s := NewSensors(mock)

	s.SetPWMEnable(PWMFullSpeed)
	want := []ectest.Write{
		{Reg: ec.RegFanAutoManSwitch, Value: ec.FanManual},
		{Reg: ec.RegFanSpeedLevel, Value: ec.MaxFanLevel},
	}
	writes := mock.Writes()
	if len(writes) != 2 || writes[0] != want[0] || writes[1] != want[1] {
		t.Fatalf("full speed writes = %v, want %v", writes, want)
	}

	mock = ectest.New()
	s = NewSensors(mock)
	s.SetPWMEnable(PWMAuto)
	if values := mock.WritesTo(ec.RegFanAutoManSwitch); len(values) != 1 || values[0] != ec.FanAuto {
		t.Fatalf("auto writes = %v", values)
	}
	if len(mock.WritesTo(ec.RegFanSpeedLevel)) != 0 {
		t.Fatal("auto mode touched the level")
	}

	mock = ectest.New()
	s = NewSensors(mock)
	s.SetPWMEnable(7)
	if len(mock.Writes()) != 0 {
		t.Fatalf("unknown mode wrote %v", mock.Writes())
	}
}

func TestSetFanLevel(t *testing.T) {
	mock := ectest.New()
	s := NewSensors(mock)

	// Auto mode: the command is ignored.
	mock.Set(ec.RegFanAutoManSwitch, ec.FanAuto)
	s.SetFanLevel(2)
	if len(mock.Writes()) != 0 {
		t.Fatalf("auto mode wrote %v", mock.Writes())
	}

	mock.Set(ec.RegFanAutoManSwitch, ec.FanManual)
	s.SetFanLevel(2)
	if values := mock.WritesTo(ec.RegFanSpeedLevel); len(values) != 1 || values[0] != 2 {
		t.Fatalf("level writes = %v, want [2]", values)
	}
	// Nonzero level powers the fan on first.
	if values := mock.WritesTo(ec.RegFanControl); len(values) != 1 || values[0] != ec.FanControlOn {
		t.Fatalf("control writes = %v, want [on]", values)
	}

	s.SetFanLevel(9)
	if values := mock.WritesTo(ec.RegFanSpeedLevel); values[len(values)-1] != ec.MaxFanLevel {
		t.Fatalf("level 9 wrote %d, want clamp to %d", values[len(values)-1], ec.MaxFanLevel)
	}

	controls := len(mock.WritesTo(ec.RegFanControl))
	s.SetFanLevel(0)
	if values := mock.WritesTo(ec.RegFanSpeedLevel); values[len(values)-1] != 0 {
		t.Fatalf("level 0 wrote %d", values[len(values)-1])
	}
	if got := len(mock.WritesTo(ec.RegFanControl)); got != controls {
		t.Fatal("level 0 powered the fan")
	}
}

func TestFanRPM(t *testing.T) {
	mock := ectest.New()
	s := NewSensors(mock)

	// Only the low nibble of the high byte counts.
	mock.Set(ec.RegFanSpeedHigh, 0xf2)
	mock.Set(ec.RegFanSpeedLow, 0x58)
	if got := s.FanRPM(); got != ec.FanSpeedDivider/0x258 {
		t.Fatalf("rpm = %d, want %d", got, ec.FanSpeedDivider/0x258)
	}

	mock.Set(ec.RegFanSpeedHigh, 0)
	mock.Set(ec.RegFanSpeedLow, 0)
	if got := s.FanRPM(); got != 0 {
		t.Fatalf("stopped rotor rpm = %d, want 0", got)
	}
}

func TestTemperatures(t *testing.T) {
	mock := ectest.New()
	s := NewSensors(mock)

	mock.Set(ec.RegTemperature, 45)
	if got := s.CPUTemp(); got != 45_000 {
		t.Errorf("cpu temp = %d", got)
	}
	mock.Set(ec.RegTemperature, 0xff) // -1
	if got := s.CPUTemp(); got != -1_000 {
		t.Errorf("negative cpu temp = %d", got)
	}
	if got := s.CPUTempMax(); got != 60_000 {
		t.Errorf("cpu temp max = %d", got)
	}

	mock.SetPair(ec.RegBatTempHigh, ec.RegBatTempLow, 35)
	if got := s.BatteryTemp(); got != 35_000 {
		t.Errorf("battery temp = %d", got)
	}
	mock.Set(ec.RegBatChargeStatus, ec.BatChargeStatusOverTemp)
	if !s.BatteryTempAlarm() {
		t.Error("alarm clear with the overtemp bit set")
	}
}

func TestBatteryElectricals(t *testing.T) {
	mock := ectest.New()
	s := NewSensors(mock)

	mock.SetPair(ec.RegBatCurrentHigh, ec.RegBatCurrentLow, 0xfc00) // -1024
	if got := s.BatteryCurrent(); got != 1024 {
		t.Errorf("current = %d mA, want 1024", got)
	}
	mock.SetPair(ec.RegBatVoltageHigh, ec.RegBatVoltageLow, 12000)
	if got := s.BatteryVoltage(); got != 12000 {
		t.Errorf("voltage = %d mV", got)
	}
}

func TestChannels(t *testing.T) {
	mock := ectest.New()
	s := NewSensors(mock)

	wantNames := []string{
		"pwm1", "pwm1_enable", "fan1_input",
		"temp1_input", "temp1_max",
		"temp2_input", "temp2_max_alarm",
		"curr1_input", "in1_input",
	}
	channels := s.Channels()
	if len(channels) != len(wantNames) {
		t.Fatalf("%d channels, want %d", len(channels), len(wantNames))
	}
	for i, ch := range channels {
		if ch.Name != wantNames[i] {
			t.Errorf("channel %d = %q, want %q", i, ch.Name, wantNames[i])
		}
		if ch.Get == nil {
			t.Errorf("channel %q has no getter", ch.Name)
		}
		settable := ch.Name == "pwm1" || ch.Name == "pwm1_enable"
		if (ch.Set != nil) != settable {
			t.Errorf("channel %q settable = %v", ch.Name, ch.Set != nil)
		}
	}

	mock.Set(ec.RegBatChargeStatus, ec.BatChargeStatusOverTemp)
	for _, ch := range channels {
		if ch.Name == "temp2_max_alarm" && ch.Get() != 1 {
			t.Error("alarm channel = 0 with the overtemp bit set")
		}
	}
}
