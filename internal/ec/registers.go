package ec

// Reg addresses one byte register in the KB3310B index space.
type Reg uint16

// I/O ports of the index-mapped register protocol.
const (
	portIndexHigh uint16 = 0x0381
	portIndexLow  uint16 = 0x0382
	portIndexData uint16 = 0x0383
)

// I/O ports of the command protocol used for event queries.
const (
	portCommand uint16 = 0x0066 // doubles as the status port on read
	portData    uint16 = 0x0062
)

const (
	statusOBF byte = 1 << 0 // output buffer full: an answer byte is ready
	statusIBF byte = 1 << 1 // input buffer full: the EC is still busy

	cmdGetEventNum byte = 0x84
)

// Firmware version window. The EC keeps its version string
// ("EC_VER=PQ1D26" style) in a fixed 64-byte field right below the
// runtime registers.
const (
	RegVersion    Reg = 0xf400
	VersionLength     = 64
)

// Runtime registers.
const (
	RegBatPower         Reg = 0xf440
	RegFanAutoManSwitch Reg = 0xf459
	RegUSB0Flag         Reg = 0xf461
	RegUSB1Flag         Reg = 0xf462
	RegUSB2Flag         Reg = 0xf463
	RegCameraStatus     Reg = 0xf46a
	RegAudioVolume      Reg = 0xf46c
	RegBatRelCapHigh    Reg = 0xf492
	RegBatRelCapLow     Reg = 0xf493
	RegBatCharge        Reg = 0xf4a2
	RegCRTDetect        Reg = 0xf4ad
	RegBatStatus        Reg = 0xf4b0
	RegBatChargeStatus  Reg = 0xf4b1
	RegLidDetect        Reg = 0xf4bd
	RegTemperature      Reg = 0xf4c1
	RegBatVendor        Reg = 0xf4c4
	RegFanSpeedLevel    Reg = 0xf4cc
	RegFanControl       Reg = 0xf4d2
	RegAudioMute        Reg = 0xf4e7
	RegBrightness       Reg = 0xf4f5
	RegWLAN             Reg = 0xf4fa

	RegBatDesignCapHigh  Reg = 0xf77d
	RegBatDesignCapLow   Reg = 0xf77e
	RegBatFullCapHigh    Reg = 0xf780
	RegBatFullCapLow     Reg = 0xf781
	RegBatDesignVoltHigh Reg = 0xf782
	RegBatDesignVoltLow  Reg = 0xf783
	RegBatCurrentHigh    Reg = 0xf784
	RegBatCurrentLow     Reg = 0xf785
	RegBatVoltageHigh    Reg = 0xf786
	RegBatVoltageLow     Reg = 0xf787
	RegBatTempHigh       Reg = 0xf788
	RegBatTempLow        Reg = 0xf789
	RegDisplayLCD        Reg = 0xf79f
	RegCameraControl     Reg = 0xf7b7

	RegFanSpeedHigh Reg = 0xfe22
	RegFanSpeedLow  Reg = 0xfe23
)

// Register bits and flag values.
const (
	BatPowerACIn byte = 1 << 0

	BatStatusIn      byte = 1 << 0
	BatStatusFull    byte = 1 << 1
	BatStatusDestroy byte = 1 << 2
	BatStatusLow     byte = 1 << 5

	BatChargeStatusOverTemp byte = 1 << 2

	BatChargeDischarging byte = 0x01
	BatChargeCharging    byte = 0x02

	BatVendorSanyo  byte = 0x01
	BatVendorSimplo byte = 0x02

	FanManual byte = 0
	FanAuto   byte = 1

	FanControlOff byte = 0
	FanControlOn  byte = 1

	WLANOff byte = 0
	WLANOn  byte = 1

	USBFlagOff byte = 0
	USBFlagOn  byte = 1

	CameraEnable byte = 1 << 1
)

// Hardware limits and conversion factors.
const (
	MaxBrightness   = 8
	MaxFanLevel     = 3
	FanSpeedDivider = 480000
)
