package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/loongson-community/yeeloong-laptop/internal/ec"
	"github.com/loongson-community/yeeloong-laptop/internal/hwmon"
	"github.com/loongson-community/yeeloong-laptop/internal/power"
	"golang.org/x/term"
)

var (
	bold  = ansi.Style{}.Bold()
	faint = ansi.Style{}.Faint()
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ecmon: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	interval := flag.Duration("interval", time.Second, "Refresh interval")
	once := flag.Bool("once", false, "Print one snapshot and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Live dashboard over the Yeeloong embedded controller.\n")
		fmt.Fprintf(os.Stderr, "Reads registers only; never writes. Press q to quit.\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                    Refresh every second\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -interval 250ms    Refresh faster\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -once              One plain snapshot\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	ports, err := ec.OpenPorts()
	if err != nil {
		return fmt.Errorf("open port backend: %w", err)
	}
	client := ec.NewClient(ports)
	defer client.Close()

	mon := &monitor{
		client:  client,
		ac:      power.NewAC(client),
		battery: power.NewBattery(client),
		sensors: hwmon.NewSensors(client),
		version: client.Version(),
	}

	if *once || !term.IsTerminal(int(os.Stdout.Fd())) {
		for _, line := range mon.render(false) {
			fmt.Println(line)
		}
		return nil
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	// Raw mode turns off ISIG, so quit on both q and ctrl-c.
	quit := make(chan struct{})
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(quit)
				return
			}
			if n == 1 && (buf[0] == 'q' || buf[0] == 0x03) {
				close(quit)
				return
			}
		}
	}()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	drawn := 0
	for {
		lines := mon.render(true)
		if drawn > 0 {
			fmt.Print(ansi.CursorUp(drawn))
		}
		for _, line := range lines {
			fmt.Printf("\r%s%s\r\n", ansi.EraseLineRight, line)
		}
		drawn = len(lines)

		select {
		case <-quit:
			return nil
		case <-ticker.C:
		}
	}
}

// monitor samples the EC without ever writing to it.
type monitor struct {
	client  *ec.Client
	ac      *power.AC
	battery *power.Battery
	sensors *hwmon.Sensors
	version string
}

func (m *monitor) render(styled bool) []string {
	title := fmt.Sprintf("Yeeloong EC  %s", m.version)
	if styled {
		title = bold.Styled(title)
	}
	lines := []string{
		title,
		row(styled, "power", m.powerLine()),
		row(styled, "battery", m.batteryLine()),
		row(styled, "fan", m.fanLine()),
		row(styled, "temp", m.tempLine()),
		row(styled, "panel", m.panelLine()),
		row(styled, "flags", m.flagsLine()),
	}
	if styled {
		lines = append(lines, faint.Styled("q to quit"))
	}
	return lines
}

func row(styled bool, label, value string) string {
	label = fmt.Sprintf("%-8s", label)
	if styled {
		label = faint.Styled(label)
	}
	return label + value
}

func (m *monitor) powerLine() string {
	if m.ac.Online() {
		return "ac online"
	}
	return "ac offline"
}

func (m *monitor) batteryLine() string {
	if !m.battery.Present() {
		return "absent"
	}
	return fmt.Sprintf("%s %d%% (%s, %s)  %d mV %d mA",
		m.battery.Status(), m.battery.Capacity(), m.battery.CapacityLevel(),
		m.battery.Manufacturer(), m.sensors.BatteryVoltage(), m.sensors.BatteryCurrent())
}

func (m *monitor) fanLine() string {
	mode := "auto"
	switch m.sensors.PWMEnable() {
	case hwmon.PWMFullSpeed:
		mode = "full-speed"
	case hwmon.PWMManual:
		mode = "manual"
	}
	return fmt.Sprintf("level %d/%d  %s  %d rpm",
		m.sensors.FanLevel(), ec.MaxFanLevel, mode, m.sensors.FanRPM())
}

func (m *monitor) tempLine() string {
	line := fmt.Sprintf("cpu %s  battery %s",
		millidegrees(m.sensors.CPUTemp()), millidegrees(m.sensors.BatteryTemp()))
	if m.sensors.BatteryTempAlarm() {
		line += "  OVERTEMP"
	}
	return line
}

func (m *monitor) panelLine() string {
	return fmt.Sprintf("brightness %d/%d",
		m.client.ReadReg(ec.RegBrightness), ec.MaxBrightness)
}

func (m *monitor) flagsLine() string {
	flags := []struct {
		name string
		on   bool
	}{
		{"lcd", m.client.ReadReg(ec.RegDisplayLCD) != 0},
		{"crt-plug", m.client.ReadReg(ec.RegCRTDetect) != 0},
		{"wlan", m.client.ReadReg(ec.RegWLAN) == ec.WLANOn},
		{"camera", m.client.ReadReg(ec.RegCameraStatus) != 0},
		{"lid-open", m.client.ReadReg(ec.RegLidDetect) != 0},
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		mark := "-"
		if f.on {
			mark = "+"
		}
		parts[i] = mark + f.name
	}
	return strings.Join(parts, " ")
}

func millidegrees(mc int) string {
	return fmt.Sprintf("%d.%01dC", mc/1000, abs(mc%1000)/100)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
