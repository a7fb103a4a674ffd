package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/loongson-community/yeeloong-laptop/internal/backlight"
	"github.com/loongson-community/yeeloong-laptop/internal/config"
	"github.com/loongson-community/yeeloong-laptop/internal/control"
	"github.com/loongson-community/yeeloong-laptop/internal/ec"
	"github.com/loongson-community/yeeloong-laptop/internal/hwmon"
	"github.com/loongson-community/yeeloong-laptop/internal/input"
	"github.com/loongson-community/yeeloong-laptop/internal/platform"
	"github.com/loongson-community/yeeloong-laptop/internal/power"
	"github.com/loongson-community/yeeloong-laptop/internal/sci"
	"github.com/loongson-community/yeeloong-laptop/internal/trace"
	"github.com/loongson-community/yeeloong-laptop/internal/video"
	"golang.org/x/sync/errgroup"
)

const traceCapacity = 256

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "yeeloongd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultPath, "Configuration file")
	socket := flag.String("socket", "", "Control socket path (overrides config)")
	send := flag.String("send", "", "Send a command to a running daemon and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Platform daemon for the Lemote Yeeloong 2F laptop.\n")
		fmt.Fprintf(os.Stderr, "Drives the KB3310B embedded controller: hotkeys, lid switch,\n")
		fmt.Fprintf(os.Stderr, "backlight, battery, fan and suspend rails.\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                         Run with /etc/yeeloongd.yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -config ./dev.yaml      Run with another config\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -send status            Query a running daemon\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -send suspend           Ask a running daemon to suspend\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nControl commands: suspend, resume, status, trace\n")
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *socket != "" {
		cfg.Socket = *socket
	}

	// Client mode: talk to a running daemon and exit.
	if *send != "" {
		body, err := control.Send(cfg.Socket, *send)
		if err != nil {
			return err
		}
		if body != "" {
			fmt.Println(body)
		}
		return nil
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	})))

	if err := platform.Check(cfg.Machine); err != nil {
		return err
	}

	ports, err := ec.OpenPorts()
	if err != nil {
		return fmt.Errorf("open port backend: %w", err)
	}
	client := ec.NewClient(ports)
	defer client.Close()

	version := cfg.ECVersion
	if version == "" {
		version = client.Version()
	}
	gate := ec.GateFor(version)
	slog.Info("ec: firmware", "version", version,
		"selfLCDToggle", gate.SelfLCDToggle, "selfLCDSuspend", gate.SelfLCDSuspend)

	rails := video.NewOutput(ports)
	events := trace.New(traceCapacity)
	dispatcher := sci.NewDispatcher(client, client, rails, gate, sci.WithTrace(events))
	chipset := sci.NewCS5536(ports)
	routing := sci.NewRouting(ports, chipset, client,
		sci.WithSettleDelay(time.Duration(cfg.SettleDelay)))

	supplies := power.NewRegistry()
	ac := power.NewAC(client)
	battery := power.NewBattery(client)
	sensors := hwmon.NewSensors(client)
	orchestrator := power.NewOrchestrator(client, rails, gate, routing, dispatcher)

	// Subsystem-owned state, filled in by the Start hooks.
	var (
		panel     *backlight.Device
		hotkeySrc *sci.GPIOSource
		hotkeyDev *input.Device
	)

	driver := platform.NewDriver()
	subsystems := []platform.Subsystem{
		{
			Name: "backlight",
			Start: func() error {
				panel = backlight.New(client)
				return nil
			},
		},
		{
			Name: "power",
			Start: func() error {
				if err := supplies.Register(ac); err != nil {
					return err
				}
				if err := supplies.Register(battery); err != nil {
					return err
				}
				dispatcher.SetPowerNotifier(supplies)
				return nil
			},
			Stop: func() {
				dispatcher.SetPowerNotifier(nil)
				supplies.Unregister(battery)
				supplies.Unregister(ac)
			},
		},
		{
			Name: "hwmon",
			Start: func() error {
				sensors.Init()
				return nil
			},
		},
		{
			Name: "hotkey",
			Start: func() error {
				power.SetWLAN(client, true)
				if err := routing.Program(); err != nil {
					return err
				}
				src, err := sci.OpenGPIOSource(cfg.GPIOChip, cfg.GPIOLine, dispatcher.Notify)
				if err != nil {
					return err
				}
				dev, err := input.NewDevice(cfg.InputName, sci.KeyCodes(), sci.SwitchCodes())
				if err != nil {
					src.Close()
					return err
				}
				dispatcher.SetReporter(dev)
				dev.Switch(input.SwitchLid, client.ReadReg(ec.RegLidDetect) == 0)
				hotkeySrc, hotkeyDev = src, dev
				return nil
			},
			Stop: func() {
				hotkeySrc.Close()
				dispatcher.SetReporter(input.Discard())
				hotkeyDev.Close()
			},
		},
	}
	for _, sub := range subsystems {
		if err := driver.Register(sub); err != nil {
			return err
		}
	}

	if err := driver.Start(); err != nil {
		return err
	}
	defer driver.Stop()

	handle := func(cmd string) (string, error) {
		switch cmd {
		case "suspend":
			return "", orchestrator.Suspend()
		case "resume":
			return "", orchestrator.Resume()
		case "status":
			return statusText(version, orchestrator, ac, battery, sensors, panel), nil
		case "trace":
			return traceText(events), nil
		}
		return "", fmt.Errorf("unknown command %q", cmd)
	}
	server, err := control.NewServer(cfg.Socket, handle)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// SIGUSR1 dumps the event trace to stderr without disturbing the
	// daemon.
	usr1 := make(chan os.Signal, 1)
	signal.Notify(usr1, syscall.SIGUSR1)
	defer signal.Stop(usr1)
	go func() {
		for range usr1 {
			fmt.Fprintln(os.Stderr, traceText(events))
		}
	}()

	slog.Info("yeeloongd: ready", "socket", server.SocketPath(), "machine", platform.YeeloongMachine)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := dispatcher.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(server.Serve)
	g.Go(func() error {
		<-ctx.Done()
		return server.Close()
	})
	err = g.Wait()

	slog.Info("yeeloongd: shutting down", "droppedInterrupts", dispatcher.Dropped())
	return err
}

// statusText renders the status command body, one field per line.
func statusText(version string, orch *power.Orchestrator, ac *power.AC,
	battery *power.Battery, sensors *hwmon.Sensors, panel *backlight.Device) string {
	var b strings.Builder
	fmt.Fprintf(&b, "state: %s\n", orch.State())
	fmt.Fprintf(&b, "firmware: %s\n", version)
	fmt.Fprintf(&b, "ac: %s\n", onOff(ac.Online(), "online", "offline"))
	if battery.Present() {
		fmt.Fprintf(&b, "battery: %s %d%% (%s, %s, %s)\n",
			battery.Status(), battery.Capacity(), battery.CapacityLevel(),
			battery.Health(), battery.Manufacturer())
	} else {
		fmt.Fprintf(&b, "battery: absent\n")
	}
	fmt.Fprintf(&b, "fan: level %d, %s, %d rpm\n",
		sensors.FanLevel(), pwmModeName(sensors.PWMEnable()), sensors.FanRPM())
	fmt.Fprintf(&b, "cpu temp: %d mC\n", sensors.CPUTemp())
	fmt.Fprintf(&b, "battery temp: %d mC\n", sensors.BatteryTemp())
	fmt.Fprintf(&b, "brightness: %d/%d", panel.Level(), panel.MaxLevel())
	return b.String()
}

// traceText renders the trace ring, oldest record first.
func traceText(events *trace.Log) string {
	recs := events.Snapshot()
	if len(recs) == 0 {
		return "trace: empty"
	}
	lines := make([]string, len(recs))
	for i, rec := range recs {
		lines[i] = rec.String()
	}
	return strings.Join(lines, "\n")
}

func pwmModeName(mode int) string {
	switch mode {
	case hwmon.PWMFullSpeed:
		return "full-speed"
	case hwmon.PWMManual:
		return "manual"
	}
	return "auto"
}

func onOff(v bool, on, off string) string {
	if v {
		return on
	}
	return off
}
