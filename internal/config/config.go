// Package config loads the yeeloongd configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where yeeloongd looks without -config.
const DefaultPath = "/etc/yeeloongd.yaml"

// Duration accepts time.ParseDuration strings like "10s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Config is the yeeloongd configuration file.
type Config struct {
	LogLevel string `yaml:"logLevel,omitempty"`
	Socket   string `yaml:"socket,omitempty"`

	// Machine overrides the identity the platform gate expects, for
	// bench setups that are not a Yeeloong.
	Machine string `yaml:"machine,omitempty"`

	// ECVersion skips reading the firmware version string out of the
	// EC and derives the feature gates from this value instead.
	ECVersion string `yaml:"ecVersion,omitempty"`

	GPIOChip    string   `yaml:"gpioChip,omitempty"`
	GPIOLine    int      `yaml:"gpioLine,omitempty"`
	SettleDelay Duration `yaml:"settleDelay,omitempty"`
	InputName   string   `yaml:"inputName,omitempty"`
}

func (c *Config) normalize() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Socket == "" {
		c.Socket = "/run/yeeloongd.sock"
	}
	if c.GPIOChip == "" {
		c.GPIOChip = "gpiochip0"
	}
	if c.GPIOLine == 0 {
		c.GPIOLine = 27
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = Duration(10 * time.Second)
	}
	if c.InputName == "" {
		c.InputName = "Yeeloong HotKeys"
	}
}

// Default is the configuration with no file present.
func Default() Config {
	var c Config
	c.normalize()
	return c
}

// Load reads the configuration at path. A missing file yields the
// defaults; fields absent from the file keep theirs.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	c.normalize()
	return c, nil
}

// Level maps the configured log level onto slog.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
