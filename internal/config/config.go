// Package config provides configuration loading for the panel, the window and
// the headless runner.
package config

import (
	_ "embed"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"mad-abm/internal/control"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every setting of the application.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Scenario ScenarioConfig `yaml:"scenario"`
	Console  ConsoleConfig  `yaml:"console"`
	Output   OutputConfig   `yaml:"output"`
	Panel    Panel          `yaml:"panel"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Scale  int    `yaml:"scale"` // pixels per landscape cell
}

// ScenarioConfig selects the simulation.
type ScenarioConfig struct {
	Sim  string `yaml:"sim"`
	Seed int64  `yaml:"seed"`
}

// ConsoleConfig holds message surface settings.
type ConsoleConfig struct {
	MaxLines int  `yaml:"max_lines"`
	Open     bool `yaml:"open"`
}

// OutputConfig holds telemetry export settings.
type OutputConfig struct {
	Dir      string `yaml:"dir"`       // empty disables CSV export
	Chart    bool   `yaml:"chart"`     // write a PNG chart on close
	MaxSteps int    `yaml:"max_steps"` // headless runs stop here; 0 runs until interrupted
}

// Panel describes the control card: its position and its widgets in display
// order (parameters, then ranges, then switches).
type Panel struct {
	X          int                     `yaml:"x"`
	Y          int                     `yaml:"y"`
	Width      int                     `yaml:"width"`
	Parameters []control.ParameterSpec `yaml:"parameters"`
	Ranges     []control.RangeSpec     `yaml:"ranges"`
	Switches   []control.SwitchSpec    `yaml:"switches"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the embedded defaults and, if path is set, overlays the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten; lists are replaced.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Window.Scale < 1 {
		c.Window.Scale = 1
	}
	if c.Console.MaxLines < 1 {
		c.Console.MaxLines = 64
	}
	if c.Output.MaxSteps < 0 {
		c.Output.MaxSteps = 0
	}
	if c.Panel.Width <= 0 {
		c.Panel.Width = 240
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Parse builds the configuration for a command: the embedded defaults, the
// file named by -config when present, then every other flag in args.
func Parse(name string, args []string, output io.Writer) (*Config, error) {
	var path string
	flags := func(cfg *Config, set func(string) error) *flag.FlagSet {
		fs := flag.NewFlagSet(name, flag.ContinueOnError)
		fs.SetOutput(output)
		fs.StringVar(&path, "config", path, "YAML file overlaid on the defaults")
		cfg.bind(fs, set)
		return fs
	}

	// The first pass only finds -config; -set keys may live in that file.
	if err := flags(Default(), func(string) error { return nil }).Parse(args); err != nil {
		return nil, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := flags(cfg, cfg.setInitial).Parse(args); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// Bind attaches the command-line overrides to fs. Flags win over the file.
func (c *Config) Bind(fs *flag.FlagSet) {
	c.bind(fs, c.setInitial)
}

func (c *Config) bind(fs *flag.FlagSet, set func(string) error) {
	fs.StringVar(&c.Scenario.Sim, "sim", c.Scenario.Sim, "simulation to run")
	fs.Int64Var(&c.Scenario.Seed, "seed", c.Scenario.Seed, "seed for simulation reset")
	fs.IntVar(&c.Window.Scale, "scale", c.Window.Scale, "pixel scale multiplier")
	fs.StringVar(&c.Output.Dir, "out", c.Output.Dir, "directory for CSV and chart output")
	fs.IntVar(&c.Output.MaxSteps, "steps", c.Output.MaxSteps, "stop after this many steps (0 = unlimited)")
	fs.Func("set", "override a parameter's initial value, key=value (repeatable)", set)
}

// setInitial applies one key=value override to a parameter or switch.
func (c *Config) setInitial(kv string) error {
	key, raw, ok := strings.Cut(kv, "=")
	if !ok {
		return fmt.Errorf("want key=value, got %q", kv)
	}
	key = strings.TrimSpace(key)
	raw = strings.TrimSpace(raw)
	for i := range c.Panel.Parameters {
		if c.Panel.Parameters[i].Key == key {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			c.Panel.Parameters[i].Initial = v
			return nil
		}
	}
	for i := range c.Panel.Switches {
		if c.Panel.Switches[i].Key == key {
			v, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			c.Panel.Switches[i].Checked = v
			return nil
		}
	}
	return fmt.Errorf("unknown parameter %q", key)
}
