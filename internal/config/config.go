package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/kriansa/mountscope/internal/mount"
	"github.com/kriansa/mountscope/internal/validation"
)

const (
	// DefaultPlanPath is the default location of the mount plan
	DefaultPlanPath = "/etc/mountscope/plan.toml"
	// DefaultMountCommand is the default external mount utility
	DefaultMountCommand = mount.DefaultCommand
)

// Entry is one mount in the plan. Entries with an FSType go through mount(2)
// directly; the others run the mount utility.
type Entry struct {
	// Source is the device, directory or pseudo-filesystem name to mount
	Source string `toml:"source"`
	// Target is the absolute mount point
	Target string `toml:"target"`
	// FSType selects the syscall path when set
	FSType string `toml:"fstype"`
	// Options are mount utility options ("bind", "sync"); command path only
	Options []string `toml:"options"`
	// Flags are MS_* flag names (see mount.FlagNames); syscall path only
	Flags []string `toml:"flags"`
	// Data is the filesystem option string passed to mount(2); syscall path only
	Data string `toml:"data"`
	// CreateTarget creates the target directory before mounting
	CreateTarget bool `toml:"create_target"`
}

// Direct reports whether the entry is mounted with mount(2) instead of the
// mount utility.
func (e *Entry) Direct() bool {
	return e.FSType != ""
}

// Config holds the mount plan and tool settings
type Config struct {
	// MountCommand is the external mount utility
	MountCommand string `toml:"mount_command"`
	// Inhibit takes a logind inhibitor lock while mounts are live
	Inhibit bool `toml:"inhibit"`
	// Mounts are mounted in order, so parents must come before children
	Mounts []Entry `toml:"mount"`
}

// Load loads configuration from a TOML file
// Returns an empty config if the file doesn't exist
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read plan file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse plan file: %w", err)
	}

	return cfg, nil
}

// Merge merges CLI flags into the config, with CLI flags taking precedence
// over plan file values. Empty or false CLI values are ignored.
func (c *Config) Merge(mountCommand string, inhibit bool) {
	if mountCommand != "" {
		c.MountCommand = mountCommand
	}
	if inhibit {
		c.Inhibit = true
	}
}

// ApplyDefaults applies default values for any unset fields
func (c *Config) ApplyDefaults() {
	if c.MountCommand == "" {
		c.MountCommand = DefaultMountCommand
	}
}

// Validate validates the configuration
// Note: paths are only checked for form; existence is checked when mounting
func (c *Config) Validate() error {
	if len(c.Mounts) == 0 {
		return fmt.Errorf("no mounts defined (add [[mount]] entries to the plan file)")
	}

	for i := range c.Mounts {
		if err := c.Mounts[i].validate(); err != nil {
			return fmt.Errorf("mount %d: %w", i, err)
		}
	}

	return nil
}

func (e *Entry) validate() error {
	if err := validation.ValidateSource(e.Source); err != nil {
		return err
	}
	if err := validation.ValidateTarget(e.Target); err != nil {
		return err
	}

	if !e.Direct() {
		if len(e.Flags) > 0 || e.Data != "" {
			return fmt.Errorf("flags and data require fstype")
		}
		_, err := e.MountOptions()
		return err
	}

	if len(e.Options) > 0 {
		return fmt.Errorf("options cannot be combined with fstype, use flags")
	}
	if err := validation.ValidateFSType(e.FSType); err != nil {
		return err
	}
	_, err := mount.ParseFlags(e.Flags)
	return err
}

// MountOptions parses Options
func (e *Entry) MountOptions() ([]mount.Option, error) {
	opts := make([]mount.Option, 0, len(e.Options))
	for _, name := range e.Options {
		opt, err := mount.ParseOption(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}
