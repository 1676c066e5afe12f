// Package config reads dayboard's YAML settings file from the XDG config
// directory, usually ~/.config/dayboard/config.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dayboard/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Config is the contents of config.yaml. Keys missing from the file keep
// their Default values.
type Config struct {
	DataDir       string             `yaml:"data_dir,omitempty"` // default ~/.dayboard
	Storage       StorageConfig      `yaml:"storage,omitempty"`
	History       HistoryConfig      `yaml:"history,omitempty"`
	Theme         ThemeConfig        `yaml:"theme,omitempty"`
	Keys          KeysConfig         `yaml:"keys,omitempty"`
	UX            UXConfig           `yaml:"ux,omitempty"`
	Notifications NotificationConfig `yaml:"notifications,omitempty"`
	Log           LogConfig          `yaml:"log,omitempty"`
}

// StorageConfig picks the durable slot backend.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty"` // file (default) or sqlite
	Slot    string `yaml:"slot,omitempty"`    // slot name, default "state"
}

// HistoryConfig sizes the rolling completion history.
type HistoryConfig struct {
	Days int `yaml:"days,omitempty"` // default: 7
}

// NotificationConfig drives the daily habit reminder.
type NotificationConfig struct {
	Enabled       bool   `yaml:"enabled"`
	HabitReminder string `yaml:"habit_reminder,omitempty"` // HH:MM, local time
	Sound         bool   `yaml:"sound"`
}

// LogConfig controls the structured log written to <data_dir>/dayboard.log.
type LogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level,omitempty"` // debug, info, warn, error
}

// ThemeConfig holds hex colors such as "#FF5733". Empty values use the
// built-in palette.
type ThemeConfig struct {
	Primary    string `yaml:"primary,omitempty"` // focused pane, titles
	Accent     string `yaml:"accent,omitempty"`
	Muted      string `yaml:"muted,omitempty"`
	Background string `yaml:"background,omitempty"`
	Text       string `yaml:"text,omitempty"`
}

// KeysConfig overrides key bindings. Each value is a comma-separated list
// such as "j,down"; "space" names the space bar. Blank keeps the default.
type KeysConfig struct {
	Quit     string `yaml:"quit,omitempty"`
	Help     string `yaml:"help,omitempty"`
	NextPane string `yaml:"next_pane,omitempty"`
	Pane1    string `yaml:"pane_1,omitempty"`
	Pane2    string `yaml:"pane_2,omitempty"`
	Pane3    string `yaml:"pane_3,omitempty"`

	PrevDay string `yaml:"prev_day,omitempty"`
	NextDay string `yaml:"next_day,omitempty"`
	Today   string `yaml:"today,omitempty"`

	Up     string `yaml:"up,omitempty"`
	Down   string `yaml:"down,omitempty"`
	Top    string `yaml:"top,omitempty"`
	Bottom string `yaml:"bottom,omitempty"`

	// Shared by the todo and habit panes.
	Add    string `yaml:"add,omitempty"`
	Toggle string `yaml:"toggle,omitempty"`
	Delete string `yaml:"delete,omitempty"`

	CycleStatus   string `yaml:"cycle_status,omitempty"`
	CyclePriority string `yaml:"cycle_priority,omitempty"`
	EditLog       string `yaml:"edit_log,omitempty"`

	// Text input.
	Confirm string `yaml:"confirm,omitempty"`
	Cancel  string `yaml:"cancel,omitempty"`

	Undo string `yaml:"undo,omitempty"`
	Redo string `yaml:"redo,omitempty"`
}

type UXConfig struct {
	ConfirmDeletions bool `yaml:"confirm_deletions"`
	ShowOnboarding   bool `yaml:"show_onboarding"` // welcome screen while the store is empty

	// Below this terminal width the panes are stacked.
	NarrowLayoutThreshold int `yaml:"narrow_layout_threshold,omitempty"`
}

const (
	DefaultSlot        = "state"
	DefaultHistoryDays = 7
	MaxHistoryDays     = 365
)

func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{Backend: "file", Slot: DefaultSlot},
		History: HistoryConfig{Days: DefaultHistoryDays},
		Theme: ThemeConfig{
			Primary: "#7C3AED",
			Accent:  "#10B981",
			Muted:   "#6B7280",
		},
		UX: UXConfig{
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 80,
		},
		Log: LogConfig{Level: "info"},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dayboard"
	}
	return filepath.Join(home, ".dayboard")
}

// Path returns $XDG_CONFIG_HOME/dayboard/config.yaml, falling back to
// ~/.config. It is "" when neither can be determined.
func Path() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "dayboard", "config.yaml")
}

// Load reads the config file at Path. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path over the defaults. The file is
// decoded onto Default(), so an explicit "false" is kept while absent keys
// are left alone. Unknown keys are rejected to catch typos.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.fillBlanks()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// fillBlanks treats keys written with an empty or zero value as unset.
func (c *Config) fillBlanks() {
	def := Default()
	orDefault := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	orDefault(&c.DataDir, def.DataDir)
	orDefault(&c.Storage.Backend, def.Storage.Backend)
	orDefault(&c.Storage.Slot, def.Storage.Slot)
	orDefault(&c.Log.Level, def.Log.Level)
	if c.History.Days == 0 {
		c.History.Days = def.History.Days
	}
	if c.UX.NarrowLayoutThreshold <= 0 {
		c.UX.NarrowLayoutThreshold = def.UX.NarrowLayoutThreshold
	}
}

// Validate checks values that the rest of the program relies on.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case "", "file", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("storage.backend %q: must be file or sqlite", c.Storage.Backend))
	}
	if strings.ContainsAny(c.Storage.Slot, `/\`) {
		errs = append(errs, fmt.Errorf("storage.slot %q: must not contain path separators", c.Storage.Slot))
	}
	if c.History.Days < 1 || c.History.Days > MaxHistoryDays {
		errs = append(errs, fmt.Errorf("history.days %d: must be between 1 and %d", c.History.Days, MaxHistoryDays))
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q: must be debug, info, warn or error", c.Log.Level))
	}
	if r := c.Notifications.HabitReminder; r != "" {
		if _, err := time.Parse("15:04", r); err != nil {
			errs = append(errs, fmt.Errorf("notifications.habit_reminder %q: must be HH:MM", r))
		}
	}
	return errors.Join(errs...)
}

// Save writes c to Path, creating the directory as needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return errors.New("no config directory: set XDG_CONFIG_HOME or HOME")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns DataDir with a leading ~ expanded.
func (c *Config) GetDataDir() string {
	dir := c.DataDir
	switch {
	case dir == "":
		return defaultDataDir()
	case dir != "~" && !strings.HasPrefix(dir, "~/") && !strings.HasPrefix(dir, `~\`):
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return filepath.Join(home, strings.TrimLeft(dir[1:], `/\`))
}

// SlotName returns the configured slot, falling back to the default.
func (c *Config) SlotName() string {
	if c.Storage.Slot == "" {
		return DefaultSlot
	}
	return c.Storage.Slot
}
