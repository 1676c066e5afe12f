package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig points XDG_CONFIG_HOME at a temp dir holding content as the
// config file.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", root)
	dir := filepath.Join(root, "dayboard")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0600))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotEmpty(t, cfg.DataDir)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, DefaultSlot, cfg.SlotName())
	assert.Equal(t, DefaultHistoryDays, cfg.History.Days)
	assert.True(t, cfg.UX.ConfirmDeletions)
	assert.False(t, cfg.Log.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "dayboard", "config.yaml"), Path())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/me")
	assert.Equal(t, filepath.Join("/home/me", ".config", "dayboard", "config.yaml"), Path())
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	writeConfig(t, "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesOnlyWhatIsSet(t *testing.T) {
	writeConfig(t, `
data_dir: /custom/data
storage:
  backend: sqlite
history:
  days: 30
theme:
  primary: "#FF0000"
keys:
  prev_day: "h"
  next_day: "l"
log:
  enabled: true
  level: debug
`)
	cfg, err := Load()
	require.NoError(t, err)

	want := Default()
	want.DataDir = "/custom/data"
	want.Storage.Backend = "sqlite"
	want.History.Days = 30
	want.Theme.Primary = "#FF0000"
	want.Keys.PrevDay, want.Keys.NextDay = "h", "l"
	want.Log = LogConfig{Enabled: true, Level: "debug"}
	assert.Equal(t, want, cfg)
}

func TestLoad_Booleans(t *testing.T) {
	writeConfig(t, `
ux:
  confirm_deletions: false
notifications:
  enabled: true
  habit_reminder: "20:30"
`)
	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.UX.ConfirmDeletions, "explicit false wins")
	assert.True(t, cfg.UX.ShowOnboarding, "absent key keeps the default")
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, "20:30", cfg.Notifications.HabitReminder)
}

func TestLoad_BlankValuesMeanDefault(t *testing.T) {
	writeConfig(t, `
data_dir: ""
storage:
  backend: ""
  slot: ""
history:
  days: 0
ux:
  narrow_layout_threshold: 0
`)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown backend", "storage:\n  backend: redis\n", "storage.backend"},
		{"slot with separator", "storage:\n  slot: ../etc\n", "storage.slot"},
		{"negative history", "history:\n  days: -1\n", "history.days"},
		{"history too long", "history:\n  days: 1000\n", "history.days"},
		{"bad log level", "log:\n  level: loud\n", "log.level"},
		{"bad reminder", "notifications:\n  habit_reminder: \"8pm\"\n", "habit_reminder"},
		{"unknown key", "theme:\n  primay: \"#fff\"\n", "primay"},
		{"not yaml", "theme: [unclosed\n", "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.content)
			_, err := Load()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Storage.Backend = "redis"
	cfg.History.Days = 0
	err := cfg.Validate()
	assert.ErrorContains(t, err, "storage.backend")
	assert.ErrorContains(t, err, "history.days")
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  slot: work\n"), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "work", cfg.SlotName())

	_, err = LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
}

func TestGetDataDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		dataDir string
		want    string
	}{
		{"/custom/path", "/custom/path"},
		{"data", "data"},
		{"~", home},
		{"~/mydata", filepath.Join(home, "mydata")},
		{"", filepath.Join(home, ".dayboard")},
	}
	for _, tt := range tests {
		cfg := &Config{DataDir: tt.dataDir}
		assert.Equal(t, tt.want, cfg.GetDataDir(), "DataDir %q", tt.dataDir)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.DataDir = "/saved/path"
	cfg.Theme.Primary = "#ABCDEF"
	cfg.UX.ShowOnboarding = false
	require.NoError(t, cfg.Save())
	assert.FileExists(t, Path())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
