// Package backup keeps timestamped snapshots of the dashboard state and
// restores them through the Store, whatever slot backend is in use.
//
// Each backup is a directory under <data dir>/backups named after its
// creation time, holding the encoded state and a small manifest.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"dayboard/internal/fsutil"
	"dayboard/internal/storage"
)

const (
	ManifestVersion = "2"
	ManifestFile    = "manifest.json"
	StateFile       = "state.json"
	BackupsDir      = "backups"

	// Backup names are this layout plus "_mmm" milliseconds.
	nameLayout = "2006-01-02_150405"
)

var (
	ErrNoBackups = errors.New("no backups available")
	ErrNotFound  = errors.New("backup not found")
)

// Counts is the size of a snapshot, shown when listing backups.
type Counts struct {
	Habits      int `json:"habits"`
	Completions int `json:"completions"`
	Logs        int `json:"logs"`
	Todos       int `json:"todos"`
}

// CountState counts the records in state. Only completion marks that are
// set count.
func CountState(state *storage.AppState) Counts {
	c := Counts{Habits: len(state.Habits), Logs: len(state.Logs)}
	for _, items := range state.Todos {
		c.Todos += len(items)
	}
	for _, done := range state.Completions {
		if done {
			c.Completions++
		}
	}
	return c
}

func (c Counts) String() string {
	return fmt.Sprintf("Habits: %d, Completions: %d, Logs: %d, Todos: %d",
		c.Habits, c.Completions, c.Logs, c.Todos)
}

// Manifest is written next to each snapshot.
type Manifest struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	AppVersion string    `json:"app_version"`
	Slot       string    `json:"slot"`
	Stats      Counts    `json:"stats"`
}

// BackupInfo describes one backup directory.
type BackupInfo struct {
	Name      string
	Path      string
	CreatedAt time.Time
	Stats     Counts
}

// Manager creates, lists and restores the backups of one store.
type Manager struct {
	store      *storage.Store
	dir        string
	appVersion string
	now        func() time.Time
}

func NewManager(store *storage.Store, dataDir, appVersion string) *Manager {
	return &Manager{
		store:      store,
		dir:        filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// Dir returns the directory holding the backups.
func (m *Manager) Dir() string { return m.dir }

// Create writes a snapshot of the current state and returns its name. A
// half-written backup is removed again.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	state := m.store.Snapshot()
	data, err := storage.Encode(state)
	if err != nil {
		return "", fmt.Errorf("encoding state: %w", err)
	}

	name, createdAt, err := m.reserve()
	if err != nil {
		return "", err
	}
	path := filepath.Join(m.dir, name)

	manifest, err := json.MarshalIndent(Manifest{
		Version:    ManifestVersion,
		CreatedAt:  createdAt,
		AppVersion: m.appVersion,
		Slot:       m.store.SlotName(),
		Stats:      CountState(state),
	}, "", "  ")
	if err == nil {
		err = fsutil.WriteFileAtomic(filepath.Join(path, StateFile), data, 0600)
	}
	if err == nil {
		err = fsutil.WriteFileAtomic(filepath.Join(path, ManifestFile), manifest, 0600)
	}
	if err != nil {
		_ = os.RemoveAll(path)
		return "", fmt.Errorf("writing backup %s: %w", name, err)
	}
	return name, nil
}

// reserve creates the directory for a new backup. Names have millisecond
// precision; on a clash the next millisecond is tried.
func (m *Manager) reserve() (string, time.Time, error) {
	at := m.now().Truncate(time.Millisecond)
	for range 1000 {
		name := formatBackupName(at)
		err := os.Mkdir(filepath.Join(m.dir, name), 0700)
		if err == nil {
			return name, at, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", time.Time{}, fmt.Errorf("creating backup: %w", err)
		}
		at = at.Add(time.Millisecond)
	}
	return "", time.Time{}, fmt.Errorf("creating backup: no free name near %s", at.Format(nameLayout))
}

// List returns the backups, newest first. Entries that are not backups are
// skipped.
func (m *Manager) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	backups := []BackupInfo{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if info, err := m.describe(entry.Name()); err == nil {
			backups = append(backups, info)
		}
	}
	slices.SortFunc(backups, func(a, b BackupInfo) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return backups, nil
}

// Latest returns the newest backup, or ErrNoBackups.
func (m *Manager) Latest() (*BackupInfo, error) {
	backups, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, ErrNoBackups
	}
	return &backups[0], nil
}

func (m *Manager) GetBackup(name string) (*BackupInfo, error) {
	if err := m.exists(name); err != nil {
		return nil, err
	}
	info, err := m.describe(name)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// describe reads a backup's manifest. Without one, the time comes from the
// name and the counts are left empty.
func (m *Manager) describe(name string) (BackupInfo, error) {
	info := BackupInfo{Name: name, Path: filepath.Join(m.dir, name)}

	var manifest Manifest
	data, err := os.ReadFile(filepath.Join(info.Path, ManifestFile))
	if err == nil {
		err = json.Unmarshal(data, &manifest)
	}
	if err == nil {
		info.CreatedAt, info.Stats = manifest.CreatedAt, manifest.Stats
		return info, nil
	}

	at, perr := parseBackupName(name)
	if perr != nil {
		return info, fmt.Errorf("not a backup: %s", name)
	}
	info.CreatedAt = at
	return info, nil
}

// Load decodes the snapshot stored in a backup without applying it.
func (m *Manager) Load(name string) (*storage.AppState, error) {
	if err := validateBackupName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(m.dir, name, StateFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	case err != nil:
		return nil, fmt.Errorf("reading backup %s: %w", name, err)
	}
	state, err := storage.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("backup %s is invalid: %w", name, err)
	}
	return state, nil
}

// Restore replaces the store's state with a backup and returns the name of
// the safety backup taken of the state it replaced. A snapshot that does not
// decode changes nothing and takes no safety backup.
func (m *Manager) Restore(name string) (string, error) {
	state, err := m.Load(name)
	if err != nil {
		return "", err
	}
	safety, err := m.Create()
	if err != nil {
		return "", fmt.Errorf("creating safety backup: %w", err)
	}
	if err := m.store.Replace(state); err != nil {
		return safety, fmt.Errorf("restoring %s (safety backup: %s): %w", name, safety, err)
	}
	return safety, nil
}

// RestoreLatest restores the newest backup and returns its name along with
// the safety backup's.
func (m *Manager) RestoreLatest() (restored, safety string, err error) {
	latest, err := m.Latest()
	if err != nil {
		return "", "", err
	}
	safety, err = m.Restore(latest.Name)
	return latest.Name, safety, err
}

func (m *Manager) Delete(name string) error {
	if err := m.exists(name); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(m.dir, name))
}

// Prune deletes all but the keep newest backups and returns how many went.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative, got %d", keep)
	}
	backups, err := m.List()
	if err != nil || len(backups) <= keep {
		return 0, err
	}
	for i, b := range backups[keep:] {
		if err := m.Delete(b.Name); err != nil {
			return i, err
		}
	}
	return len(backups) - keep, nil
}

func (m *Manager) exists(name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}
	if !fsutil.Exists(filepath.Join(m.dir, name)) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}

// validateBackupName rejects anything that is not a bare backup name, so a
// name from the command line cannot point outside the backup directory.
func validateBackupName(name string) error {
	if name == "" {
		return errors.New("backup name is required")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseBackupName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

func formatBackupName(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format(nameLayout), t.Nanosecond()/int(time.Millisecond))
}

// parseBackupName accepts names with and without the "_mmm" suffix.
func parseBackupName(name string) (time.Time, error) {
	base, suffix := name, ""
	if len(name) > len(nameLayout) {
		base, suffix = name[:len(nameLayout)], name[len(nameLayout):]
	}
	t, err := time.ParseInLocation(nameLayout, base, time.Local)
	if err != nil || suffix == "" {
		return t, err
	}
	ms, err := strconv.Atoi(strings.TrimPrefix(suffix, "_"))
	if err != nil || len(suffix) != 4 || suffix[0] != '_' || ms < 0 {
		return time.Time{}, fmt.Errorf("invalid milliseconds in %q", name)
	}
	return t.Add(time.Duration(ms) * time.Millisecond), nil
}
