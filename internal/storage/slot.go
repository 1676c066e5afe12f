package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"dayboard/internal/fsutil"
)

// ErrSlotEmpty is returned by Slot.Read when nothing has been written yet.
var ErrSlotEmpty = errors.New("slot is empty")

// Slot is one named durable key-value entry holding the serialized state.
type Slot interface {
	Name() string
	Read() ([]byte, error)
	Write(data []byte) error
}

// BackupSlot is implemented by slots that keep the previously written value.
type BackupSlot interface {
	ReadBackup() ([]byte, error)
}

// QuarantineSlot is implemented by slots that can move unreadable content
// aside instead of overwriting it. It returns where the content went.
type QuarantineSlot interface {
	Quarantine() (string, error)
}

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// FileSlot stores the state as <dir>/<name>.json.
type FileSlot struct {
	name string
	path string
	now  func() time.Time
}

// NewFileSlot creates the data directory if needed and returns a slot inside it.
func NewFileSlot(dataDir, name string) (*FileSlot, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileSlot{
		name: name,
		path: filepath.Join(dataDir, name+".json"),
		now:  time.Now,
	}, nil
}

func (s *FileSlot) Name() string { return s.name }

// Path returns the file backing the slot.
func (s *FileSlot) Path() string { return s.path }

func (s *FileSlot) Read() ([]byte, error) {
	return readFile(s.path)
}

// Write keeps a best-effort .bak of the previous content, then replaces the
// file atomically.
func (s *FileSlot) Write(data []byte) error {
	fsutil.BestEffortBackup(s.path, dataFilePerm)
	if err := fsutil.WriteFileAtomic(s.path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", s.name, err)
	}
	return nil
}

func (s *FileSlot) ReadBackup() ([]byte, error) {
	return readFile(s.path + ".bak")
}

func (s *FileSlot) Quarantine() (string, error) {
	return fsutil.Quarantine(s.path, s.now())
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

// MemorySlot keeps the state in memory. Used by tests and dry runs.
type MemorySlot struct {
	mu     sync.Mutex
	name   string
	data   []byte
	backup []byte
	writes int
}

// NewMemorySlot returns an empty in-memory slot.
func NewMemorySlot(name string) *MemorySlot {
	return &MemorySlot{name: name}
}

func (s *MemorySlot) Name() string { return s.name }

func (s *MemorySlot) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemorySlot) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backup = s.data
	s.data = append([]byte{}, data...)
	s.writes++
	return nil
}

func (s *MemorySlot) ReadBackup() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backup == nil {
		return nil, ErrSlotEmpty
	}
	return append([]byte(nil), s.backup...), nil
}

// Writes returns how many times Write was called.
func (s *MemorySlot) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Storage backends accepted by NewSlot.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// NewSlot opens the named slot for the configured backend. An empty backend
// means file.
func NewSlot(backend, dataDir, name string) (Slot, error) {
	switch backend {
	case "", BackendFile:
		return NewFileSlot(dataDir, name)
	case BackendSQLite:
		return OpenSQLiteSlot(filepath.Join(dataDir, "dayboard.db"), name)
	default:
		return nil, fmt.Errorf("unknown storage backend %q: must be file or sqlite", backend)
	}
}
