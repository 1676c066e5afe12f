package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	if err := WriteFileAtomic(path, []byte("first"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic() overwrite error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("perm = %v, want 0600", info.Mode().Perm())
		}
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the target file", len(entries))
	}
}

func TestBestEffortBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	// Missing source is silently ignored.
	BestEffortBackup(path, 0600)
	if Exists(path + ".bak") {
		t.Fatal("backup created for missing source")
	}

	if err := os.WriteFile(path, []byte(`{"habits":[]}`), 0600); err != nil {
		t.Fatal(err)
	}
	BestEffortBackup(path, 0600)

	data, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("ReadFile(.bak) error = %v", err)
	}
	if string(data) != `{"habits":[]}` {
		t.Errorf("backup content = %q", data)
	}
}

func TestQuarantine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	at := time.Date(2025, 3, 4, 5, 6, 7, 8*int(time.Millisecond), time.UTC)
	dest, err := Quarantine(path, at)
	if err != nil {
		t.Fatalf("Quarantine() error = %v", err)
	}
	if !strings.HasSuffix(dest, ".corrupt.20250304-050607_008") {
		t.Errorf("dest = %q", dest)
	}
	if Exists(path) {
		t.Error("original still present after quarantine")
	}
	if !Exists(dest) {
		t.Error("quarantined file missing")
	}
}

func TestQuarantine_KeepsEarlierCopies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

	var dests []string
	for _, content := range []string{"{first", "{second"} {
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		dest, err := Quarantine(path, at)
		if err != nil {
			t.Fatalf("Quarantine() error = %v", err)
		}
		dests = append(dests, dest)
	}

	if dests[0] == dests[1] {
		t.Fatalf("both quarantines went to %q", dests[0])
	}
	for i, want := range []string{"{first", "{second"} {
		got, err := os.ReadFile(dests[i])
		if err != nil || string(got) != want {
			t.Errorf("%s = %q, %v; want %q", dests[i], got, err, want)
		}
	}
}
