// Package fsutil holds the small file helpers shared by the durable slot,
// the config writer and the backup manager.
package fsutil

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// WriteFileAtomic replaces path with data via a temp file in the same
// directory followed by a rename, then applies perm.
//
// Readers never observe a partially written file. On Windows the rename goes
// through ReplaceFile, which atomic handles for us.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("atomic write %s: %w", path, err)
	}
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	syncDir(filepath.Dir(path))
	return nil
}

// BestEffortBackup copies the current contents of path to path+".bak".
// Failures are ignored; a missing backup must never block a save.
func BestEffortBackup(path string, perm os.FileMode) {
	data, err := os.ReadFile(path)
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return
	}
	_ = WriteFileAtomic(path+".bak", data, perm)
}

// Stamp formats t for quarantine names, down to the millisecond.
func Stamp(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format("20060102-150405"), t.Nanosecond()/int(time.Millisecond))
}

// Quarantine moves path aside to path+".corrupt.<stamp>" and returns the new
// location. An earlier quarantined copy is never overwritten: on a clash the
// next millisecond is tried.
func Quarantine(path string, now time.Time) (string, error) {
	at := now
	for range 1000 {
		dest := path + ".corrupt." + Stamp(at)
		if Exists(dest) {
			at = at.Add(time.Millisecond)
			continue
		}
		if err := os.Rename(path, dest); err != nil {
			return "", fmt.Errorf("quarantine %s: %w", path, err)
		}
		return dest, nil
	}
	return "", fmt.Errorf("quarantine %s: no free name near %s", path, Stamp(now))
}

// Exists reports whether path exists. Stat errors other than "not exist" count
// as existing so callers never overwrite something they could not inspect.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	defer f.Close()
	_ = f.Sync()
}
