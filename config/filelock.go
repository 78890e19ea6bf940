package config

import (
	"os"
	"path/filepath"

	"pirani-measure/log"
)

const lockFileName = "state.lock"

// FileLock provides file-based locking for cross-process synchronization.
// It uses a separate lock file rather than locking the data file directly.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a new FileLock for the given path.
// The lock file will be created in the same directory as the given path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		path: filepath.Join(filepath.Dir(path), lockFileName),
	}
}

// WithLock runs fn while holding an exclusive lock next to path.
func WithLock(path string, fn func() error) error {
	lock := NewFileLock(path)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer unlock(lock)
	return fn()
}

// WithReadLock runs fn while holding a shared lock next to path. A lock
// failure is logged and fn still runs, since stale data beats no data.
func WithReadLock(path string, fn func() error) error {
	lock := NewFileLock(path)
	if err := lock.RLock(); err != nil {
		log.WarningLog.Printf("failed to acquire read lock: %v", err)
		return fn()
	}
	defer unlock(lock)
	return fn()
}

func unlock(lock *FileLock) {
	if err := lock.Unlock(); err != nil {
		log.WarningLog.Printf("failed to release lock: %v", err)
	}
}

func dirOf(path string) string {
	return filepath.Dir(path)
}
