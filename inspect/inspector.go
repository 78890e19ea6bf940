// Package inspect provides UI introspection for debugging and automated testing.
// With PM_INSPECT=1 the app writes a JSON snapshot of its layout and line
// positions after every render, so scripts can check the UI without a screen.
package inspect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Introspectable is implemented by UI components that can report their state.
type Introspectable interface {
	InspectNode() *Node
}

const (
	// EnvVar enables inspection when set to "1".
	EnvVar = "PM_INSPECT"
	// FileEnvVar overrides where the snapshot is written.
	FileEnvVar = "PM_INSPECT_FILE"
	// FileName is the snapshot name in the temp directory.
	FileName = "piranimeasure-inspect.json"
)

var (
	enabled     bool
	enabledOnce sync.Once
	inspectFile string
)

// IsEnabled returns true if inspection mode is active.
func IsEnabled() bool {
	enabledOnce.Do(func() {
		enabled = os.Getenv(EnvVar) == "1"
		inspectFile = os.Getenv(FileEnvVar)
		if inspectFile == "" {
			inspectFile = filepath.Join(os.TempDir(), FileName)
		}
	})
	return enabled
}

// GetInspectFile returns the path snapshots are written to, whether or not
// inspection is enabled.
func GetInspectFile() string {
	IsEnabled()
	return inspectFile
}

// WriteSnapshot writes snapshot to the inspect file when inspection is enabled.
func WriteSnapshot(snapshot *Snapshot) error {
	if !IsEnabled() {
		return nil
	}
	return WriteSnapshotToPath(snapshot, inspectFile)
}

// WriteSnapshotToPath writes snapshot to path. The file is replaced by a
// rename so a reader polling it never sees a partial frame.
func WriteSnapshotToPath(snapshot *Snapshot, path string) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads a snapshot written by WriteSnapshotToPath.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return &s, nil
}
