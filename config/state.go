package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pirani-measure/calibration"
	"pirani-measure/log"
)

const (
	StateFileName = "state.json"
	// MaxRecentCodes bounds the lookup history.
	MaxRecentCodes = 10
)

// State is the UI selection remembered between runs. Measurements are
// never stored.
type State struct {
	// RecentCodes holds product codes looked up recently, newest first.
	RecentCodes []string `json:"recent_codes"`
	// LastSize is the size selected when the program last exited.
	LastSize string `json:"last_size,omitempty"`

	path string
}

// DefaultState returns the default state
func DefaultState() *State {
	return &State{RecentCodes: []string{}}
}

// LoadState loads the state from disk. If it cannot be done, we return the default state.
// This function acquires a shared lock to allow concurrent reads.
func LoadState() *State {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultState()
	}
	return loadStateFrom(filepath.Join(configDir, StateFileName))
}

func loadStateFrom(statePath string) *State {
	state := DefaultState()
	state.path = statePath

	var data []byte
	err := WithReadLock(statePath, func() error {
		var readErr error
		data, readErr = os.ReadFile(statePath)
		return readErr
	})
	if err != nil {
		if !os.IsNotExist(err) {
			log.WarningLog.Printf("failed to get state file: %v", err)
		}
		return state
	}

	if err := json.Unmarshal(data, state); err != nil {
		log.ErrorLog.Printf("failed to parse state file: %v", err)
		state = DefaultState()
		state.path = statePath
	}
	return state
}

// Save writes the state to the file it was loaded from under an exclusive lock.
func (s *State) Save() error {
	if s.path == "" {
		configDir, err := GetConfigDir()
		if err != nil {
			return fmt.Errorf("failed to get config directory: %w", err)
		}
		s.path = filepath.Join(configDir, StateFileName)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	return WithLock(s.path, func() error {
		return os.WriteFile(s.path, data, 0644)
	})
}

// AddRecentCode moves code to the front of the history and saves.
func (s *State) AddRecentCode(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	recent := []string{code}
	for _, c := range s.RecentCodes {
		if c != code && len(recent) < MaxRecentCodes {
			recent = append(recent, c)
		}
	}
	s.RecentCodes = recent
	return s.Save()
}

// SetLastSize records the selected size and saves.
func (s *State) SetLastSize(size calibration.SizeKey) error {
	if s.LastSize == string(size) {
		return nil
	}
	s.LastSize = string(size)
	return s.Save()
}

// LastSizeKey returns the remembered size if it is still supported.
func (s *State) LastSizeKey() (calibration.SizeKey, bool) {
	key := calibration.SizeKey(s.LastSize)
	return key, key.Valid()
}
