package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pirani-measure/calibration"
	"pirani-measure/log"
)

const (
	ConfigFileName = "config.json"

	defaultLookupTimeoutMs = 10000
	// defaultCellPixelHeight makes a 40 row preview match the 720px reference image.
	defaultCellPixelHeight = 18
	defaultNotificationMs  = 3000
)

// GetConfigDir returns the path to the application's configuration directory
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pirani-measure"), nil
}

// Config represents the application configuration
type Config struct {
	// DefaultSize is the size selected at startup when no size hint is available.
	DefaultSize string `json:"default_size"`
	// LookupBaseURL is the order service used to resolve product codes.
	LookupBaseURL string `json:"lookup_base_url"`
	// LookupTimeoutMs bounds a single lookup request.
	LookupTimeoutMs int `json:"lookup_timeout_ms"`
	// CellPixelHeight is how many rendered pixels one terminal row stands for.
	CellPixelHeight int `json:"cell_pixel_height"`
	// DownloadDir is where SVG artwork is saved. Empty means the working directory.
	DownloadDir string `json:"download_dir"`
	// NotificationMs is how long transient notifications stay on screen.
	NotificationMs int `json:"notification_ms"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DefaultSize:     string(calibration.Size10oz),
		LookupBaseURL:   "https://pir-prod.pirani.life",
		LookupTimeoutMs: defaultLookupTimeoutMs,
		CellPixelHeight: defaultCellPixelHeight,
		DownloadDir:     "",
		NotificationMs:  defaultNotificationMs,
	}
}

// Size returns the configured default size, falling back to the first
// supported size when the stored value is not recognized.
func (c *Config) Size() calibration.SizeKey {
	key, err := calibration.ParseSizeKey(c.DefaultSize)
	if err != nil {
		log.WarningLog.Printf("ignoring default_size %q: %v", c.DefaultSize, err)
		return calibration.AllSizes()[0]
	}
	return key
}

// LookupTimeout returns the lookup request timeout.
func (c *Config) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutMs) * time.Millisecond
}

// NotificationDuration returns how long notifications are shown.
func (c *Config) NotificationDuration() time.Duration {
	return time.Duration(c.NotificationMs) * time.Millisecond
}

// normalize replaces missing or invalid numeric settings with defaults.
func (c *Config) normalize() {
	d := DefaultConfig()
	if c.LookupTimeoutMs <= 0 {
		c.LookupTimeoutMs = d.LookupTimeoutMs
	}
	if c.CellPixelHeight <= 0 {
		c.CellPixelHeight = d.CellPixelHeight
	}
	if c.NotificationMs <= 0 {
		c.NotificationMs = d.NotificationMs
	}
	if c.LookupBaseURL == "" {
		c.LookupBaseURL = d.LookupBaseURL
	}
	if c.DefaultSize == "" {
		c.DefaultSize = d.DefaultSize
	}
}

// LoadConfig reads the config file. Any failure falls back to defaults.
func LoadConfig() *Config {
	configDir, err := GetConfigDir()
	if err != nil {
		log.ErrorLog.Printf("failed to get config directory: %v", err)
		return DefaultConfig()
	}
	return loadConfigFrom(filepath.Join(configDir, ConfigFileName))
}

func loadConfigFrom(configPath string) *Config {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Create and save default config if file doesn't exist
			defaultCfg := DefaultConfig()
			if saveErr := saveConfigTo(configPath, defaultCfg); saveErr != nil {
				log.WarningLog.Printf("failed to save default config: %v", saveErr)
			}
			return defaultCfg
		}

		log.WarningLog.Printf("failed to get config file: %v", err)
		return DefaultConfig()
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		preview := string(data)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		log.ErrorLog.Printf("failed to parse config file at %s: %v\nConfig content preview: %s", configPath, err, preview)

		// Backup the corrupted config before falling back to defaults
		backupPath := configPath + ".corrupt." + time.Now().Format("20060102-150405")
		if backupErr := os.WriteFile(backupPath, data, 0644); backupErr == nil {
			log.InfoLog.Printf("Backed up corrupted config to: %s", backupPath)
		}

		return DefaultConfig()
	}

	config.normalize()
	return &config
}

func saveConfigTo(configPath string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(configPath, data, 0644)
}

// SaveConfig writes the configuration to disk
func SaveConfig(config *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}
	return saveConfigTo(filepath.Join(configDir, ConfigFileName), config)
}
