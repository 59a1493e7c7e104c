package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LFroesch/sitescout/internal/logger"
)

const (
	MinMenuCloseDelayMs = 100
	MaxMenuCloseDelayMs = 500
)

// PanelConfig is the content of one quadrant. Content is one of
// "remote_filesystem", "local_filesystem", "remote_terminal",
// "local_terminal", "code_editor" or "none".
type PanelConfig struct {
	Content string `json:"content"`
	Visible bool   `json:"visible"`
}

// Panels maps the four quadrants to their content.
type Panels struct {
	Left   PanelConfig `json:"left"`
	Top    PanelConfig `json:"top"`
	Right  PanelConfig `json:"right"`
	Bottom PanelConfig `json:"bottom"`
}

// SortConfig is the initial sort of every filesystem panel.
type SortConfig struct {
	Column    string `json:"column"`
	Direction string `json:"direction"`
}

// Config holds all Sitescout configuration
type Config struct {
	ShowHidden         bool       `json:"show_hidden"`
	Editor             string     `json:"editor"`
	UseTrash           bool       `json:"use_trash"`
	Panels             Panels     `json:"panels"`
	DefaultSort        SortConfig `json:"default_sort"`
	LoadTimeoutSeconds int        `json:"load_timeout_seconds"`
	MenuCloseDelayMs   int        `json:"menu_close_delay_ms"`
	DoubleClickMs      int        `json:"double_click_ms"`
	LastConnectionID   int        `json:"last_connection_id"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		ShowHidden: false,
		UseTrash:   true,
		Panels: Panels{
			Left:   PanelConfig{Content: "local_filesystem", Visible: true},
			Right:  PanelConfig{Content: "remote_filesystem", Visible: true},
			Top:    PanelConfig{Content: "none", Visible: false},
			Bottom: PanelConfig{Content: "remote_terminal", Visible: true},
		},
		DefaultSort:        SortConfig{Column: "Filename", Direction: "ascending"},
		LoadTimeoutSeconds: 30,
		MenuCloseDelayMs:   300,
		DoubleClickMs:      400,
		LastConnectionID:   -1,
	}
}

// Load reads config from ~/.config/sitescout/sitescout-config.json
func Load() *Config {
	defaultConfig := Default()

	configPath, err := GetConfigPath()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		return defaultConfig
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if err := Save(defaultConfig); err != nil {
			logger.Warn("Failed to save default config: %v", err)
		}
		return defaultConfig
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		logger.Warn("Failed to parse config file %s: %v, using defaults", configPath, err)
		return defaultConfig
	}

	config.validate(defaultConfig)
	return config
}

func (c *Config) validate(defaults *Config) {
	if c.LoadTimeoutSeconds <= 0 {
		c.LoadTimeoutSeconds = defaults.LoadTimeoutSeconds
	} else if c.LoadTimeoutSeconds > 300 {
		logger.Warn("LoadTimeoutSeconds too high (%d), using maximum of 300", c.LoadTimeoutSeconds)
		c.LoadTimeoutSeconds = 300
	}

	if c.MenuCloseDelayMs <= 0 {
		c.MenuCloseDelayMs = defaults.MenuCloseDelayMs
	} else if c.MenuCloseDelayMs < MinMenuCloseDelayMs {
		logger.Warn("MenuCloseDelayMs too low (%d), using minimum of %d", c.MenuCloseDelayMs, MinMenuCloseDelayMs)
		c.MenuCloseDelayMs = MinMenuCloseDelayMs
	} else if c.MenuCloseDelayMs > MaxMenuCloseDelayMs {
		logger.Warn("MenuCloseDelayMs too high (%d), using maximum of %d", c.MenuCloseDelayMs, MaxMenuCloseDelayMs)
		c.MenuCloseDelayMs = MaxMenuCloseDelayMs
	}

	if c.DoubleClickMs <= 0 {
		c.DoubleClickMs = defaults.DoubleClickMs
	} else if c.DoubleClickMs > 2000 {
		logger.Warn("DoubleClickMs too high (%d), using maximum of 2000", c.DoubleClickMs)
		c.DoubleClickMs = 2000
	}

	if c.DefaultSort.Column == "" {
		c.DefaultSort.Column = defaults.DefaultSort.Column
	}
	if c.DefaultSort.Direction == "" {
		c.DefaultSort.Direction = defaults.DefaultSort.Direction
	}
}

// Save writes config to ~/.config/sitescout/sitescout-config.json
func Save(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		return fmt.Errorf("cannot get home directory: %w", err)
	}
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		logger.Error("Failed to create config directory %s: %v", configDir, err)
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal config: %v", err)
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		logger.Error("Failed to write config file %s: %v", configPath, err)
		return fmt.Errorf("cannot write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "sitescout", "sitescout-config.json"), nil
}
