package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LFroesch/sitescout/internal/logger"
)

func setHome(t *testing.T) string {
	t.Helper()
	logger.Disable()
	t.Cleanup(logger.Enable)

	homeDir := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	return homeDir
}

func TestLoadDefaultConfig(t *testing.T) {
	homeDir := setHome(t)

	cfg := Load()
	if cfg == nil {
		t.Fatal("Load() returned nil")
	}

	if cfg.MenuCloseDelayMs != 300 {
		t.Errorf("MenuCloseDelayMs = %d, want 300", cfg.MenuCloseDelayMs)
	}
	if cfg.LastConnectionID != -1 {
		t.Errorf("LastConnectionID = %d, want -1", cfg.LastConnectionID)
	}
	if cfg.Panels.Left.Content != "local_filesystem" || !cfg.Panels.Left.Visible {
		t.Errorf("unexpected left panel %+v", cfg.Panels.Left)
	}

	path := filepath.Join(homeDir, ".config", "sitescout", "sitescout-config.json")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config was not written: %v", err)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	setHome(t)

	cfg := Default()
	cfg.ShowHidden = true
	cfg.Editor = "vim"
	cfg.Panels.Top = PanelConfig{Content: "code_editor", Visible: true}
	cfg.DefaultSort = SortConfig{Column: "Size", Direction: "descending"}
	cfg.LastConnectionID = 4

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loadedCfg := Load()

	if loadedCfg.ShowHidden != cfg.ShowHidden {
		t.Errorf("ShowHidden mismatch: got %v, want %v", loadedCfg.ShowHidden, cfg.ShowHidden)
	}
	if loadedCfg.Editor != cfg.Editor {
		t.Errorf("Editor mismatch: got %s, want %s", loadedCfg.Editor, cfg.Editor)
	}
	if loadedCfg.Panels.Top != cfg.Panels.Top {
		t.Errorf("Top panel mismatch: got %+v, want %+v", loadedCfg.Panels.Top, cfg.Panels.Top)
	}
	if loadedCfg.DefaultSort != cfg.DefaultSort {
		t.Errorf("DefaultSort mismatch: got %+v", loadedCfg.DefaultSort)
	}
	if loadedCfg.LastConnectionID != 4 {
		t.Errorf("LastConnectionID = %d, want 4", loadedCfg.LastConnectionID)
	}
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantDelay int
		wantLoad  int
	}{
		{"too low", `{"menu_close_delay_ms": 10, "load_timeout_seconds": 5}`, 100, 5},
		{"too high", `{"menu_close_delay_ms": 9000, "load_timeout_seconds": 1000}`, 500, 300},
		{"unset", `{}`, 300, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setHome(t)
			path, err := GetConfigPath()
			if err != nil {
				t.Fatal(err)
			}
			os.MkdirAll(filepath.Dir(path), 0755)
			if err := os.WriteFile(path, []byte(tt.json), 0644); err != nil {
				t.Fatal(err)
			}

			cfg := Load()
			if cfg.MenuCloseDelayMs != tt.wantDelay {
				t.Errorf("MenuCloseDelayMs = %d, want %d", cfg.MenuCloseDelayMs, tt.wantDelay)
			}
			if cfg.LoadTimeoutSeconds != tt.wantLoad {
				t.Errorf("LoadTimeoutSeconds = %d, want %d", cfg.LoadTimeoutSeconds, tt.wantLoad)
			}
		})
	}
}

func TestLoadInvalidJSONFallsBack(t *testing.T) {
	setHome(t)
	path, _ := GetConfigPath()
	os.MkdirAll(filepath.Dir(path), 0755)
	os.WriteFile(path, []byte("{not json"), 0644)

	cfg := Load()
	if cfg.MenuCloseDelayMs != Default().MenuCloseDelayMs {
		t.Error("invalid config should fall back to defaults")
	}
}
