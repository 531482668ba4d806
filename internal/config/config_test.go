package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if got := cfg.RegistryConfig().MaxTotalWindows; got != 8 {
		t.Errorf("default MaxTotalWindows = %d, want 8", got)
	}
	if got := cfg.LayoutConfig().SaveIntervalSeconds; got != 30 {
		t.Errorf("default SaveIntervalSeconds = %d, want 30", got)
	}
	if !cfg.MainWindowConfig().EnablePersistence {
		t.Error("main window persistence disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
windows:
  max_total_windows: 4
  auto_focus_new_windows: false
  cascade_spacing_x: 50
persistence:
  save_interval_seconds: 5
  restore_on_startup: false
drag_drop:
  compatibility_overrides:
    - source: codex
      target: hierarchy
      allowed: true
`)
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	reg := cfg.RegistryConfig()
	if reg.MaxTotalWindows != 4 {
		t.Errorf("MaxTotalWindows = %d, want 4", reg.MaxTotalWindows)
	}
	if reg.AutoFocus {
		t.Error("AutoFocus not overridden to false")
	}
	if reg.SpacingX != 50 || reg.SpacingY != 30 {
		t.Errorf("spacing = (%d, %d), want (50, 30)", reg.SpacingX, reg.SpacingY)
	}

	lay := cfg.LayoutConfig()
	if lay.SaveIntervalSeconds != 5 {
		t.Errorf("SaveIntervalSeconds = %d, want 5", lay.SaveIntervalSeconds)
	}
	if lay.RestoreOnStartup {
		t.Error("RestoreOnStartup not overridden to false")
	}
	if !lay.AutoSaveOnChange {
		t.Error("unset AutoSaveOnChange lost its default")
	}

	m := cfg.Matrix()
	if !m.Allowed("codex", "hierarchy") {
		t.Error("matrix override not applied")
	}
	if m.Allowed("plot", "hierarchy") {
		t.Error("non-overridden matrix entry changed")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "windows:\n  max_windows: 4\n")
	if _, err := LoadFromPath(path); err == nil {
		t.Error("unknown key accepted")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"too many windows", "windows:\n  max_total_windows: 99\n"},
		{"negative interval", "persistence:\n  save_interval_seconds: -1\n"},
		{"unknown override tool", "drag_drop:\n  compatibility_overrides:\n    - source: spreadsheet\n      target: notes\n      allowed: true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFromPath(writeConfig(t, tt.content)); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.RegistryConfig().MaxTotalWindows != 8 {
		t.Error("empty file did not yield defaults")
	}
}
