// Package config loads the suite's YAML configuration and maps it onto
// the option structs the window and persistence subsystems consume.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/inkhaven/scriptorium/internal/dragdrop"
	"github.com/inkhaven/scriptorium/internal/layout"
	"github.com/inkhaven/scriptorium/internal/registry"
	"github.com/inkhaven/scriptorium/internal/tools"
)

// Windows configures the window registry.
type Windows struct {
	MaxTotalWindows     int   `yaml:"max_total_windows,omitempty"`
	AutoFocusNewWindows *bool `yaml:"auto_focus_new_windows,omitempty"`
	CascadeSpacingX     int   `yaml:"cascade_spacing_x,omitempty"`
	CascadeSpacingY     int   `yaml:"cascade_spacing_y,omitempty"`
}

// Persistence configures layout persistence.
type Persistence struct {
	AutoSaveOnChange    *bool `yaml:"auto_save_on_change,omitempty"`
	SaveIntervalSeconds int   `yaml:"save_interval_seconds,omitempty"`
	MaxSavedStates      int   `yaml:"max_saved_states,omitempty"`
	BackupBeforeSave    *bool `yaml:"backup_before_save,omitempty"`
	RestoreOnStartup    *bool `yaml:"restore_on_startup,omitempty"`
}

// MainWindow configures main-window state persistence.
type MainWindow struct {
	EnablePersistence *bool `yaml:"enable_persistence,omitempty"`
	AutoSaveOnClose   *bool `yaml:"auto_save_on_close,omitempty"`
	AutoSaveOnResize  *bool `yaml:"auto_save_on_resize,omitempty"`
	SaveUIState       *bool `yaml:"save_ui_state,omitempty"`
	BackupBeforeSave  *bool `yaml:"backup_before_save,omitempty"`
}

// MatrixOverride flips one directed pair in the drag compatibility
// matrix.
type MatrixOverride struct {
	Source  string `yaml:"source"`
	Target  string `yaml:"target"`
	Allowed bool   `yaml:"allowed"`
}

// DragDrop configures cross-tool drag and drop.
type DragDrop struct {
	CompatibilityOverrides []MatrixOverride `yaml:"compatibility_overrides,omitempty"`
}

// Config is the root of ~/.config/scriptorium/config.yaml. Every field
// is optional; zero values fall back to shipped defaults.
type Config struct {
	Windows     Windows     `yaml:"windows,omitempty"`
	Persistence Persistence `yaml:"persistence,omitempty"`
	MainWindow  MainWindow  `yaml:"main_window,omitempty"`
	DragDrop    DragDrop    `yaml:"drag_drop,omitempty"`
}

// DefaultConfig returns the shipped defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate rejects values the subsystems cannot honor. Called after
// every load.
func (c *Config) Validate() error {
	if max := len(tools.All()); c.Windows.MaxTotalWindows < 0 || c.Windows.MaxTotalWindows > max {
		return fmt.Errorf("windows.max_total_windows must be between 1 and %d, got %d",
			max, c.Windows.MaxTotalWindows)
	}
	if c.Persistence.SaveIntervalSeconds < 0 {
		return fmt.Errorf("persistence.save_interval_seconds must be positive, got %d",
			c.Persistence.SaveIntervalSeconds)
	}
	if c.Persistence.MaxSavedStates < 0 {
		return fmt.Errorf("persistence.max_saved_states must be positive, got %d",
			c.Persistence.MaxSavedStates)
	}
	for _, o := range c.DragDrop.CompatibilityOverrides {
		if !tools.Valid(tools.ToolType(o.Source)) {
			return fmt.Errorf("drag_drop: unknown source tool %q", o.Source)
		}
		if !tools.Valid(tools.ToolType(o.Target)) {
			return fmt.Errorf("drag_drop: unknown target tool %q", o.Target)
		}
	}
	return nil
}

// RegistryConfig maps the windows section onto registry options.
func (c *Config) RegistryConfig() registry.Config {
	out := registry.DefaultConfig()
	if c.Windows.MaxTotalWindows > 0 {
		out.MaxTotalWindows = c.Windows.MaxTotalWindows
	}
	if c.Windows.AutoFocusNewWindows != nil {
		out.AutoFocus = *c.Windows.AutoFocusNewWindows
	}
	if c.Windows.CascadeSpacingX > 0 {
		out.SpacingX = c.Windows.CascadeSpacingX
	}
	if c.Windows.CascadeSpacingY > 0 {
		out.SpacingY = c.Windows.CascadeSpacingY
	}
	return out
}

// LayoutConfig maps the persistence section onto layout options.
func (c *Config) LayoutConfig() layout.Config {
	out := layout.DefaultConfig()
	if c.Persistence.AutoSaveOnChange != nil {
		out.AutoSaveOnChange = *c.Persistence.AutoSaveOnChange
	}
	if c.Persistence.SaveIntervalSeconds > 0 {
		out.SaveIntervalSeconds = c.Persistence.SaveIntervalSeconds
	}
	if c.Persistence.MaxSavedStates > 0 {
		out.MaxSavedStates = c.Persistence.MaxSavedStates
	}
	if c.Persistence.BackupBeforeSave != nil {
		out.BackupBeforeSave = *c.Persistence.BackupBeforeSave
	}
	if c.Persistence.RestoreOnStartup != nil {
		out.RestoreOnStartup = *c.Persistence.RestoreOnStartup
	}
	return out
}

// MainWindowConfig maps the main_window section onto main-window
// persistence options.
func (c *Config) MainWindowConfig() layout.MainWindowConfig {
	out := layout.DefaultMainWindowConfig()
	if c.MainWindow.EnablePersistence != nil {
		out.EnablePersistence = *c.MainWindow.EnablePersistence
	}
	if c.MainWindow.AutoSaveOnClose != nil {
		out.AutoSaveOnClose = *c.MainWindow.AutoSaveOnClose
	}
	if c.MainWindow.AutoSaveOnResize != nil {
		out.AutoSaveOnResize = *c.MainWindow.AutoSaveOnResize
	}
	if c.MainWindow.SaveUIState != nil {
		out.SaveUIState = *c.MainWindow.SaveUIState
	}
	if c.MainWindow.BackupBeforeSave != nil {
		out.BackupBeforeSave = *c.MainWindow.BackupBeforeSave
	}
	return out
}

// Matrix builds the drag compatibility matrix: shipped defaults with
// the configured overrides applied on top.
func (c *Config) Matrix() *dragdrop.Matrix {
	m := dragdrop.DefaultMatrix()
	for _, o := range c.DragDrop.CompatibilityOverrides {
		m.Set(tools.ToolType(o.Source), tools.ToolType(o.Target), o.Allowed)
	}
	return m
}

// Save writes the config back to the standard location.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
