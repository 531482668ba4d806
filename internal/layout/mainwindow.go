package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// MainWindowState persists the single top-level application window. It
// has its own schema and file, independent of tool-window layouts.
type MainWindowState struct {
	WindowID   string             `json:"window_id"`
	Title      string             `json:"title"`
	Position   MainWindowPosition `json:"position"`
	Size       MainWindowSize     `json:"size"`
	Visibility Visibility         `json:"visibility"`
	UIState    MainWindowUIState  `json:"ui_state"`
	Metadata   MainWindowMetadata `json:"metadata"`
	LastSaved  time.Time          `json:"last_saved"`
}

type MainWindowPosition struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	ZOrder int `json:"z_order"`
}

type MainWindowSize struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	MinWidth  int `json:"min_width"`
	MinHeight int `json:"min_height"`
}

// MainWindowUIState captures which panels and chrome the main window
// shows.
type MainWindowUIState struct {
	ShowMenuBar     bool   `json:"show_menu_bar"`
	ShowToolPalette bool   `json:"show_tool_palette"`
	ShowProperties  bool   `json:"show_properties"`
	ShowHierarchy   bool   `json:"show_hierarchy"`
	ShowCodex       bool   `json:"show_codex"`
	ActivePanels    int    `json:"active_panels"`
	DocumentTitle   string `json:"document_title"`
	IsEditing       bool   `json:"is_editing"`
}

type MainWindowMetadata struct {
	WindowType         string  `json:"window_type"`
	ApplicationVersion string  `json:"application_version"`
	Platform           string  `json:"platform"`
	MonitorBounds      [4]int  `json:"monitor_bounds"`
	PrimaryMonitor     bool    `json:"primary_monitor"`
}

// MainWindowConfig controls main-window persistence.
type MainWindowConfig struct {
	EnablePersistence bool `json:"enable_persistence"`
	AutoSaveOnClose   bool `json:"auto_save_on_close"`
	AutoSaveOnResize  bool `json:"auto_save_on_resize"`
	SaveUIState       bool `json:"save_ui_state"`
	BackupBeforeSave  bool `json:"backup_before_save"`
}

// DefaultMainWindowConfig returns the defaults the suite ships with.
func DefaultMainWindowConfig() MainWindowConfig {
	return MainWindowConfig{
		EnablePersistence: true,
		AutoSaveOnClose:   true,
		AutoSaveOnResize:  true,
		SaveUIState:       true,
		BackupBeforeSave:  true,
	}
}

// MainWindowManager loads and saves the main window's state file at
// <project>/window_persistence/main_window_state.json, backing up the
// previous file before each overwrite when configured.
type MainWindowManager struct {
	mu          sync.RWMutex
	cfg         MainWindowConfig
	projectPath string
	current     *MainWindowState
}

// NewMainWindowManager creates a manager rooted at projectPath.
func NewMainWindowManager(cfg MainWindowConfig, projectPath string) *MainWindowManager {
	return &MainWindowManager{cfg: cfg, projectPath: projectPath}
}

// Load reads the persisted main window state. A missing file is not an
// error: it returns (nil, nil) and the caller uses defaults.
func (m *MainWindowManager) Load() (*MainWindowState, error) {
	if !m.cfg.EnablePersistence {
		return nil, nil
	}

	path := m.stateFilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read main window state: %w", err)
	}

	var state MainWindowState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse main window state: %w", err)
	}

	m.mu.Lock()
	m.current = &state
	m.mu.Unlock()
	return &state, nil
}

// Save writes the main window state, backing up any existing file to
// *.json.backup first. A failed backup is logged and does not block the
// save.
func (m *MainWindowManager) Save(state *MainWindowState) error {
	if !m.cfg.EnablePersistence {
		return nil
	}

	path := m.stateFilePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create persistence directory: %w", err)
	}

	if m.cfg.BackupBeforeSave {
		if err := copyFile(path, path+".backup"); err != nil && !os.IsNotExist(err) {
			log.Printf("layout: warning: failed to back up main window state: %v", err)
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode main window state: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write main window state: %w", err)
	}

	m.mu.Lock()
	m.current = state
	m.mu.Unlock()
	return nil
}

// Current returns the last loaded or saved state.
func (m *MainWindowManager) Current() *MainWindowState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// NewState builds a main window state from live values, filling in
// platform metadata.
func (m *MainWindowManager) NewState(title string, x, y, width, height int, maximized, minimized bool, ui MainWindowUIState) *MainWindowState {
	return &MainWindowState{
		WindowID: "main_window",
		Title:    title,
		Position: MainWindowPosition{X: x, Y: y},
		Size: MainWindowSize{
			Width:     width,
			Height:    height,
			MinWidth:  800,
			MinHeight: 600,
		},
		Visibility: Visibility{
			IsVisible:   true,
			IsMinimized: minimized,
			IsMaximized: maximized,
		},
		UIState: ui,
		Metadata: MainWindowMetadata{
			WindowType:         "main_application",
			ApplicationVersion: "2.0.0",
			Platform:           runtime.GOOS,
			MonitorBounds:      [4]int{0, 0, 1920, 1080},
			PrimaryMonitor:     true,
		},
		LastSaved: time.Now(),
	}
}

func (m *MainWindowManager) stateFilePath() string {
	return filepath.Join(m.projectPath, "window_persistence", "main_window_state.json")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
