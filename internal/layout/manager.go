package layout

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config controls persistence behavior.
type Config struct {
	// AutoSaveOnChange writes the current layout when window state
	// changes, gated by SaveIntervalSeconds.
	AutoSaveOnChange bool `json:"auto_save_on_change"`
	// SaveIntervalSeconds limits how often auto-save writes. The gate is
	// checked lazily on the next mutation, not by a background timer, so
	// the interval is approximate.
	SaveIntervalSeconds int  `json:"save_interval_seconds"`
	MaxSavedStates      int  `json:"max_saved_states"`
	BackupBeforeSave    bool `json:"backup_before_save"`
	// RestoreOnStartup selects the most recently used layout as current
	// during Initialize.
	RestoreOnStartup bool `json:"restore_on_startup"`
}

// DefaultConfig returns the persistence defaults the suite ships with.
func DefaultConfig() Config {
	return Config{
		AutoSaveOnChange:    true,
		SaveIntervalSeconds: 30,
		MaxSavedStates:      5,
		BackupBeforeSave:    true,
		RestoreOnStartup:    true,
	}
}

// NotFoundError reports a reference to an unknown layout id.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("layout %s not found", e.ID)
}

// Stats summarizes the manager's persistence state.
type Stats struct {
	TotalSavedLayouts     int            `json:"total_saved_layouts"`
	CurrentLayoutName     string         `json:"current_layout_name,omitempty"`
	TotalWindowsInCurrent int            `json:"total_windows_in_current"`
	AutoSaveEnabled       bool           `json:"auto_save_enabled"`
	SinceLastAutoSave     *time.Duration `json:"since_last_auto_save,omitempty"`
}

// Manager owns the current layout and all saved layouts for one project.
// Layout files live under <project>/window_persistence/layouts/<id>.json.
// Safe for concurrent use; disk writes are linearized under the lock.
type Manager struct {
	mu           sync.RWMutex
	cfg          Config
	projectPath  string
	current      *Layout
	saved        map[uuid.UUID]*Layout
	lastAutoSave time.Time
}

// NewManager creates a manager rooted at projectPath. Call Initialize
// before use.
func NewManager(cfg Config, projectPath string) *Manager {
	return &Manager{
		cfg:         cfg,
		projectPath: projectPath,
		saved:       make(map[uuid.UUID]*Layout),
	}
}

// Initialize creates the persistence directory, loads every saved layout,
// and, when configured, restores the most recently used one as current.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.layoutsDir(), 0755); err != nil {
		return fmt.Errorf("failed to create layouts directory: %w", err)
	}

	if err := m.loadSavedLayoutsLocked(); err != nil {
		return err
	}

	if m.cfg.RestoreOnStartup {
		m.loadLastLayoutLocked()
	}

	if m.cfg.AutoSaveOnChange {
		m.lastAutoSave = time.Now()
	}
	return nil
}

// SaveCurrentLayout persists the current layout. With a name it clones
// the current layout's windows into a new layout under a fresh id (a
// "save as"); without one it bumps the existing layout's usage counters
// in place. A no-op when no layout is current.
func (m *Manager) SaveCurrentLayout(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return nil
	}

	var toSave *Layout
	if name != "" {
		toSave = m.current.cloneAs(name)
	} else {
		m.current.LastUsed = time.Now()
		m.current.UsageCount++
		toSave = m.current
	}

	if err := m.writeLayoutLocked(toSave); err != nil {
		return err
	}
	m.saved[toSave.ID] = toSave
	m.current = toSave
	return nil
}

// LoadLayout makes the identified saved layout current and records the
// use. Loading does not push geometry anywhere; the bridge applies it.
func (m *Manager) LoadLayout(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.saved[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	l.LastUsed = time.Now()
	l.UsageCount++
	if err := m.writeLayoutLocked(l); err != nil {
		return err
	}
	m.current = l
	return nil
}

// LoadLastLayout makes the most recently used saved layout current.
func (m *Manager) LoadLastLayout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadLastLayoutLocked()
}

func (m *Manager) loadLastLayoutLocked() {
	var last *Layout
	for _, l := range m.saved {
		if last == nil || l.LastUsed.After(last.LastUsed) {
			last = l
		}
	}
	if last != nil {
		m.current = last
	}
}

// UpdateWindowState upserts one window's state into the current layout.
// When auto-save is enabled and the save interval has elapsed, the
// current layout is written to disk; a failed auto-save is logged and
// does not fail the update.
func (m *Manager) UpdateWindowState(windowID string, state WindowState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return
	}
	m.current.Windows[windowID] = state

	if m.cfg.AutoSaveOnChange &&
		time.Since(m.lastAutoSave) >= time.Duration(m.cfg.SaveIntervalSeconds)*time.Second {
		if err := m.writeLayoutLocked(m.current); err != nil {
			log.Printf("layout: warning: auto-save failed: %v", err)
		} else {
			m.lastAutoSave = time.Now()
		}
	}
}

// WindowState returns one window's state from the current layout.
func (m *Manager) WindowState(windowID string) (WindowState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return WindowState{}, false
	}
	w, ok := m.current.Windows[windowID]
	return w, ok
}

// AllWindowStates returns a copy of the current layout's window map.
func (m *Manager) AllWindowStates() map[string]WindowState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]WindowState)
	if m.current == nil {
		return out
	}
	for id, w := range m.current.Windows {
		out[id] = w
	}
	return out
}

// CreateNewLayout replaces the current layout with an empty one.
func (m *Manager) CreateNewLayout(name string, description *string) *Layout {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = newLayout(name, description)
	return m.current
}

// DeleteLayout removes a saved layout's file and its in-memory entry. If
// the deleted layout was current, there is no current layout afterwards.
// Deleting an unknown id is a no-op.
func (m *Manager) DeleteLayout(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.saved[id]; !ok {
		return nil
	}
	delete(m.saved, id)

	path := m.layoutFilePath(id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete layout file: %w", err)
	}

	if m.current != nil && m.current.ID == id {
		m.current = nil
	}
	return nil
}

// SavedLayouts returns copies of every saved layout, sorted by most
// recently used first.
func (m *Manager) SavedLayouts() []Layout {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Layout, 0, len(m.saved))
	for _, l := range m.saved {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUsed.After(out[j].LastUsed) })
	return out
}

// CurrentLayout returns a copy of the current layout.
func (m *Manager) CurrentLayout() (Layout, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return Layout{}, false
	}
	return *m.current, true
}

// FindLayoutByName returns the id of the first saved layout with the
// given name.
func (m *Manager) FindLayoutByName(name string) (uuid.UUID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, l := range m.saved {
		if l.Name == name {
			return id, true
		}
	}
	return uuid.UUID{}, false
}

// ExportLayout writes a saved layout to an arbitrary path.
func (m *Manager) ExportLayout(id uuid.UUID, path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.saved[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to export layout %q: %w", l.Name, err)
	}
	return nil
}

// ImportLayout reads a layout file from an arbitrary path and saves it
// under a fresh id with " (Imported)" appended to the name, so imports
// never collide with existing layouts.
func (m *Manager) ImportLayout(path string) (uuid.UUID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to read layout file: %w", err)
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return uuid.UUID{}, fmt.Errorf("failed to parse layout file: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l.ID = uuid.New()
	l.Name = l.Name + " (Imported)"
	if l.Windows == nil {
		l.Windows = make(map[string]WindowState)
	}

	if err := m.writeLayoutLocked(&l); err != nil {
		return uuid.UUID{}, err
	}
	m.saved[l.ID] = &l
	return l.ID, nil
}

// Stats returns persistence counters for status displays.
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{
		TotalSavedLayouts: len(m.saved),
		AutoSaveEnabled:   m.cfg.AutoSaveOnChange,
	}
	if m.current != nil {
		s.CurrentLayoutName = m.current.Name
		s.TotalWindowsInCurrent = len(m.current.Windows)
	}
	if !m.lastAutoSave.IsZero() {
		since := time.Since(m.lastAutoSave)
		s.SinceLastAutoSave = &since
	}
	return s
}

// ReloadSavedLayouts re-reads the saved-layout catalog from disk,
// picking up files added, changed, or removed by another process.
// The in-memory current layout is left untouched.
func (m *Manager) ReloadSavedLayouts() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saved = make(map[uuid.UUID]*Layout)
	return m.loadSavedLayoutsLocked()
}

// PersistenceDir returns the project's window_persistence directory.
func (m *Manager) PersistenceDir() string {
	return filepath.Join(m.projectPath, "window_persistence")
}

// LayoutsDir returns the directory holding saved layout files.
func (m *Manager) LayoutsDir() string {
	return m.layoutsDir()
}

func (m *Manager) layoutsDir() string {
	return filepath.Join(m.PersistenceDir(), "layouts")
}

func (m *Manager) layoutFilePath(id uuid.UUID) string {
	return filepath.Join(m.layoutsDir(), id.String()+".json")
}

func (m *Manager) loadSavedLayoutsLocked() error {
	entries, err := os.ReadDir(m.layoutsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list layouts: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(m.layoutsDir(), entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read layout %q: %w", entry.Name(), err)
		}
		var l Layout
		if err := json.Unmarshal(data, &l); err != nil {
			return fmt.Errorf("failed to parse layout %q: %w", entry.Name(), err)
		}
		if l.Windows == nil {
			l.Windows = make(map[string]WindowState)
		}
		m.saved[l.ID] = &l
	}
	return nil
}

func (m *Manager) writeLayoutLocked(l *Layout) error {
	if err := os.MkdirAll(m.layoutsDir(), 0755); err != nil {
		return fmt.Errorf("failed to create layouts directory: %w", err)
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode layout %q: %w", l.Name, err)
	}
	if err := os.WriteFile(m.layoutFilePath(l.ID), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write layout %q: %w", l.Name, err)
	}
	return nil
}
