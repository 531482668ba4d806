// Package bridge connects live window geometry to layout persistence.
// UI window events come in, updated persisted window states go out; the
// bridge itself holds no window state of its own.
package bridge

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/inkhaven/scriptorium/internal/geometry"
	"github.com/inkhaven/scriptorium/internal/layout"
)

// ErrNotInitialized is returned when the bridge is used before
// Initialize succeeds.
var ErrNotInitialized = errors.New("bridge not initialized")

// Config controls how the bridge reacts to UI events.
type Config struct {
	AutoSyncWithUI    bool
	SaveOnWindowEvent bool
	LoadOnStartup     bool
	DefaultLayoutName string
}

// DefaultIntegrationConfig returns the defaults the suite ships with.
func DefaultIntegrationConfig() Config {
	return Config{
		AutoSyncWithUI:    true,
		SaveOnWindowEvent: true,
		LoadOnStartup:     true,
		DefaultLayoutName: "Default Layout",
	}
}

// Event is one UI window event. Exactly one concrete kind applies.
type Event interface {
	event()
}

type WindowOpened struct{ WindowID string }
type WindowClosed struct{ WindowID string }

type WindowMoved struct {
	WindowID string
	X, Y     int
}

type WindowResized struct {
	WindowID      string
	Width, Height int
}

type WindowMinimized struct{ WindowID string }
type WindowMaximized struct{ WindowID string }
type WindowRestored struct{ WindowID string }

type LayoutChanged struct{ LayoutName string }

// AllWindowsClosed marks every known window closed, one by one. A
// crash mid-way leaves a partially-closed persisted layout; the next
// sync reconciles it.
type AllWindowsClosed struct{}

func (WindowOpened) event()     {}
func (WindowClosed) event()     {}
func (WindowMoved) event()      {}
func (WindowResized) event()    {}
func (WindowMinimized) event()  {}
func (WindowMaximized) event()  {}
func (WindowRestored) event()   {}
func (LayoutChanged) event()    {}
func (AllWindowsClosed) event() {}

// EventResult reports how one event was handled.
type EventResult struct {
	Success   bool
	Persisted bool
	Message   string
	Stats     *layout.Stats
}

// Bridge forwards window events into layout persistence and applies
// loaded layouts back onto the geometry store.
type Bridge struct {
	cfg         Config
	geometry    *geometry.Store
	layouts     *layout.Manager
	initialized bool
}

// New creates a bridge over the given stores. Call Initialize before
// handling events.
func New(cfg Config, geo *geometry.Store, layouts *layout.Manager) *Bridge {
	return &Bridge{cfg: cfg, geometry: geo, layouts: layouts}
}

// Initialize prepares the persistence layer and, when configured,
// applies the restored layout to the geometry store.
func (b *Bridge) Initialize() error {
	if err := b.layouts.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize layout persistence: %w", err)
	}
	if b.cfg.LoadOnStartup {
		b.applyCurrentLayout()
	}
	if b.cfg.AutoSyncWithUI {
		b.SyncWindowStates()
	}
	b.initialized = true
	log.Printf("bridge: window persistence integration initialized")
	return nil
}

// HandleWindowEvent dispatches one UI event into persistence. The
// result carries fresh persistence stats regardless of outcome.
func (b *Bridge) HandleWindowEvent(ev Event) EventResult {
	if !b.initialized {
		return EventResult{Message: "integration not initialized"}
	}
	if !b.cfg.SaveOnWindowEvent {
		stats := b.layouts.Stats()
		return EventResult{Success: true, Message: "event persistence disabled", Stats: &stats}
	}

	var (
		err error
		msg string
	)
	switch e := ev.(type) {
	case WindowOpened:
		err = b.handleWindowOpened(e.WindowID)
		msg = fmt.Sprintf("window %q opened and persisted", e.WindowID)
	case WindowClosed:
		err = b.handleWindowClosed(e.WindowID)
		msg = fmt.Sprintf("window %q closed and persisted", e.WindowID)
	case WindowMoved:
		err = b.handleWindowMoved(e.WindowID, e.X, e.Y)
		msg = fmt.Sprintf("window %q moved to (%d, %d)", e.WindowID, e.X, e.Y)
	case WindowResized:
		err = b.handleWindowResized(e.WindowID, e.Width, e.Height)
		msg = fmt.Sprintf("window %q resized to %dx%d", e.WindowID, e.Width, e.Height)
	case WindowMinimized:
		err = b.handleWindowStateChanged(e.WindowID)
		msg = fmt.Sprintf("window %q minimized", e.WindowID)
	case WindowMaximized:
		err = b.handleWindowStateChanged(e.WindowID)
		msg = fmt.Sprintf("window %q maximized", e.WindowID)
	case WindowRestored:
		err = b.handleWindowStateChanged(e.WindowID)
		msg = fmt.Sprintf("window %q restored", e.WindowID)
	case LayoutChanged:
		err = b.layouts.SaveCurrentLayout(e.LayoutName)
		msg = fmt.Sprintf("layout changed to %q", e.LayoutName)
	case AllWindowsClosed:
		err = b.handleAllWindowsClosed()
		msg = "all windows closed and state persisted"
	default:
		err = fmt.Errorf("unknown window event %T", ev)
	}

	stats := b.layouts.Stats()
	if err != nil {
		log.Printf("bridge: %v", err)
		return EventResult{Message: err.Error(), Stats: &stats}
	}
	return EventResult{Success: true, Persisted: true, Message: msg, Stats: &stats}
}

// SyncWindowStates copies every live window's geometry into the
// persisted layout. One-directional, last writer wins; it reconciles
// drift rather than merging.
func (b *Bridge) SyncWindowStates() {
	ids := b.geometry.WindowIDs()
	log.Printf("bridge: syncing %d window states", len(ids))
	for _, id := range ids {
		window, ok := b.geometry.Window(id)
		if !ok {
			continue
		}
		b.persistWindow(window)
	}
}

// LoadLayout makes the named layout current and applies its window
// states to the geometry store.
func (b *Bridge) LoadLayout(name string) error {
	id, ok := b.layouts.FindLayoutByName(name)
	if !ok {
		return fmt.Errorf("layout %q not found", name)
	}
	if err := b.layouts.LoadLayout(id); err != nil {
		return err
	}
	b.applyCurrentLayout()
	log.Printf("bridge: loaded layout %q", name)
	return nil
}

// SaveCurrentLayout persists the current layout, optionally under a
// new name.
func (b *Bridge) SaveCurrentLayout(name string) error {
	if err := b.layouts.SaveCurrentLayout(name); err != nil {
		return err
	}
	log.Printf("bridge: current window layout saved")
	return nil
}

// CreateNewLayout starts a fresh, empty current layout.
func (b *Bridge) CreateNewLayout(name string, description *string) {
	b.layouts.CreateNewLayout(name, description)
	log.Printf("bridge: new window layout %q created", name)
}

// DeleteLayout removes the named saved layout.
func (b *Bridge) DeleteLayout(name string) error {
	id, ok := b.layouts.FindLayoutByName(name)
	if !ok {
		return fmt.Errorf("layout %q not found", name)
	}
	if err := b.layouts.DeleteLayout(id); err != nil {
		return err
	}
	log.Printf("bridge: deleted window layout %q", name)
	return nil
}

// ExportLayout writes the named saved layout to path.
func (b *Bridge) ExportLayout(name, path string) error {
	id, ok := b.layouts.FindLayoutByName(name)
	if !ok {
		return fmt.Errorf("layout %q not found", name)
	}
	if err := b.layouts.ExportLayout(id, path); err != nil {
		return err
	}
	log.Printf("bridge: exported window layout %q to %s", name, path)
	return nil
}

// ImportLayout reads a layout file and returns the imported layout's
// name.
func (b *Bridge) ImportLayout(path string) (string, error) {
	id, err := b.layouts.ImportLayout(path)
	if err != nil {
		return "", err
	}
	name := "Imported Layout"
	for _, l := range b.layouts.SavedLayouts() {
		if l.ID == id {
			name = l.Name
			break
		}
	}
	log.Printf("bridge: imported window layout %q from %s", name, path)
	return name, nil
}

// AvailableLayouts returns the saved layout names, most recently used
// first.
func (b *Bridge) AvailableLayouts() []string {
	saved := b.layouts.SavedLayouts()
	names := make([]string, 0, len(saved))
	for _, l := range saved {
		names = append(names, l.Name)
	}
	return names
}

// Stats returns the persistence counters.
func (b *Bridge) Stats() layout.Stats {
	return b.layouts.Stats()
}

func (b *Bridge) handleWindowOpened(windowID string) error {
	window, ok := b.geometry.Window(windowID)
	if !ok {
		return fmt.Errorf("failed to handle window opened: window %q has no geometry", windowID)
	}

	state, tracked := b.layouts.WindowState(windowID)
	if !tracked {
		state = layout.NewWindowState(windowID, window.Title, layout.TypeForWindowID(windowID))
	}
	state.UpdatePosition(window.X, window.Y)
	state.UpdateSize(window.Width, window.Height)
	state.UpdateVisibility(window.IsVisible, window.IsMinimized, window.IsMaximized)
	state.ZIndex = window.ZIndex
	state.RecordOpen()
	b.layouts.UpdateWindowState(windowID, state)
	return nil
}

func (b *Bridge) handleWindowClosed(windowID string) error {
	state, ok := b.layouts.WindowState(windowID)
	if !ok {
		return nil
	}
	state.UpdateVisibility(false, false, false)
	b.layouts.UpdateWindowState(windowID, state)
	return nil
}

func (b *Bridge) handleWindowMoved(windowID string, x, y int) error {
	state, ok := b.layouts.WindowState(windowID)
	if !ok {
		return nil
	}
	state.UpdatePosition(x, y)
	b.layouts.UpdateWindowState(windowID, state)
	return nil
}

func (b *Bridge) handleWindowResized(windowID string, width, height int) error {
	state, ok := b.layouts.WindowState(windowID)
	if !ok {
		return nil
	}
	state.UpdateSize(width, height)
	b.layouts.UpdateWindowState(windowID, state)
	return nil
}

func (b *Bridge) handleWindowStateChanged(windowID string) error {
	window, ok := b.geometry.Window(windowID)
	if !ok {
		return nil
	}
	state, tracked := b.layouts.WindowState(windowID)
	if !tracked {
		return nil
	}
	state.UpdateVisibility(window.IsVisible, window.IsMinimized, window.IsMaximized)
	b.layouts.UpdateWindowState(windowID, state)
	return nil
}

func (b *Bridge) handleAllWindowsClosed() error {
	for _, id := range b.geometry.WindowIDs() {
		if err := b.handleWindowClosed(id); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bridge) persistWindow(window geometry.ToolWindow) {
	state, tracked := b.layouts.WindowState(window.ID)
	if !tracked {
		state = layout.NewWindowState(window.ID, window.Title, layout.TypeForWindowID(window.ID))
	}
	state.UpdatePosition(window.X, window.Y)
	state.UpdateSize(window.Width, window.Height)
	state.UpdateVisibility(window.IsVisible, window.IsMinimized, window.IsMaximized)
	state.ZIndex = window.ZIndex
	b.layouts.UpdateWindowState(window.ID, state)
}

// applyCurrentLayout pushes the current layout's window states onto
// windows the geometry store already tracks. States for unknown
// windows stay persisted and apply when the window is added.
func (b *Bridge) applyCurrentLayout() {
	for id, state := range b.layouts.AllWindowStates() {
		if _, ok := b.geometry.Window(id); !ok {
			continue
		}
		err := b.geometry.ApplyState(id,
			state.Position.X, state.Position.Y,
			state.Size.Width, state.Size.Height,
			state.ZIndex,
			state.Visibility.IsVisible, state.Visibility.IsMinimized, state.Visibility.IsMaximized)
		if err != nil {
			log.Printf("bridge: failed to apply window state for %s: %v", id, err)
		}
	}
}

// LayoutID resolves a saved layout's id by name.
func (b *Bridge) LayoutID(name string) (uuid.UUID, bool) {
	return b.layouts.FindLayoutByName(name)
}
