// Package layout persists named window layouts as JSON files under a
// project's window_persistence directory. A layout is a snapshot of every
// tracked window's geometry, visibility, and metadata; one layout is
// current at a time and the rest are addressable by id.
package layout

import (
	"time"

	"github.com/google/uuid"

	"github.com/inkhaven/scriptorium/internal/tools"
)

// WindowType classifies a persisted window. Tool windows use the tool id;
// the top-level application window and anything else use the dedicated
// values below.
type WindowType string

const (
	TypeSettings WindowType = "settings"
	TypeMain     WindowType = "main"
)

// TypeForWindowID maps a window id string to its persistence type. Ids
// that name a known tool get that tool's type; anything else is carried
// through as a custom type.
func TypeForWindowID(id string) WindowType {
	if tools.Valid(tools.ToolType(id)) {
		return WindowType(id)
	}
	switch id {
	case "settings":
		return TypeSettings
	case "main_window", "main":
		return TypeMain
	}
	return WindowType(id)
}

// Position is a window's on-screen origin.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
	// Screen names the monitor for multi-monitor setups; nil means the
	// primary monitor.
	Screen *string `json:"screen"`
}

// Size holds a window's dimensions and optional constraints.
type Size struct {
	Width     int  `json:"width"`
	Height    int  `json:"height"`
	MinWidth  *int `json:"min_width"`
	MinHeight *int `json:"min_height"`
	MaxWidth  *int `json:"max_width"`
	MaxHeight *int `json:"max_height"`
}

// Visibility tracks the window's display state.
type Visibility struct {
	IsVisible    bool `json:"is_visible"`
	IsMinimized  bool `json:"is_minimized"`
	IsMaximized  bool `json:"is_maximized"`
	IsFullscreen bool `json:"is_fullscreen"`
}

// FocusState is the persisted focus level of a window.
type FocusState string

const (
	FocusFocused   FocusState = "Focused"
	FocusUnfocused FocusState = "Unfocused"
	FocusActive    FocusState = "Active"
)

// UIState carries transient interaction flags. They are persisted so a
// layout snapshot taken mid-gesture is faithful, but restores treat them
// as advisory.
type UIState struct {
	IsDragging   bool       `json:"is_dragging"`
	IsResizing   bool       `json:"is_resizing"`
	ResizeHandle *string    `json:"resize_handle"`
	FocusState   FocusState `json:"focus_state"`
}

// Constraints restrict how a window may be positioned.
type Constraints struct {
	SnapToGrid          bool   `json:"snap_to_grid"`
	GridSize            *[2]int `json:"grid_size"`
	MaintainAspectRatio bool   `json:"maintain_aspect_ratio"`
	RespectScreenBounds bool   `json:"respect_screen_bounds"`
}

// DockPosition names where a docked window attaches.
type DockPosition string

const (
	DockLeft     DockPosition = "Left"
	DockRight    DockPosition = "Right"
	DockTop      DockPosition = "Top"
	DockBottom   DockPosition = "Bottom"
	DockCenter   DockPosition = "Center"
	DockFloating DockPosition = "Floating"
)

// DockingInfo describes a docked window.
type DockingInfo struct {
	IsDocked     bool         `json:"is_docked"`
	DockPosition DockPosition `json:"dock_position"`
	DockSize     *[2]int      `json:"dock_size"`
	DockGroup    *string      `json:"dock_group"`
}

// LayoutInfo groups layout-management metadata for one window.
type LayoutInfo struct {
	LayoutGroup *string      `json:"layout_group"`
	Constraints Constraints  `json:"constraints"`
	DockingInfo *DockingInfo `json:"docking_info"`
}

// Metadata tracks usage history for one window.
type Metadata struct {
	CreatedAt            time.Time         `json:"created_at"`
	FirstOpened          time.Time         `json:"first_opened"`
	OpenCount            int               `json:"open_count"`
	TotalOpenTimeSeconds int64             `json:"total_open_time_seconds"`
	UserPreferences      map[string]string `json:"user_preferences"`
}

// WindowState is the persistence-level snapshot of one window. It is
// richer than the registry's view: it carries visibility, interaction
// flags, layout constraints, and usage metadata.
type WindowState struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	WindowType   WindowType  `json:"window_type"`
	Position     Position    `json:"position"`
	Size         Size        `json:"size"`
	Visibility   Visibility  `json:"visibility"`
	State        UIState     `json:"state"`
	ZIndex       int         `json:"z_index"`
	LayoutInfo   LayoutInfo  `json:"layout_info"`
	Metadata     Metadata    `json:"metadata"`
	LastModified time.Time   `json:"last_modified"`
}

// NewWindowState constructs a window state with the suite defaults:
// hidden, unfocused, 400x300 at (100,100) with a 200x150 minimum.
func NewWindowState(id, title string, windowType WindowType) WindowState {
	minW, minH := 200, 150
	now := time.Now()
	return WindowState{
		ID:         id,
		Title:      title,
		WindowType: windowType,
		Position:   Position{X: 100, Y: 100},
		Size: Size{
			Width:     400,
			Height:    300,
			MinWidth:  &minW,
			MinHeight: &minH,
		},
		Visibility: Visibility{},
		State:      UIState{FocusState: FocusUnfocused},
		LayoutInfo: LayoutInfo{
			Constraints: Constraints{RespectScreenBounds: true},
		},
		Metadata: Metadata{
			CreatedAt:       now,
			FirstOpened:     now,
			UserPreferences: make(map[string]string),
		},
		LastModified: now,
	}
}

// UpdatePosition moves the window and marks it modified.
func (w *WindowState) UpdatePosition(x, y int) {
	w.Position.X = x
	w.Position.Y = y
	w.LastModified = time.Now()
}

// UpdateSize resizes the window, clamping to the minimum constraints.
func (w *WindowState) UpdateSize(width, height int) {
	minW, minH := 1, 1
	if w.Size.MinWidth != nil {
		minW = *w.Size.MinWidth
	}
	if w.Size.MinHeight != nil {
		minH = *w.Size.MinHeight
	}
	w.Size.Width = max(width, minW)
	w.Size.Height = max(height, minH)
	w.LastModified = time.Now()
}

// UpdateVisibility sets the display flags and marks the window modified.
func (w *WindowState) UpdateVisibility(visible, minimized, maximized bool) {
	w.Visibility.IsVisible = visible
	w.Visibility.IsMinimized = minimized
	w.Visibility.IsMaximized = maximized
	w.LastModified = time.Now()
}

// RecordOpen bumps the open counter.
func (w *WindowState) RecordOpen() {
	w.Metadata.OpenCount++
	w.LastModified = time.Now()
}

// Settings apply to a whole layout rather than any single window.
type Settings struct {
	AutoArrange       bool    `json:"auto_arrange"`
	RememberPositions bool    `json:"remember_positions"`
	RestoreOnStartup  bool    `json:"restore_on_startup"`
	DefaultLayout     *string `json:"default_layout"`
	WorkspaceName     *string `json:"workspace_name"`
}

// Layout is a named, persisted snapshot of all tracked windows.
type Layout struct {
	ID          uuid.UUID              `json:"id"`
	Name        string                 `json:"name"`
	Description *string                `json:"description"`
	Windows     map[string]WindowState `json:"windows"`
	Settings    Settings               `json:"layout_settings"`
	CreatedAt   time.Time              `json:"created_at"`
	LastUsed    time.Time              `json:"last_used"`
	UsageCount  int                    `json:"usage_count"`
}

func newLayout(name string, description *string) *Layout {
	now := time.Now()
	return &Layout{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Windows:     make(map[string]WindowState),
		Settings: Settings{
			RememberPositions: true,
			RestoreOnStartup:  true,
		},
		CreatedAt: now,
		LastUsed:  now,
	}
}

// clone returns a deep copy of the layout under a new identity.
func (l *Layout) cloneAs(name string) *Layout {
	now := time.Now()
	windows := make(map[string]WindowState, len(l.Windows))
	for id, w := range l.Windows {
		windows[id] = w
	}
	return &Layout{
		ID:         uuid.New(),
		Name:       name,
		Windows:    windows,
		Settings:   l.Settings,
		CreatedAt:  now,
		LastUsed:   now,
		UsageCount: 1,
	}
}
