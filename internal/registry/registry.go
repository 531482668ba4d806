// Package registry tracks the identity lifecycle of tool windows: which
// tools are open, which window is focused, and front-to-back stacking.
// At most one window may exist per tool type. Closing a window removes it
// entirely; ids are never reused within a process.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/inkhaven/scriptorium/internal/tools"
)

// WindowID is a process-local handle assigned monotonically from 1.
type WindowID uint32

func (id WindowID) String() string {
	return fmt.Sprintf("%d", id)
}

// WindowState holds the registry-level view of a single tool window.
type WindowState struct {
	WindowID     WindowID
	Tool         tools.ToolType
	IsOpen       bool
	IsFocused    bool
	X, Y         int
	Width        int
	Height       int
	ZIndex       int
	CreationTime time.Time
}

// Config controls registry limits and placement.
type Config struct {
	// MaxTotalWindows caps how many windows may be open at once.
	MaxTotalWindows int
	// AutoFocus focuses a window immediately after opening it.
	AutoFocus bool
	// SpacingX and SpacingY offset each newly opened window (cascade).
	SpacingX int
	SpacingY int
}

// DefaultConfig returns the limits the suite ships with: one window slot
// per tool type, cascading by 30px, auto-focus on open.
func DefaultConfig() Config {
	return Config{
		MaxTotalWindows: len(tools.All()),
		AutoFocus:       true,
		SpacingX:        30,
		SpacingY:        30,
	}
}

const (
	baseX         = 100
	baseY         = 100
	defaultWidth  = 1000
	defaultHeight = 700
)

// Statistics summarizes registry usage.
type Statistics struct {
	TotalOpenWindows int
	OpenTools        int
	MaxTotalWindows  int
	AvailableTools   int
}

// NotFoundError reports an operation against an unknown window id.
type NotFoundError struct {
	WindowID WindowID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("window %d does not exist", e.WindowID)
}

// ToolAlreadyOpenError reports an attempt to open a second window for a
// tool that already has one.
type ToolAlreadyOpenError struct {
	Tool             tools.ToolType
	ExistingWindowID WindowID
}

func (e *ToolAlreadyOpenError) Error() string {
	return fmt.Sprintf("tool %q is already open in window %d", e.Tool, e.ExistingWindowID)
}

// MaxWindowsError reports that the global window limit is reached.
type MaxWindowsError struct {
	MaxWindows int
}

func (e *MaxWindowsError) Error() string {
	return fmt.Sprintf("maximum number of windows reached (%d)", e.MaxWindows)
}

// Registry is the authoritative in-memory map of tool windows. All methods
// are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	cfg       Config
	windows   map[WindowID]*WindowState
	openTools map[tools.ToolType]WindowID
	nextID    WindowID
}

// New creates a registry with the default configuration.
func New() *Registry {
	r, _ := NewWithConfig(DefaultConfig())
	return r
}

// NewWithConfig creates a registry with custom limits. A zero window limit
// is rejected since no window could ever open.
func NewWithConfig(cfg Config) (*Registry, error) {
	if cfg.MaxTotalWindows <= 0 {
		return nil, &MaxWindowsError{MaxWindows: cfg.MaxTotalWindows}
	}
	return &Registry{
		cfg:       cfg,
		windows:   make(map[WindowID]*WindowState),
		openTools: make(map[tools.ToolType]WindowID),
		nextID:    1,
	}, nil
}

// OpenWindow opens a new window for tool. It fails with
// *ToolAlreadyOpenError if the tool already has a window and with
// *MaxWindowsError when the global limit is reached. Neither failure
// mutates the registry.
func (r *Registry) OpenWindow(tool tools.ToolType) (WindowID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.openTools[tool]; ok {
		return 0, &ToolAlreadyOpenError{Tool: tool, ExistingWindowID: existing}
	}
	if len(r.windows) >= r.cfg.MaxTotalWindows {
		return 0, &MaxWindowsError{MaxWindows: r.cfg.MaxTotalWindows}
	}

	id := r.nextID
	r.nextID++

	openCount := len(r.windows)
	state := &WindowState{
		WindowID:     id,
		Tool:         tool,
		IsOpen:       true,
		IsFocused:    false,
		X:            baseX + openCount*r.cfg.SpacingX,
		Y:            baseY + openCount*r.cfg.SpacingY,
		Width:        defaultWidth,
		Height:       defaultHeight,
		ZIndex:       openCount,
		CreationTime: time.Now(),
	}

	r.windows[id] = state
	r.openTools[tool] = id

	if r.cfg.AutoFocus {
		r.focusLocked(id)
	}

	return id, nil
}

// CloseWindow removes the window and releases its tool reservation.
// A mapped window is always open (close removes the entry outright), so
// the only failure here is *NotFoundError for an unknown id.
func (r *Registry) CloseWindow(id WindowID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.windows[id]
	if !ok {
		return &NotFoundError{WindowID: id}
	}

	delete(r.openTools, state.Tool)
	delete(r.windows, id)
	return nil
}

// FocusWindow gives id exclusive focus and bumps it to the top of the
// z-order. Focusing the already-focused window is not an error.
func (r *Registry) FocusWindow(id WindowID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.windows[id]; !ok {
		return &NotFoundError{WindowID: id}
	}
	r.focusLocked(id)
	return nil
}

func (r *Registry) focusLocked(id WindowID) {
	front := len(r.windows)
	for _, state := range r.windows {
		if state.WindowID == id {
			state.IsFocused = true
			state.ZIndex = front
		} else {
			state.IsFocused = false
		}
	}
}

// IsToolOpen reports whether the tool has an open window.
func (r *Registry) IsToolOpen(tool tools.ToolType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.openTools[tool]
	return ok
}

// FindOpenToolWindow returns the window id for an open tool.
func (r *Registry) FindOpenToolWindow(tool tools.ToolType) (WindowID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.openTools[tool]
	return id, ok
}

// WindowState returns a copy of the state for id.
func (r *Registry) WindowState(id WindowID) (WindowState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.windows[id]
	if !ok {
		return WindowState{}, false
	}
	return *state, true
}

// OpenWindows returns copies of every open window's state.
func (r *Registry) OpenWindows() []WindowState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]WindowState, 0, len(r.windows))
	for _, state := range r.windows {
		if state.IsOpen {
			out = append(out, *state)
		}
	}
	return out
}

// Statistics returns current usage counters.
func (r *Registry) Statistics() Statistics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	open := len(r.windows)
	return Statistics{
		TotalOpenWindows: open,
		OpenTools:        len(r.openTools),
		MaxTotalWindows:  r.cfg.MaxTotalWindows,
		AvailableTools:   len(tools.All()) - len(r.openTools),
	}
}
