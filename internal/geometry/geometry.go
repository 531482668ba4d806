// Package geometry tracks per-window position, size, and visibility for
// the suite's tool windows. Its lifecycle is deliberately distinct from
// the registry's: closing a window here only hides it and clears its
// transient flags; the entry stays in the store so its geometry survives
// reopen. Windows are keyed by tool id strings, not registry ids.
package geometry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Minimum window dimensions. Every mutation clamps to these.
const (
	MinWidth  = 300
	MinHeight = 200
)

// ErrNotFound is returned (wrapped with the window id) by every operation
// that references an unknown window.
var ErrNotFound = errors.New("window not found")

func notFound(id string) error {
	return fmt.Errorf("window %q: %w", id, ErrNotFound)
}

// ResizeHandle names which edge or corner a resize grabs.
type ResizeHandle string

const (
	ResizeBottomRight ResizeHandle = "bottom-right"
	ResizeRight       ResizeHandle = "right"
	ResizeBottom      ResizeHandle = "bottom"
)

// ToolWindow is the geometry-level view of a single tool window.
type ToolWindow struct {
	ID          string
	Title       string
	X, Y        int
	Width       int
	Height      int
	IsVisible   bool
	IsMinimized bool
	IsMaximized bool
	IsDragging  bool
	IsResizing  bool
	ZIndex      int

	// dragAnchorX/Y hold the window origin when a drag started; deltas
	// from DragTo are applied relative to the anchor.
	dragAnchorX int
	dragAnchorY int
}

// Store holds the geometry of every known tool window. Safe for
// concurrent use.
type Store struct {
	mu         sync.RWMutex
	windows    map[string]*ToolWindow
	zOrder     []string // visible stacking, back to front
	nextZIndex int
}

// NewStore creates an empty geometry store.
func NewStore() *Store {
	return &Store{windows: make(map[string]*ToolWindow)}
}

// AddWindow registers a window. Re-adding an existing id overwrites its
// previous state; callers that need identity uniqueness enforce it at the
// registry layer.
func (s *Store) AddWindow(id, title string, x, y, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.windows[id] = &ToolWindow{
		ID:     id,
		Title:  title,
		X:      x,
		Y:      y,
		Width:  max(width, MinWidth),
		Height: max(height, MinHeight),
		ZIndex: s.nextZIndex,
	}
	s.nextZIndex++
}

// ShowWindow makes the window visible, un-minimizes it, and brings it to
// the front.
func (s *Store) ShowWindow(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	w.IsVisible = true
	w.IsMinimized = false
	s.bringToFront(id)
	return nil
}

// HideWindow hides the window and clears its transient drag/resize flags.
func (s *Store) HideWindow(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	w.IsVisible = false
	w.IsDragging = false
	w.IsResizing = false
	return nil
}

// ToggleWindow shows a hidden window and hides a visible one.
func (s *Store) ToggleWindow(id string) error {
	s.mu.Lock()
	visible := false
	w, ok := s.windows[id]
	if ok {
		visible = w.IsVisible
	}
	s.mu.Unlock()
	if !ok {
		return notFound(id)
	}
	if visible {
		return s.HideWindow(id)
	}
	return s.ShowWindow(id)
}

// StartDrag records the drag anchor and marks the window as dragging.
// Position changes are applied by DragTo as the pointer moves; the anchor
// itself never shifts the window.
func (s *Store) StartDrag(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	w.IsDragging = true
	w.dragAnchorX = w.X
	w.dragAnchorY = w.Y
	s.bringToFront(id)
	return nil
}

// DragTo moves a dragging window by the given deltas relative to the
// anchor recorded at StartDrag.
func (s *Store) DragTo(id string, deltaX, deltaY int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	if !w.IsDragging {
		return fmt.Errorf("window %q is not being dragged", id)
	}
	w.X = w.dragAnchorX + deltaX
	w.Y = w.dragAnchorY + deltaY
	return nil
}

// StopDrag clears the dragging flag.
func (s *Store) StopDrag(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	w.IsDragging = false
	return nil
}

// StartResize applies a size delta for the given handle and marks the
// window as resizing. Width and height are clamped to the minimums.
func (s *Store) StartResize(id string, handle ResizeHandle, deltaX, deltaY int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	w.IsResizing = true

	switch handle {
	case ResizeBottomRight:
		w.Width = max(w.Width+deltaX, MinWidth)
		w.Height = max(w.Height+deltaY, MinHeight)
	case ResizeRight:
		w.Width = max(w.Width+deltaX, MinWidth)
	case ResizeBottom:
		w.Height = max(w.Height+deltaY, MinHeight)
	default:
		w.IsResizing = false
		return fmt.Errorf("unknown resize handle %q", handle)
	}

	s.bringToFront(id)
	return nil
}

// StopResize clears the resizing flag.
func (s *Store) StopResize(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	w.IsResizing = false
	return nil
}

// MinimizeWindow toggles the minimized state. Minimizing cancels any
// in-progress drag or resize.
func (s *Store) MinimizeWindow(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	w.IsMinimized = !w.IsMinimized
	if w.IsMinimized {
		w.IsDragging = false
		w.IsResizing = false
	}
	return nil
}

// MaximizeWindow toggles the maximized state. Maximizing cancels any
// in-progress drag or resize.
func (s *Store) MaximizeWindow(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	w.IsMaximized = !w.IsMaximized
	if w.IsMaximized {
		w.IsDragging = false
		w.IsResizing = false
	}
	return nil
}

// CloseWindow hides the window and clears transient flags, keeping the
// entry so geometry survives a later reopen. This is intentionally weaker
// than the registry's close, which removes the window.
func (s *Store) CloseWindow(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	w.IsVisible = false
	w.IsDragging = false
	w.IsResizing = false
	s.removeFromZOrder(id)
	return nil
}

// UpdateWindowBounds sets position and size, clamping to the minimums.
func (s *Store) UpdateWindowBounds(id string, x, y, width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	w.X = x
	w.Y = y
	w.Width = max(width, MinWidth)
	w.Height = max(height, MinHeight)
	return nil
}

// Window returns a copy of the window state.
func (s *Store) Window(id string) (ToolWindow, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	if !ok {
		return ToolWindow{}, false
	}
	return *w, true
}

// WindowBounds returns the window's position and size.
func (s *Store) WindowBounds(id string) (x, y, width, height int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, found := s.windows[id]
	if !found {
		return 0, 0, 0, 0, false
	}
	return w.X, w.Y, w.Width, w.Height, true
}

// IsWindowVisible reports whether the window is visible and not minimized.
func (s *Store) IsWindowVisible(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[id]
	return ok && w.IsVisible && !w.IsMinimized
}

// VisibleWindows returns copies of every visible, non-minimized window.
func (s *Store) VisibleWindows() []ToolWindow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ToolWindow, 0, len(s.windows))
	for _, w := range s.windows {
		if w.IsVisible && !w.IsMinimized {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// WindowIDs returns every known window id, sorted.
func (s *Store) WindowIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.windows))
	for id := range s.windows {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// StackingOrder returns visible window ids back to front.
func (s *Store) StackingOrder() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.zOrder))
	copy(out, s.zOrder)
	return out
}

// ApplyState overwrites the window's geometry and visibility from a
// persisted snapshot.
func (s *Store) ApplyState(id string, x, y, width, height, zIndex int, visible, minimized, maximized bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[id]
	if !ok {
		return notFound(id)
	}
	w.X = x
	w.Y = y
	w.Width = max(width, MinWidth)
	w.Height = max(height, MinHeight)
	w.IsVisible = visible
	w.IsMinimized = minimized
	w.IsMaximized = maximized
	w.ZIndex = zIndex
	if zIndex >= s.nextZIndex {
		s.nextZIndex = zIndex + 1
	}
	return nil
}

// Count returns the number of tracked windows.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.windows)
}

// VisibleCount returns the number of visible, non-minimized windows.
func (s *Store) VisibleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, w := range s.windows {
		if w.IsVisible && !w.IsMinimized {
			n++
		}
	}
	return n
}

// bringToFront assigns the next z-index and moves id to the top of the
// stacking order. Callers must hold the write lock.
func (s *Store) bringToFront(id string) {
	w := s.windows[id]
	w.ZIndex = s.nextZIndex
	s.nextZIndex++
	s.removeFromZOrder(id)
	s.zOrder = append(s.zOrder, id)
}

func (s *Store) removeFromZOrder(id string) {
	for i, zid := range s.zOrder {
		if zid == id {
			s.zOrder = append(s.zOrder[:i], s.zOrder[i+1:]...)
			return
		}
	}
}
