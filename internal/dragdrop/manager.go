package dragdrop

import (
	"errors"
	"sort"
	"sync"
)

// ErrNoActiveDrag is returned when a drop or position update arrives
// without a drag session in progress.
var ErrNoActiveDrag = errors.New("no active drag operation")

// Cursor names the pointer shape shown during a drag.
type Cursor string

const (
	CursorDefault   Cursor = "default"
	CursorMove      Cursor = "move"
	CursorCopy      Cursor = "copy"
	CursorLink      Cursor = "link"
	CursorForbidden Cursor = "forbidden"
)

// Feedback is a visual hint for the UI layer. Exactly one concrete
// kind is active at a time.
type Feedback interface {
	feedback()
}

// GhostElement follows the pointer with a label for the dragged payload.
type GhostElement struct {
	Content string
	OffsetX float64
	OffsetY float64
	Opacity float64
}

// ZoneHighlight decorates a drop zone the pointer is over.
type ZoneHighlight struct {
	ZoneID      string
	Color       string
	BorderStyle string
	Animation   string
}

// CursorChange swaps the pointer shape.
type CursorChange struct {
	Cursor Cursor
}

func (GhostElement) feedback()  {}
func (ZoneHighlight) feedback() {}
func (CursorChange) feedback()  {}

// DropResult is what a drop zone's handler reports back to the caller.
type DropResult struct {
	OK bool
	// Reason explains a failed drop.
	Reason string
	// Failed lists the items a partially-applied drop could not handle.
	Failed []string
}

// DropSuccess is the all-items-applied result.
func DropSuccess() DropResult { return DropResult{OK: true} }

// DropFailure reports a fully rejected drop.
func DropFailure(reason string) DropResult { return DropResult{Reason: reason} }

// DropZone declares what a registered target accepts and what happens
// on drop. An empty AllowedSources accepts payloads from any tool.
type DropZone struct {
	AcceptedTypes  []DataType
	AllowedSources []string
	Feedback       Feedback
	OnDrop         func(*DragData) DropResult
}

func (z *DropZone) accepts(d *DragData) bool {
	return z.acceptsType(d.DataType) && z.acceptsSource(d.SourceTool)
}

func (z *DropZone) acceptsType(t DataType) bool {
	for _, accepted := range z.AcceptedTypes {
		if accepted == t {
			return true
		}
	}
	return false
}

func (z *DropZone) acceptsSource(tool string) bool {
	if len(z.AllowedSources) == 0 {
		return true
	}
	for _, src := range z.AllowedSources {
		if src == tool {
			return true
		}
	}
	return false
}

// Point is a pointer position in UI coordinates.
type Point struct {
	X float64
	Y float64
}

// SessionState is the transient state of the single active drag
// session. It is reset to zero values on drop or cancel and is never
// persisted.
type SessionState struct {
	IsDragging   bool
	SourceWindow string
	// DragData holds the serialized payload while the session lives.
	DragData    string
	DragType    DataType
	Position    *Point
	DropTargets []string
	Feedback    Feedback
}

// Manager owns drop-zone registration and the active drag session.
// Safe for concurrent use.
type Manager struct {
	mu             sync.Mutex
	state          SessionState
	zones          map[string]*DropZone
	matrix         *Matrix
	onStateChanged func(SessionState)
}

// NewManager creates a manager with the default tool compatibility
// matrix and no registered drop zones.
func NewManager() *Manager {
	return &Manager{
		zones:  make(map[string]*DropZone),
		matrix: DefaultMatrix(),
	}
}

// RegisterDropZone adds or replaces the zone registered under id.
func (m *Manager) RegisterDropZone(id string, zone *DropZone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[id] = zone
}

// UnregisterDropZone removes the zone registered under id.
func (m *Manager) UnregisterDropZone(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.zones, id)
}

// SetStateChangedCallback registers a listener invoked after every
// session state change. The listener runs under the manager's lock and
// must not call back into the manager.
func (m *Manager) SetStateChangedCallback(fn func(SessionState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStateChanged = fn
}

// StartDrag begins a session with the given payload. Valid drop
// targets are computed once at start: zones accepting the payload's
// type whose source filter admits the payload's tool, in sorted id
// order. Starting while a session is active replaces it.
func (m *Manager) StartDrag(data *DragData, sourceWindow string) error {
	serialized, err := data.Serialize()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = SessionState{
		IsDragging:   true,
		SourceWindow: sourceWindow,
		DragData:     serialized,
		DragType:     data.DataType,
		DropTargets:  m.validDropTargetsLocked(data),
	}
	m.notifyLocked()
	return nil
}

// UpdateDragPosition records the pointer position and refreshes the
// ghost-element feedback. A no-op outside a session.
func (m *Manager) UpdateDragPosition(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.IsDragging {
		return
	}
	m.state.Position = &Point{X: x, Y: y}

	if len(m.state.DropTargets) > 0 {
		m.state.Feedback = GhostElement{
			Content: m.state.DragType.GhostLabel(),
			OffsetX: 10,
			OffsetY: 10,
			Opacity: 0.8,
		}
	} else {
		m.state.Feedback = nil
	}
	m.notifyLocked()
}

// HandleDragOver updates feedback for the zone under the pointer:
// green pulse when the zone accepts the payload, red dashes otherwise.
func (m *Manager) HandleDragOver(targetID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.IsDragging {
		return
	}

	accepted := false
	if zone, ok := m.zones[targetID]; ok {
		if data, err := Deserialize(m.state.DragData); err == nil {
			accepted = zone.acceptsType(data.DataType)
		}
	}

	if accepted {
		m.state.Feedback = ZoneHighlight{
			ZoneID:      targetID,
			Color:       "#4CAF50",
			BorderStyle: "2px solid",
			Animation:   "pulse",
		}
	} else {
		m.state.Feedback = ZoneHighlight{
			ZoneID:      targetID,
			Color:       "#F44336",
			BorderStyle: "2px dashed",
		}
	}
	m.notifyLocked()
}

// CompleteDrag drops the payload on the identified zone and invokes its
// handler. The session always ends, whatever the outcome. It returns
// ErrNoActiveDrag outside a session; an unknown target or a rejected
// payload ends the session with a failure DropResult, not an error.
func (m *Manager) CompleteDrag(targetID string) (DropResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.IsDragging {
		return DropResult{}, ErrNoActiveDrag
	}

	var result DropResult
	zone, ok := m.zones[targetID]
	switch {
	case !ok:
		result = DropFailure("invalid drop target")
	default:
		data, err := Deserialize(m.state.DragData)
		switch {
		case err != nil:
			result = DropFailure("failed to deserialize drag data")
		case !zone.acceptsType(data.DataType):
			result = DropFailure("incompatible data type")
		default:
			result = zone.OnDrop(data)
		}
	}

	m.endDragLocked()
	return result, nil
}

// CancelDrag unconditionally resets the session.
func (m *Manager) CancelDrag() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endDragLocked()
}

// State returns a snapshot of the current session.
func (m *Manager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state
	snapshot.DropTargets = append([]string(nil), m.state.DropTargets...)
	if m.state.Position != nil {
		p := *m.state.Position
		snapshot.Position = &p
	}
	return snapshot
}

// Compatibility reports whether payloads may move from one tool to
// another per the active matrix.
func (m *Manager) Compatibility(source, target string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matrix.Allowed(source, target)
}

// SetMatrix replaces the compatibility matrix, typically with one
// carrying configuration overrides.
func (m *Manager) SetMatrix(matrix *Matrix) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matrix = matrix
}

func (m *Manager) endDragLocked() {
	m.state = SessionState{}
	m.notifyLocked()
}

func (m *Manager) validDropTargetsLocked(data *DragData) []string {
	var targets []string
	for id, zone := range m.zones {
		if zone.accepts(data) {
			targets = append(targets, id)
		}
	}
	sort.Strings(targets)
	return targets
}

func (m *Manager) notifyLocked() {
	if m.onStateChanged != nil {
		m.onStateChanged(m.state)
	}
}
