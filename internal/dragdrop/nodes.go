package dragdrop

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// NodeType classifies a canvas node.
type NodeType string

const (
	NodeIdea     NodeType = "idea"
	NodeDetail   NodeType = "detail"
	NodeQuestion NodeType = "question"
)

// ConnectionType classifies a link between two canvas nodes.
type ConnectionType string

const (
	ConnectionRelated  ConnectionType = "related"
	ConnectionLeadsTo  ConnectionType = "leads_to"
	ConnectionConflict ConnectionType = "conflict"
)

// Node is the geometry the canvas handler needs to resolve drop
// targets: a node is hit when the pointer is within half its display
// size of its center.
type Node struct {
	ID      uuid.UUID
	Type    NodeType
	Title   string
	Content string
	X       float64
	Y       float64
	Size    float64
}

// Connection links two nodes on the canvas.
type Connection struct {
	ID       uuid.UUID
	FromNode uuid.UUID
	ToNode   uuid.UUID
	Type     ConnectionType
}

// Bounds is the canvas rectangle in UI coordinates.
type Bounds struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (b Bounds) contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// DropTarget identifies what is under the pointer when a drop lands.
// Exactly one concrete kind applies.
type DropTarget interface {
	dropTarget()
}

// NodeTarget is a drop onto an existing node.
type NodeTarget struct {
	NodeID uuid.UUID
}

// CanvasTarget is a drop onto empty canvas at a position.
type CanvasTarget struct {
	X float64
	Y float64
}

// InvalidTarget is a drop outside the canvas.
type InvalidTarget struct{}

func (NodeTarget) dropTarget()    {}
func (CanvasTarget) dropTarget()  {}
func (InvalidTarget) dropTarget() {}

// Operation names what an active canvas drag intends.
type Operation string

const (
	OpMoveNode         Operation = "move_node"
	OpCreateConnection Operation = "create_connection"
	OpCreateNode       Operation = "create_node"
	OpAddContent       Operation = "add_content"
)

// Action is the typed mutation a completed drop asks the owning tool
// to apply. The handler never mutates tool data itself.
type Action interface {
	action()
}

// MoveNodeAction repositions an existing node.
type MoveNodeAction struct {
	NodeID uuid.UUID
	X      float64
	Y      float64
}

// CreateConnectionAction links two nodes.
type CreateConnectionAction struct {
	FromNode uuid.UUID
	ToNode   uuid.UUID
	Type     ConnectionType
}

// CreateNodeAction adds a node from external content.
type CreateNodeAction struct {
	Title   string
	Content string
	Type    NodeType
	X       float64
	Y       float64
}

// AddContentAction appends content to an existing node.
type AddContentAction struct {
	NodeID  uuid.UUID
	Content string
}

func (MoveNodeAction) action()         {}
func (CreateConnectionAction) action() {}
func (CreateNodeAction) action()       {}
func (AddContentAction) action()       {}

// Rule allows or denies one operation for given source and target
// kinds. Sources are tool names ("brainstorming", "text", "external");
// targets are canvas surface kinds ("node", "canvas", "connection").
type Rule struct {
	Operation      Operation
	AllowedSources []string
	AllowedTargets []string
	Allowed        bool
}

func (r Rule) matches(source string, target DropTarget) bool {
	sourceOK := false
	for _, s := range r.AllowedSources {
		if s == source {
			sourceOK = true
			break
		}
	}
	if !sourceOK {
		return false
	}

	var kind string
	switch target.(type) {
	case NodeTarget:
		kind = "node"
	case CanvasTarget:
		kind = "canvas"
	default:
		return false
	}
	for _, t := range r.AllowedTargets {
		if t == kind {
			return true
		}
	}
	return false
}

func defaultRules() []Rule {
	return []Rule{
		{Operation: OpMoveNode, AllowedSources: []string{"brainstorming"}, AllowedTargets: []string{"canvas"}, Allowed: true},
		{Operation: OpCreateConnection, AllowedSources: []string{"brainstorming"}, AllowedTargets: []string{"node"}, Allowed: true},
		{Operation: OpCreateNode, AllowedSources: []string{"text", "external"}, AllowedTargets: []string{"canvas"}, Allowed: true},
		{Operation: OpAddContent, AllowedSources: []string{"text"}, AllowedTargets: []string{"node"}, Allowed: true},
	}
}

type canvasSession struct {
	active     bool
	operation  Operation
	sourceTool string

	// Payload fields; which are set depends on the operation.
	nodeID   uuid.UUID
	fromNode uuid.UUID
	connType ConnectionType
	title    string
	content  string
}

// CanvasHandler runs drag sessions on the brainstorming canvas. It is
// owned by the canvas tool and is not safe for concurrent use; the
// canvas drives it from a single event loop.
type CanvasHandler struct {
	session canvasSession
	rules   []Rule
}

// NewCanvasHandler creates a handler with the default rules.
func NewCanvasHandler() *CanvasHandler {
	return &CanvasHandler{rules: defaultRules()}
}

// StartNodeDrag begins moving an existing node.
func (h *CanvasHandler) StartNodeDrag(node Node) {
	h.session = canvasSession{
		active:     true,
		operation:  OpMoveNode,
		sourceTool: "brainstorming",
		nodeID:     node.ID,
	}
}

// StartConnectionDrag begins drawing a connection from a node.
func (h *CanvasHandler) StartConnectionDrag(conn Connection) {
	h.session = canvasSession{
		active:     true,
		operation:  OpCreateConnection,
		sourceTool: "brainstorming",
		fromNode:   conn.FromNode,
		connType:   conn.Type,
	}
}

// StartExternalDrag begins dragging content from another tool onto the
// canvas; the drop creates a new node.
func (h *CanvasHandler) StartExternalDrag(title, content, sourceTool string) {
	h.session = canvasSession{
		active:     true,
		operation:  OpCreateNode,
		sourceTool: "external",
		title:      fmt.Sprintf("%s (from %s)", title, sourceTool),
		content:    content,
	}
}

// StartTextDrag begins dragging a text selection; dropping on the
// canvas creates a node, dropping on a node appends to it.
func (h *CanvasHandler) StartTextDrag(content, sourceTool string) {
	h.session = canvasSession{
		active:     true,
		operation:  OpCreateNode,
		sourceTool: "text",
		title:      fmt.Sprintf("From %s", sourceTool),
		content:    content,
	}
}

// Dragging reports whether a canvas drag session is active.
func (h *CanvasHandler) Dragging() bool {
	return h.session.active
}

// Cancel resets the session.
func (h *CanvasHandler) Cancel() {
	h.session = canvasSession{}
}

// DetermineDropTarget resolves what is under the pointer. A node is
// hit when the pointer falls within half its display size; among
// multiple hits the nearest node wins, with ties broken by the
// smallest node id, so resolution never depends on slice order. The
// canvas itself catches anything inside its bounds; outside is
// invalid.
func (h *CanvasHandler) DetermineDropTarget(x, y float64, nodes []Node, bounds Bounds) DropTarget {
	var (
		best     *Node
		bestDist float64
	)
	for i := range nodes {
		node := &nodes[i]
		dist := math.Hypot(x-node.X, y-node.Y)
		if dist >= node.Size/2 {
			continue
		}
		if best == nil || dist < bestDist ||
			(dist == bestDist && strings.Compare(node.ID.String(), best.ID.String()) < 0) {
			best = node
			bestDist = dist
		}
	}
	if best != nil {
		return NodeTarget{NodeID: best.ID}
	}

	if bounds.contains(x, y) {
		return CanvasTarget{X: x, Y: y}
	}
	return InvalidTarget{}
}

// HandleDrop completes the session against a resolved target and
// returns the mutation to apply. The session always ends, even when
// the drop is rejected.
func (h *CanvasHandler) HandleDrop(target DropTarget) (Action, error) {
	if !h.session.active {
		return nil, ErrNoActiveDrag
	}
	session := h.session
	h.session = canvasSession{}

	// A text selection landing on a node appends to it instead of
	// creating a new node.
	if _, onNode := target.(NodeTarget); onNode &&
		session.operation == OpCreateNode && session.sourceTool == "text" {
		session.operation = OpAddContent
	}

	if !h.allowed(session, target) {
		return nil, errors.New("drop not allowed by compatibility rules")
	}

	switch t := target.(type) {
	case CanvasTarget:
		switch session.operation {
		case OpMoveNode:
			return MoveNodeAction{NodeID: session.nodeID, X: t.X, Y: t.Y}, nil
		case OpCreateNode:
			return CreateNodeAction{
				Title:   session.title,
				Content: session.content,
				Type:    NodeDetail,
				X:       t.X,
				Y:       t.Y,
			}, nil
		}
	case NodeTarget:
		switch session.operation {
		case OpCreateConnection:
			return CreateConnectionAction{
				FromNode: session.fromNode,
				ToNode:   t.NodeID,
				Type:     session.connType,
			}, nil
		case OpAddContent:
			return AddContentAction{NodeID: t.NodeID, Content: session.content}, nil
		}
	}
	return nil, errors.New("invalid drop operation")
}

func (h *CanvasHandler) allowed(session canvasSession, target DropTarget) bool {
	for _, rule := range h.rules {
		if rule.Operation == session.operation && rule.matches(session.sourceTool, target) {
			return rule.Allowed
		}
	}
	return false
}
