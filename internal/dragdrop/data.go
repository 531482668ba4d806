// Package dragdrop implements cross-tool drag-and-drop: payload
// framing, drop-zone registration, session state, tool compatibility
// rules, and canvas drop-target resolution. It carries no rendering;
// the UI layer reads the session state and feedback descriptors.
package dragdrop

import (
	"encoding/json"
	"fmt"
	"time"
)

// DataType tags the payload carried by a drag operation.
type DataType string

const (
	TypeHierarchyItem    DataType = "hierarchy_item"
	TypeCodexEntry       DataType = "codex_entry"
	TypeResearchMaterial DataType = "research_material"
	TypeNote             DataType = "note"
	TypePlotPoint        DataType = "plot_point"
	TypeAnalysisResult   DataType = "analysis_result"
	TypeTextSelection    DataType = "text_selection"
	TypeFile             DataType = "file"
)

// GhostLabel returns the ghost-element text shown while dragging a
// payload of this type. Unknown types render with a generic marker.
func (t DataType) GhostLabel() string {
	switch t {
	case TypeHierarchyItem:
		return "📂 Hierarchy Item"
	case TypeCodexEntry:
		return "📖 Codex Entry"
	case TypeResearchMaterial:
		return "🔍 Research Material"
	case TypeNote:
		return "📝 Note"
	case TypePlotPoint:
		return "📈 Plot Point"
	case TypeAnalysisResult:
		return "📊 Analysis Result"
	case TypeTextSelection:
		return "✂️ Text Selection"
	case TypeFile:
		return "📁 File"
	default:
		return fmt.Sprintf("🔧 %s", string(t))
	}
}

// DragData is the unified payload transferred during a drag. Data is
// kept as raw JSON so the manager never interprets tool-specific
// content; the receiving drop zone decodes it.
type DragData struct {
	SourceID   string            `json:"source_id"`
	SourceTool string            `json:"source_tool"`
	DataType   DataType          `json:"data_type"`
	Data       json.RawMessage   `json:"data"`
	Timestamp  int64             `json:"timestamp"`
	Metadata   map[string]string `json:"metadata"`
}

// NewDragData builds a payload from any JSON-encodable value and stamps
// it with the current Unix time.
func NewDragData(sourceID, sourceTool string, dataType DataType, payload any) (*DragData, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode drag payload: %w", err)
	}
	return &DragData{
		SourceID:   sourceID,
		SourceTool: sourceTool,
		DataType:   dataType,
		Data:       raw,
		Timestamp:  time.Now().Unix(),
		Metadata:   make(map[string]string),
	}, nil
}

// AddMetadata attaches a free-form key/value pair to the payload.
func (d *DragData) AddMetadata(key, value string) {
	if d.Metadata == nil {
		d.Metadata = make(map[string]string)
	}
	d.Metadata[key] = value
}

// Serialize encodes the payload for transfer through shared UI state.
func (d *DragData) Serialize() (string, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to serialize drag data: %w", err)
	}
	return string(data), nil
}

// Deserialize decodes a payload previously produced by Serialize.
func Deserialize(data string) (*DragData, error) {
	var d DragData
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("failed to deserialize drag data: %w", err)
	}
	return &d, nil
}
