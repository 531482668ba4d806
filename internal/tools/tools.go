// Package tools defines the closed set of writing tools the suite ships.
// Every tool window is bound 1:1 to one of these types.
package tools

// ToolType identifies one of the suite's writing tools.
type ToolType string

const (
	Hierarchy     ToolType = "hierarchy"
	Codex         ToolType = "codex"
	Plot          ToolType = "plot"
	Analysis      ToolType = "analysis"
	Notes         ToolType = "notes"
	Research      ToolType = "research"
	Brainstorming ToolType = "brainstorming"
	Structure     ToolType = "structure"
)

// All returns every tool type in a stable order.
func All() []ToolType {
	return []ToolType{
		Hierarchy,
		Codex,
		Plot,
		Analysis,
		Notes,
		Research,
		Brainstorming,
		Structure,
	}
}

// Valid reports whether t names a known tool.
func Valid(t ToolType) bool {
	switch t {
	case Hierarchy, Codex, Plot, Analysis, Notes, Research, Brainstorming, Structure:
		return true
	}
	return false
}

// DisplayName returns the human-readable name shown in window titles.
func (t ToolType) DisplayName() string {
	switch t {
	case Hierarchy:
		return "Document Hierarchy"
	case Codex:
		return "World Building Codex"
	case Plot:
		return "Plot Development"
	case Analysis:
		return "Writing Analysis"
	case Notes:
		return "Research Notes"
	case Research:
		return "Research & Sources"
	case Brainstorming:
		return "Brainstorming Canvas"
	case Structure:
		return "Story Structure"
	default:
		return string(t)
	}
}

func (t ToolType) String() string {
	return string(t)
}
