package dragdrop

import "github.com/inkhaven/scriptorium/internal/tools"

// Matrix is the static cross-tool allow table consulted before a drag
// may move content between tools. Entries are directional: allowing
// hierarchy→codex says nothing about codex→hierarchy. Any pair not
// explicitly listed is denied.
type Matrix struct {
	allowed map[matrixKey]bool
}

type matrixKey struct {
	source tools.ToolType
	target tools.ToolType
}

// NewMatrix returns an empty matrix that denies every pair.
func NewMatrix() *Matrix {
	return &Matrix{allowed: make(map[matrixKey]bool)}
}

// DefaultMatrix returns the suite's shipped rules. Codex and plot
// content stays out of the hierarchy to avoid circular document
// references; hierarchy items may seed most other tools.
func DefaultMatrix() *Matrix {
	m := NewMatrix()

	m.Set(tools.Research, tools.Notes, true)
	m.Set(tools.Research, tools.Hierarchy, true)

	m.Set(tools.Codex, tools.Notes, true)
	m.Set(tools.Codex, tools.Hierarchy, false)

	m.Set(tools.Plot, tools.Notes, true)
	m.Set(tools.Plot, tools.Hierarchy, false)

	m.Set(tools.Analysis, tools.Notes, true)
	m.Set(tools.Analysis, tools.Hierarchy, true)

	m.Set(tools.Notes, tools.Analysis, true)
	m.Set(tools.Notes, tools.Hierarchy, true)

	m.Set(tools.Hierarchy, tools.Research, false)
	m.Set(tools.Hierarchy, tools.Codex, true)
	m.Set(tools.Hierarchy, tools.Plot, true)
	m.Set(tools.Hierarchy, tools.Analysis, true)
	m.Set(tools.Hierarchy, tools.Notes, true)

	return m
}

// Set records the decision for one directed pair.
func (m *Matrix) Set(source, target tools.ToolType, allowed bool) {
	m.allowed[matrixKey{source: source, target: target}] = allowed
}

// Allowed reports the decision for one directed pair. Unlisted pairs
// are denied.
func (m *Matrix) Allowed(source, target string) bool {
	return m.allowed[matrixKey{
		source: tools.ToolType(source),
		target: tools.ToolType(target),
	}]
}
