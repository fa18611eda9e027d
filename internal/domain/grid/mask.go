package grid

import "github.com/MRamiBalles/WordCross/internal/domain/cell"

// RevealedMask tracks which cells currently show their token.
type RevealedMask struct {
	size  int
	cells [][]bool
}

// NewRevealedMask returns an all-hidden mask for a size×size grid.
func NewRevealedMask(size int) *RevealedMask {
	cells := make([][]bool, size)
	for r := range cells {
		cells[r] = make([]bool, size)
	}
	return &RevealedMask{size: size, cells: cells}
}

// IsRevealed reports whether p is shown. Out-of-range positions are never shown.
func (m *RevealedMask) IsRevealed(p cell.Position) bool {
	if !m.inBounds(p) {
		return false
	}
	return m.cells[p.Row][p.Col]
}

// Reveal shows p.
func (m *RevealedMask) Reveal(p cell.Position) {
	if m.inBounds(p) {
		m.cells[p.Row][p.Col] = true
	}
}

// Hide masks p again.
func (m *RevealedMask) Hide(p cell.Position) {
	if m.inBounds(p) {
		m.cells[p.Row][p.Col] = false
	}
}

// Count returns the number of revealed cells.
func (m *RevealedMask) Count() int {
	n := 0
	for _, row := range m.cells {
		for _, shown := range row {
			if shown {
				n++
			}
		}
	}
	return n
}

func (m *RevealedMask) inBounds(p cell.Position) bool {
	return p.Row >= 0 && p.Row < m.size && p.Col >= 0 && p.Col < m.size
}
