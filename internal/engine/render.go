package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/MRamiBalles/WordCross/internal/domain/cell"
)

// CellWidth is the right-aligned column width of a rendered cell.
const CellWidth = 10

// HiddenGlyph stands in for tokens that are not revealed.
const HiddenGlyph = "?"

// Render writes the grid with hidden cells masked. It never mutates g.
func Render(w io.Writer, g *Game) error {
	var b strings.Builder
	b.WriteString("Current Grid:\n")
	for r := 0; r < g.Size(); r++ {
		for c := 0; c < g.Size(); c++ {
			glyph := HiddenGlyph
			if p := cell.At(r, c); g.IsRevealed(p) {
				glyph = string(g.grid.At(p))
			}
			fmt.Fprintf(&b, "%*s ", CellWidth, glyph)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
