// Package grid holds the hidden token layout of a game and the mask of
// which cells are currently shown.
// It does no I/O.
package grid

import (
	"math/rand"
	"strconv"

	"github.com/MRamiBalles/WordCross/internal/domain/cell"
	"github.com/MRamiBalles/WordCross/internal/platform/errors"
)

// Grid is a size×size row-major arrangement of tokens. Every token appears
// exactly twice. It is immutable once built.
type Grid struct {
	size   int
	tokens [][]cell.Token
}

// MaxSize is the largest grid a game accepts.
const MaxSize = 100

// ValidateSize returns a CONFIGURATION error unless size is a positive even
// number no larger than MaxSize.
func ValidateSize(size int) error {
	meta := map[string]string{"size": strconv.Itoa(size)}
	if size <= 0 {
		return errors.WithMetadata(errors.CodeConfiguration, "Grid size must be a positive even number!", meta)
	}
	if size%2 != 0 {
		return errors.WithMetadata(errors.CodeConfiguration, "Grid size must be even!", meta)
	}
	if size > MaxSize {
		return errors.WithMetadata(errors.CodeConfiguration, "Grid size must be between 2 and "+strconv.Itoa(MaxSize)+"!", meta)
	}
	return nil
}

// New builds a grid of size*size/2 token pairs and places them with a
// uniform Fisher-Yates shuffle drawn from rng.
func New(size int, rng *rand.Rand) (*Grid, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}

	pairs := size * size / 2
	deck := make([]cell.Token, 0, size*size)
	for i := 0; i < pairs; i++ {
		tok := cell.TokenFor(i)
		deck = append(deck, tok, tok)
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	return FromTokens(size, deck)
}

// FromTokens lays tokens out row-major into a size×size grid, checking the
// pairing invariant. Used to build known layouts.
func FromTokens(size int, tokens []cell.Token) (*Grid, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}
	if len(tokens) != size*size {
		return nil, errors.WithMetadata(errors.CodeConfiguration, "token count does not fill the grid", map[string]string{
			"size":   strconv.Itoa(size),
			"tokens": strconv.Itoa(len(tokens)),
		})
	}

	counts := make(map[cell.Token]int, len(tokens)/2)
	for _, tok := range tokens {
		counts[tok]++
	}
	for tok, n := range counts {
		if n != 2 {
			return nil, errors.WithMetadata(errors.CodeConfiguration, "every token must appear exactly twice", map[string]string{
				"token": string(tok),
				"count": strconv.Itoa(n),
			})
		}
	}

	rows := make([][]cell.Token, size)
	for r := 0; r < size; r++ {
		rows[r] = make([]cell.Token, size)
		copy(rows[r], tokens[r*size:(r+1)*size])
	}
	return &Grid{size: size, tokens: rows}, nil
}

// Size returns the side length.
func (g *Grid) Size() int {
	return g.size
}

// Pairs returns how many distinct tokens the grid holds.
func (g *Grid) Pairs() int {
	return g.size * g.size / 2
}

// InBounds reports whether p addresses a cell of the grid.
func (g *Grid) InBounds(p cell.Position) bool {
	return p.Row >= 0 && p.Row < g.size && p.Col >= 0 && p.Col < g.size
}

// At returns the token under p. The caller must check InBounds first.
func (g *Grid) At(p cell.Position) cell.Token {
	return g.tokens[p.Row][p.Col]
}

// Tokens returns a row-major copy of the layout.
func (g *Grid) Tokens() []cell.Token {
	out := make([]cell.Token, 0, g.size*g.size)
	for _, row := range g.tokens {
		out = append(out, row...)
	}
	return out
}
