// Package cell defines the value types addressing a single grid square.
// This package is PURE and must NOT import any infrastructure packages.
package cell

import "fmt"

// Token is the symbol hidden under a cell. Two cells share each token.
type Token string

// TokenFor returns the i-th distinct token: A..Z, then AA, AB, ... like
// spreadsheet column labels, so any number of pairs gets unique symbols.
func TokenFor(i int) Token {
	if i < 0 {
		return ""
	}
	var b []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return Token(b)
}

// Position is a zero-based (row, column) coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// At is shorthand for Position{Row: row, Col: col}.
func At(row, col int) Position {
	return Position{Row: row, Col: col}
}

// String renders the position as "(row, col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}
