package engine

import (
	"errors"
	"math/rand"
	"strconv"

	"github.com/MRamiBalles/WordCross/internal/domain/cell"
	"github.com/MRamiBalles/WordCross/internal/domain/grid"
	apperrors "github.com/MRamiBalles/WordCross/internal/platform/errors"
)

// Phase is the state of the round loop.
type Phase int

const (
	PhaseAwaitingFirstPick Phase = iota
	PhaseAwaitingSecondPick
	PhaseEvaluating
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingFirstPick:
		return "AwaitingFirstPick"
	case PhaseAwaitingSecondPick:
		return "AwaitingSecondPick"
	case PhaseEvaluating:
		return "Evaluating"
	case PhaseFinished:
		return "Finished"
	}
	return "Phase(" + strconv.Itoa(int(p)) + ")"
}

// Reasons attached to INVALID_SELECTION errors under the "reason" metadata key.
const (
	ReasonOutOfRange      = "out_of_range"
	ReasonAlreadyRevealed = "already_revealed"
)

var (
	// ErrWrongPhase is returned when an operation does not fit the current phase.
	ErrWrongPhase = errors.New("engine: operation not allowed in current phase")
	// ErrFinished is returned for picks after every pair has been found.
	ErrFinished = errors.New("engine: game is finished")
)

// Game owns the grid, the revealed mask and the pair count. It has no I/O;
// Session drives it from a PickProvider.
type Game struct {
	grid       *grid.Grid
	revealed   *grid.RevealedMask
	pairsFound int
	rounds     int
	phase      Phase
	first      cell.Position
	second     cell.Position
}

// NewGame generates a shuffled grid. Odd or non-positive sizes fail with a
// CONFIGURATION error and no game is built.
func NewGame(size int, rng *rand.Rand) (*Game, error) {
	g, err := grid.New(size, rng)
	if err != nil {
		return nil, err
	}
	return NewGameFromGrid(g), nil
}

// NewGameFromGrid starts a game on a prepared layout with every cell hidden.
func NewGameFromGrid(g *grid.Grid) *Game {
	return &Game{
		grid:     g,
		revealed: grid.NewRevealedMask(g.Size()),
		phase:    PhaseAwaitingFirstPick,
	}
}

// Pick applies a player selection in AwaitingFirstPick or AwaitingSecondPick.
//
// Out-of-range picks are rejected with no state change. An already revealed
// first pick is rejected with no state change; an already revealed second
// pick (including the first cell again) hides the first pick and returns
// the game to AwaitingFirstPick. A valid second pick moves to Evaluating.
func (g *Game) Pick(p cell.Position) error {
	switch g.phase {
	case PhaseAwaitingFirstPick, PhaseAwaitingSecondPick:
	case PhaseFinished:
		return ErrFinished
	default:
		return ErrWrongPhase
	}

	if !g.grid.InBounds(p) {
		return rejection(ReasonOutOfRange, "Coordinates out of range! Row and column must be between 0 and "+strconv.Itoa(g.grid.Size()-1)+".", p)
	}
	if g.revealed.IsRevealed(p) {
		if g.phase == PhaseAwaitingSecondPick {
			g.revealed.Hide(g.first)
			g.phase = PhaseAwaitingFirstPick
		}
		return rejection(ReasonAlreadyRevealed, "This cell is already revealed! Choose another.", p)
	}

	g.revealed.Reveal(p)
	if g.phase == PhaseAwaitingFirstPick {
		g.first = p
		g.phase = PhaseAwaitingSecondPick
	} else {
		g.second = p
		g.phase = PhaseEvaluating
	}
	return nil
}

// Evaluate compares the two revealed picks. A match stays revealed and
// counts a pair; a mismatch hides both cells again.
func (g *Game) Evaluate() (bool, error) {
	if g.phase != PhaseEvaluating {
		return false, ErrWrongPhase
	}

	matched := g.grid.At(g.first) == g.grid.At(g.second)
	if matched {
		g.pairsFound++
	} else {
		g.revealed.Hide(g.first)
		g.revealed.Hide(g.second)
	}
	g.rounds++

	if g.pairsFound == g.grid.Pairs() {
		g.phase = PhaseFinished
	} else {
		g.phase = PhaseAwaitingFirstPick
	}
	return matched, nil
}

// Grid returns the hidden layout.
func (g *Game) Grid() *grid.Grid { return g.grid }

// Size returns the side length of the grid.
func (g *Game) Size() int { return g.grid.Size() }

// IsRevealed reports whether the token at p is currently shown.
func (g *Game) IsRevealed(p cell.Position) bool { return g.revealed.IsRevealed(p) }

// RevealedCount returns how many cells are shown.
func (g *Game) RevealedCount() int { return g.revealed.Count() }

// PairsFound returns the number of matched pairs.
func (g *Game) PairsFound() int { return g.pairsFound }

// Rounds returns the number of evaluated rounds.
func (g *Game) Rounds() int { return g.rounds }

// Phase returns the current state of the round loop.
func (g *Game) Phase() Phase { return g.phase }

// Finished reports whether every pair has been matched.
func (g *Game) Finished() bool { return g.phase == PhaseFinished }

// Picks returns the first and second selections of the current round.
// Only meaningful while awaiting the second pick or evaluating.
func (g *Game) Picks() (first, second cell.Position) { return g.first, g.second }

// RejectionReason extracts the reason of an INVALID_SELECTION error, or "".
func RejectionReason(err error) string {
	var de *apperrors.Error
	if !errors.As(err, &de) || de.Code != apperrors.CodeInvalidSelection {
		return ""
	}
	return de.Metadata["reason"]
}

func rejection(reason, message string, p cell.Position) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidSelection, message, map[string]string{
		"reason": reason,
		"row":    strconv.Itoa(p.Row),
		"col":    strconv.Itoa(p.Col),
	})
}
