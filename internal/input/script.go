package input

import (
	"context"
	"fmt"
	"io"

	"github.com/MRamiBalles/WordCross/internal/domain/cell"
)

// Script replays a fixed sequence of picks.
type Script struct {
	picks []cell.Position
	next  int
}

// NewScript returns a provider yielding picks in order.
func NewScript(picks ...cell.Position) *Script {
	return &Script{picks: picks}
}

// NextPick returns the next scripted pick, or an error wrapping
// io.ErrUnexpectedEOF once the script is exhausted.
func (s *Script) NextPick(ctx context.Context) (cell.Position, error) {
	if err := ctx.Err(); err != nil {
		return cell.Position{}, err
	}
	if s.next >= len(s.picks) {
		return cell.Position{}, fmt.Errorf("script exhausted after %d picks: %w", len(s.picks), io.ErrUnexpectedEOF)
	}
	p := s.picks[s.next]
	s.next++
	return p, nil
}

// Remaining returns how many picks have not been consumed.
func (s *Script) Remaining() int {
	return len(s.picks) - s.next
}
