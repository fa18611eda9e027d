// Package input turns raw player input into grid sizes and cell picks.
package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/MRamiBalles/WordCross/internal/domain/cell"
	apperrors "github.com/MRamiBalles/WordCross/internal/platform/errors"
)

// Terminal reads whitespace-separated integers from a stream, so "0 1",
// "0\n1" and "0   1" all yield the same pick.
type Terminal struct {
	scanner *bufio.Scanner
}

// NewTerminal wraps r, usually os.Stdin.
func NewTerminal(r io.Reader) *Terminal {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	return &Terminal{scanner: s}
}

// ReadInt returns the next integer. A non-numeric word is a
// MALFORMED_INPUT error; running out of input wraps io.ErrUnexpectedEOF.
// Cancelling ctx abandons a pending read; the Terminal must not be used
// after that.
func (t *Terminal) ReadInt(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	word, err := t.next(ctx)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(word)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeMalformedInput, fmt.Sprintf("expected an integer, got %q", word), err)
	}
	return n, nil
}

type scanResult struct {
	word string
	err  error
}

// next scans one word in the background so a blocked read on a terminal
// does not outlive ctx.
func (t *Terminal) next(ctx context.Context) (string, error) {
	result := make(chan scanResult, 1)
	go func() {
		if t.scanner.Scan() {
			result <- scanResult{word: t.scanner.Text()}
			return
		}
		if err := t.scanner.Err(); err != nil {
			result <- scanResult{err: fmt.Errorf("read input: %w", err)}
			return
		}
		result <- scanResult{err: fmt.Errorf("read input: %w", io.ErrUnexpectedEOF)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-result:
		return r.word, r.err
	}
}

// NextPick reads a row then a column.
func (t *Terminal) NextPick(ctx context.Context) (cell.Position, error) {
	row, err := t.ReadInt(ctx)
	if err != nil {
		return cell.Position{}, err
	}
	col, err := t.ReadInt(ctx)
	if err != nil {
		return cell.Position{}, err
	}
	return cell.At(row, col), nil
}
