package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MRamiBalles/WordCross/internal/domain/cell"
	"github.com/MRamiBalles/WordCross/internal/events"
	"github.com/MRamiBalles/WordCross/internal/platform/logger"
	"github.com/MRamiBalles/WordCross/internal/platform/metrics"
)

// Messages shown to the player.
const (
	PromptFirstPick  = "Enter the row and column of the first cell (e.g., 0 1): "
	PromptSecondPick = "Enter the row and column of the second cell (e.g., 0 2): "
	MsgMatch         = "It's a match!"
	MsgMismatch      = "Not a match! Try again."
	MsgFinished      = "Congratulations! You've matched all the pairs!"
)

// PickProvider yields the next cell the player selects. It blocks until a
// pick is available; an error ends the game.
type PickProvider interface {
	NextPick(ctx context.Context) (cell.Position, error)
}

// SessionConfig carries the optional collaborators of a Session.
// Nil fields are replaced with silent defaults.
type SessionConfig struct {
	GameID  string
	Seed    int64
	Events  *events.EventLog
	Logger  *logger.Logger
	Metrics *metrics.Collector
}

// Session runs the interactive round loop of one game.
type Session struct {
	game    *Game
	picks   PickProvider
	out     io.Writer
	gameID  string
	seed    int64
	events  *events.EventLog
	logger  *logger.Logger
	metrics *metrics.Collector
	round   int
}

// NewSession wires a game to its input and output.
func NewSession(game *Game, picks PickProvider, out io.Writer, cfg SessionConfig) *Session {
	s := &Session{
		game:    game,
		picks:   picks,
		out:     out,
		gameID:  cfg.GameID,
		seed:    cfg.Seed,
		events:  cfg.Events,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
	if s.events == nil {
		s.events = events.NewEventLog()
	}
	if s.logger == nil {
		s.logger = logger.Discard()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewCollector()
	}
	return s
}

// Game returns the game being played.
func (s *Session) Game() *Game { return s.game }

// Events returns the log this session appends to.
func (s *Session) Events() *events.EventLog { return s.events }

// Run plays rounds until every pair is matched. It returns nil once the
// game is finished, or the first fatal error (malformed input, end of
// input, cancelled context, failed write). Rejected selections are
// reported to the player and re-prompted.
func (s *Session) Run(ctx context.Context) error {
	s.emit(events.EventTypeGameStarted, events.ActorSystem, events.GameStartedPayload{
		Size:  s.game.Size(),
		Pairs: s.game.Grid().Pairs(),
		Seed:  s.seed,
	})
	s.logger.Info(fmt.Sprintf("Game %s started on a %dx%d grid", s.gameID, s.game.Size(), s.game.Size()))

	for !s.game.Finished() {
		s.round = s.game.Rounds() + 1
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.playRound(ctx); err != nil {
			return err
		}
	}

	s.round = s.game.Rounds()
	s.emit(events.EventTypeGameFinished, events.ActorSystem, events.FinishedPayload{
		PairsFound: s.game.PairsFound(),
		Rounds:     s.game.Rounds(),
	})
	s.logger.Info(fmt.Sprintf("Game %s finished after %d rounds", s.gameID, s.game.Rounds()))
	return s.println(MsgFinished)
}

// playRound runs one AwaitingFirstPick → Evaluating cycle. It returns nil
// both after an evaluated round and after a rejected pick sent the game
// back to AwaitingFirstPick.
func (s *Session) playRound(ctx context.Context) error {
	if err := Render(s.out, s.game); err != nil {
		return err
	}

	started := time.Now()
	first, err := s.ask(ctx, PromptFirstPick)
	if err != nil {
		return err
	}
	if err := s.game.Pick(first); err != nil {
		return s.reject(first, err)
	}
	s.revealed(first)
	if err := Render(s.out, s.game); err != nil {
		return err
	}

	for s.game.Phase() == PhaseAwaitingSecondPick {
		second, err := s.ask(ctx, PromptSecondPick)
		if err != nil {
			return err
		}
		if err := s.game.Pick(second); err != nil {
			if rerr := s.reject(second, err); rerr != nil {
				return rerr
			}
			if RejectionReason(err) == ReasonAlreadyRevealed {
				s.emit(events.EventTypeCellHidden, events.ActorSystem, events.CellPayload{Position: first})
				return nil
			}
			continue
		}
		s.revealed(second)
	}
	if err := Render(s.out, s.game); err != nil {
		return err
	}

	matched, err := s.game.Evaluate()
	if err != nil {
		return err
	}
	s.metrics.RecordRound(matched, time.Since(started))

	a, b := s.game.Picks()
	payload := events.PairPayload{First: a, Second: b, PairsFound: s.game.PairsFound()}
	if matched {
		s.emit(events.EventTypePairMatched, events.ActorPlayer, payload)
		return s.println(MsgMatch)
	}
	s.emit(events.EventTypePairMismatched, events.ActorPlayer, payload)
	return s.println(MsgMismatch)
}

func (s *Session) ask(ctx context.Context, prompt string) (cell.Position, error) {
	if _, err := io.WriteString(s.out, prompt); err != nil {
		return cell.Position{}, err
	}
	return s.picks.NextPick(ctx)
}

// reject reports a refused pick. Only INVALID_SELECTION errors are
// recoverable; anything else is returned as fatal.
func (s *Session) reject(p cell.Position, err error) error {
	reason := RejectionReason(err)
	if reason == "" {
		return err
	}
	s.metrics.RecordRejectedPick()
	s.emit(events.EventTypeSelectionRejected, events.ActorPlayer, events.RejectedPayload{Position: p, Reason: reason})
	return s.println(err.Error())
}

func (s *Session) revealed(p cell.Position) {
	s.emit(events.EventTypeCellRevealed, events.ActorPlayer, events.CellPayload{
		Position: p,
		Token:    s.game.Grid().At(p),
	})
}

func (s *Session) emit(eventType events.EventType, actor string, payload interface{}) {
	event := events.NewEvent(s.gameID, eventType, actor, s.round, payload)
	err := s.events.Append(event)
	s.metrics.RecordEventWrite(err)
	if err != nil {
		s.logger.Warn("Event sink failed for " + string(eventType) + ": " + err.Error())
		return
	}
	s.logger.Event(string(eventType), actor, fmt.Sprintf("%+v", payload))
}

func (s *Session) println(msg string) error {
	_, err := fmt.Fprintln(s.out, msg)
	return err
}
