package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/park285/checkers-bot-tournament/internal/bot"
	"github.com/park285/checkers-bot-tournament/internal/checkers"
	"go.uber.org/zap"
)

// Game drives one pairing from the starting position to a result. It is not
// safe for concurrent use; each game belongs to a single goroutine.
type Game struct {
	cfg     Config
	pairing Pairing
	adapter *bot.Adapter
	logger  *zap.Logger

	status  Status
	state   checkers.GameState
	opening int
	white   SideStats
	black   SideStats
	trace   []TracePly
	result  *Result
}

// NewGame sets up the position, replaying cfg.OpeningPDN if present.
func NewGame(p Pairing, cfg Config, adapter *bot.Adapter, logger *zap.Logger) (*Game, error) {
	if p.White.Bot == nil || p.Black.Bot == nil {
		return nil, fmt.Errorf("match %d: both players need a bot", p.GameID)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = bot.NewAdapter(logger)
	}
	state, err := checkers.NewGame(cfg.Rules)
	if err != nil {
		return nil, err
	}
	g := &Game{cfg: cfg, pairing: p, adapter: adapter, logger: logger}
	if cfg.OpeningPDN != "" {
		next, moves, err := cfg.Rules.ParsePDN(state, cfg.OpeningPDN)
		if err != nil {
			return nil, fmt.Errorf("match %d opening: %w", p.GameID, err)
		}
		if err := g.countOpening(state.Board(), moves); err != nil {
			return nil, err
		}
		state = next
		g.opening = len(moves)
	}
	g.state = state
	return g, nil
}

func (g *Game) Status() Status { return g.status }

func (g *Game) State() checkers.GameState { return g.state }

// Result is nil until the game has finished.
func (g *Game) Result() *Result { return g.result }

// Step advances the game by one ply. The first call only starts the game and
// checks whether the position is already decided. A cancelled ctx is returned
// as is and leaves the game in progress.
func (g *Game) Step(ctx context.Context) error {
	switch g.status {
	case Finished:
		return ErrGameFinished
	case NotStarted:
		g.status = InProgress
		g.logger.Debug("match_start",
			zap.Int("game_id", g.pairing.GameID),
			zap.String("white", g.pairing.White.ID),
			zap.String("black", g.pairing.Black.ID),
			zap.Int("opening_plies", g.opening),
		)
		g.evaluate()
		return nil
	}

	side := g.state.Turn()
	player := g.seat(side)
	legal := g.cfg.Rules.LegalMoves(g.state)

	m, err := g.adapter.Choose(ctx, player.ID, player.Bot, g.state, legal, g.cfg.MoveTimeLimit)
	if err != nil {
		var te *bot.TimeoutError
		var ire *bot.InvalidResponseError
		switch {
		case errors.As(err, &te):
			g.forfeit(side, ReasonTimeout, err)
			return nil
		case errors.As(err, &ire):
			reason := ReasonInvalidResponse
			if ire.Resigned {
				reason = ReasonResignation
			}
			g.forfeit(side, reason, err)
			return nil
		default:
			return err
		}
	}

	promoted := g.cfg.Rules.Promoted(g.state, m)
	next, err := g.cfg.Rules.ApplyMove(g.state, m)
	if err != nil {
		return fmt.Errorf("match %d: engine rejected adapter-checked move: %w", g.pairing.GameID, err)
	}
	g.record(side, m, promoted)
	g.state = next
	g.traceMove(next, side, m, false)
	g.logger.Debug("match_ply",
		zap.Int("game_id", g.pairing.GameID),
		zap.Int("ply", next.Ply()),
		zap.String("side", side.String()),
		zap.String("move", checkers.FormatMove(m, g.cfg.Rules.BoardSize)),
	)
	g.evaluate()
	return nil
}

// Run steps the game until it finishes.
func (g *Game) Run(ctx context.Context) (*Result, error) {
	for g.status != Finished {
		if err := g.Step(ctx); err != nil {
			return nil, err
		}
	}
	return g.result, nil
}

func (g *Game) seat(c checkers.Colour) Player {
	if c == checkers.White {
		return g.pairing.White
	}
	return g.pairing.Black
}

func (g *Game) stats(c checkers.Colour) *SideStats {
	if c == checkers.White {
		return &g.white
	}
	return &g.black
}

func (g *Game) record(side checkers.Colour, m checkers.Move, promoted bool) {
	st := g.stats(side)
	st.Captures += len(m.Captured)
	if promoted {
		st.KingsMade++
	}
}

// countOpening replays the opening from the side that actually moved first
// so the per-side counters include it.
func (g *Game) countOpening(start checkers.Board, moves []checkers.Move) error {
	if len(moves) == 0 {
		return nil
	}
	s, err := checkers.NewGameFromBoard(start, start.At(moves[0].From).Colour())
	if err != nil {
		return err
	}
	for _, m := range moves {
		side := s.Turn()
		promoted := g.cfg.Rules.Promoted(s, m)
		if s, err = g.cfg.Rules.ApplyMove(s, m); err != nil {
			return err
		}
		g.record(side, m, promoted)
		g.traceMove(s, side, m, true)
	}
	return nil
}

func (g *Game) traceMove(after checkers.GameState, side checkers.Colour, m checkers.Move, book bool) {
	if !g.cfg.Trace {
		return
	}
	size := g.cfg.Rules.BoardSize
	g.trace = append(g.trace, TracePly{
		Ply:   len(g.trace) + 1,
		Side:  side,
		From:  checkers.Square(m.From, size),
		To:    checkers.Square(m.To(), size),
		Book:  book,
		Board: after.Board().String(),
	})
}
