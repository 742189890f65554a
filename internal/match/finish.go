package match

import (
	"github.com/park285/checkers-bot-tournament/internal/checkers"
	"go.uber.org/zap"
)

// evaluate finishes the game if the board rules or the move cap decide it.
func (g *Game) evaluate() {
	if out, done := g.cfg.Rules.IsTerminal(g.state); done {
		g.finish(out.Result, out.Reason, "", nil)
		return
	}
	if g.cfg.MaxMoves > 0 && g.state.Ply() >= g.cfg.MaxMoves {
		g.finish(checkers.Draw, ReasonMoveLimit, "", nil)
	}
}

// forfeit ends the game against the side whose bot failed.
func (g *Game) forfeit(side checkers.Colour, reason checkers.Reason, cause error) {
	g.logger.Warn("match_forfeit",
		zap.Int("game_id", g.pairing.GameID),
		zap.String("bot", g.seat(side).ID),
		zap.String("reason", string(reason)),
		zap.Error(cause),
	)
	g.finish(checkers.WinFor(side.Opposite()), reason, g.seat(side).ID, cause)
}

func (g *Game) finish(res checkers.Result, reason checkers.Reason, failed string, cause error) {
	history := g.state.History()
	r := &Result{
		GameID:       g.pairing.GameID,
		Round:        g.pairing.Round,
		White:        g.pairing.White.ID,
		Black:        g.pairing.Black.ID,
		Outcome:      res,
		Reason:       reason,
		Moves:        len(history),
		OpeningPlies: g.opening,
		History:      history,
		PDN:          checkers.FormatPDN(history, g.cfg.Rules.BoardSize),
		WhiteStats:   g.white,
		BlackStats:   g.black,
		FailedBot:    failed,
		Trace:        g.trace,
	}
	if cause != nil {
		r.Error = cause.Error()
	}
	g.result = r
	g.status = Finished
	g.logger.Info("match_finish",
		zap.Int("game_id", r.GameID),
		zap.Int("round", r.Round),
		zap.String("white", r.White),
		zap.String("black", r.Black),
		zap.String("result", r.Outcome.String()),
		zap.String("reason", string(r.Reason)),
		zap.Int("moves", r.Moves),
	)
}
