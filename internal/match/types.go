package match

import (
	"errors"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/bot"
	"github.com/park285/checkers-bot-tournament/internal/checkers"
)

// Reasons a match ends outside the board rules.
const (
	ReasonTimeout         checkers.Reason = "timeout"
	ReasonInvalidResponse checkers.Reason = "invalid_response"
	ReasonResignation     checkers.Reason = "resignation"
	ReasonMoveLimit       checkers.Reason = "move_limit"
)

var ErrGameFinished = errors.New("game already finished")

// Status is the lifecycle of a Game.
type Status uint8

const (
	NotStarted Status = iota
	InProgress
	Finished
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Finished:
		return "finished"
	default:
		return "not_started"
	}
}

// Config holds per-game limits.
type Config struct {
	Rules         checkers.Rules
	MoveTimeLimit time.Duration
	// MaxMoves caps the game length in plies; the game is drawn once reached.
	// Zero means no cap.
	MaxMoves int
	// OpeningPDN is replayed before the bots take over.
	OpeningPDN string
	// Trace keeps a board snapshot after every ply in Result.Trace.
	Trace bool
}

// Player is one seat of a pairing.
type Player struct {
	ID  string
	Bot bot.Bot
}

// Pairing is a scheduled game between two players.
type Pairing struct {
	GameID int
	Round  int
	White  Player
	Black  Player
}

// SideStats accumulates per-colour counters over a game.
type SideStats struct {
	KingsMade int
	Captures  int
}

// Result is the record of one finished game.
type Result struct {
	GameID  int
	Round   int
	White   string
	Black   string
	Outcome checkers.Result
	Reason  checkers.Reason
	// Moves is the number of plies played, including the opening.
	Moves        int
	OpeningPlies int
	History      []checkers.Move
	PDN          string
	WhiteStats   SideStats
	BlackStats   SideStats
	// FailedBot and Error are set when a bot forfeited.
	FailedBot string
	Error     string
	// Trace is only filled when Config.Trace is set.
	Trace []TracePly
}

// TracePly is one ply of a verbose game record. From and To are square
// numbers; Book marks plies replayed from the opening.
type TracePly struct {
	Ply   int
	Side  checkers.Colour
	From  int
	To    int
	Book  bool
	Board string
}

// Winner returns the winning player ID, or "" for a draw.
func (r *Result) Winner() string {
	switch r.Outcome {
	case checkers.WhiteWins:
		return r.White
	case checkers.BlackWins:
		return r.Black
	default:
		return ""
	}
}

// Forfeit reports whether the game ended by a bot failure.
func (r *Result) Forfeit() bool { return r.FailedBot != "" }

// Stats returns the counters of the given player ID.
func (r *Result) Stats(id string) SideStats {
	if id == r.White {
		return r.WhiteStats
	}
	if id == r.Black {
		return r.BlackStats
	}
	return SideStats{}
}
