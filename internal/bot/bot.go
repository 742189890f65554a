package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/checkers"
)

var (
	ErrInvalidResponse = errors.New("invalid bot response")
	ErrTimeout         = errors.New("bot move timeout")
	ErrUnknownBot      = errors.New("unknown bot")
	// ErrResign may be returned from ChooseMove to give up the game.
	ErrResign = errors.New("bot resigned")
)

// Request is what a bot sees on its turn. State and Legal are copies owned by
// the bot for the duration of the call.
type Request struct {
	State  checkers.GameState
	Legal  []checkers.Move
	Budget time.Duration
}

// Bot picks one move per turn. Implementations should return promptly once
// ctx is done; the returned move must be one of req.Legal.
type Bot interface {
	Name() string
	ChooseMove(ctx context.Context, req Request) (checkers.Move, error)
}

// InvalidResponseError reports a move outside the legal set, a bot error, a
// panic, or a resignation.
type InvalidResponseError struct {
	Bot      string
	Move     *checkers.Move
	Cause    error
	Resigned bool
}

func (e *InvalidResponseError) Error() string {
	switch {
	case e.Resigned:
		return fmt.Sprintf("bot %s resigned", e.Bot)
	case e.Move != nil:
		return fmt.Sprintf("bot %s returned move %s outside the legal set", e.Bot, e.Move)
	case e.Cause != nil:
		return fmt.Sprintf("bot %s failed: %v", e.Bot, e.Cause)
	default:
		return fmt.Sprintf("bot %s returned an invalid response", e.Bot)
	}
}

func (e *InvalidResponseError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidResponse, e.Cause}
	}
	return []error{ErrInvalidResponse}
}

// TimeoutError reports a bot that did not answer within its budget.
type TimeoutError struct {
	Bot    string
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("bot %s exceeded move budget %s", e.Bot, e.Budget)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }
