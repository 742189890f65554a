package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/checkers"
	"go.uber.org/zap"
)

// Adapter calls a bot under a time budget and checks its answer against the
// legal move set.
type Adapter struct {
	logger *zap.Logger
}

func NewAdapter(logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{logger: logger}
}

type reply struct {
	move checkers.Move
	err  error
}

// Choose asks b, seated as id, for a move. It returns the engine's own copy of
// the chosen legal move, a *TimeoutError, an *InvalidResponseError, or
// ctx.Err() once the parent context has ended. Only ChooseMove is called on b,
// and only inside the guarded goroutine. A bot that ignores cancellation keeps
// running in the background; its late answer is dropped.
func (a *Adapter) Choose(ctx context.Context, id string, b Bot, state checkers.GameState, legal []checkers.Move, budget time.Duration) (checkers.Move, error) {
	callCtx := ctx
	cancel := func() {}
	if budget > 0 {
		callCtx, cancel = context.WithTimeout(ctx, budget)
	}
	defer cancel()

	ch := make(chan reply, 1)
	req := Request{State: state, Legal: checkers.CloneMoves(legal), Budget: budget}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- reply{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		m, err := b.ChooseMove(callCtx, req)
		ch <- reply{move: m, err: err}
	}()

	var rep reply
	select {
	case rep = <-ch:
	case <-callCtx.Done():
		if err := ctx.Err(); err != nil {
			return checkers.Move{}, err
		}
		a.logger.Warn("bot_timeout", zap.String("bot", id), zap.Duration("budget", budget), zap.Int("ply", state.Ply()))
		return checkers.Move{}, &TimeoutError{Bot: id, Budget: budget}
	}

	if err := ctx.Err(); err != nil {
		return checkers.Move{}, err
	}
	if rep.err != nil {
		switch {
		case errors.Is(rep.err, ErrResign):
			return checkers.Move{}, &InvalidResponseError{Bot: id, Cause: rep.err, Resigned: true}
		case errors.Is(rep.err, context.DeadlineExceeded) && errors.Is(callCtx.Err(), context.DeadlineExceeded):
			return checkers.Move{}, &TimeoutError{Bot: id, Budget: budget}
		}
		a.logger.Warn("bot_error", zap.String("bot", id), zap.Error(rep.err))
		return checkers.Move{}, &InvalidResponseError{Bot: id, Cause: rep.err}
	}

	for _, m := range legal {
		if m.Equal(rep.move) {
			return m.Clone(), nil
		}
	}
	bad := rep.move.Clone()
	a.logger.Warn("bot_illegal_move", zap.String("bot", id), zap.Stringer("move", bad), zap.Int("ply", state.Ply()))
	return checkers.Move{}, &InvalidResponseError{Bot: id, Move: &bad}
}
