package match

import (
	"context"

	"github.com/park285/checkers-bot-tournament/internal/bot"
	"go.uber.org/zap"
)

// Runner plays pairings under one shared configuration. A Runner is safe for
// concurrent use as long as every pairing carries its own bot instances.
type Runner struct {
	cfg     Config
	adapter *bot.Adapter
	logger  *zap.Logger
}

func NewRunner(cfg Config, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, adapter: bot.NewAdapter(logger), logger: logger}
}

func (r *Runner) Config() Config { return r.cfg }

// Play runs p to completion. Bot failures end the game and are reported in the
// result; the error is reserved for cancellation and engine faults.
func (r *Runner) Play(ctx context.Context, p Pairing) (*Result, error) {
	g, err := NewGame(p, r.cfg, r.adapter, r.logger)
	if err != nil {
		return nil, err
	}
	return g.Run(ctx)
}
