package tournament

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/park285/checkers-bot-tournament/internal/bot"
	"github.com/park285/checkers-bot-tournament/internal/match"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Entrant is a roster slot. Spawn is called once per game so no bot instance
// is shared between concurrent games.
type Entrant struct {
	ID    string
	Spawn bot.Factory
}

// Observer receives tournament progress. All calls come from the collector
// goroutine, one at a time, in completion order.
type Observer interface {
	TournamentStarted(ctx context.Context, runID string, pairings []Pairing)
	MatchFinished(ctx context.Context, runID string, res *match.Result)
	TournamentFinished(ctx context.Context, runID string, st *Standings)
}

type Scheduler struct {
	logger    *zap.Logger
	observers []Observer
	newRunID  func() string
}

func NewScheduler(logger *zap.Logger, observers ...Observer) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{logger: logger, observers: observers, newRunID: uuid.NewString}
}

type finished struct {
	idx int
	res *match.Result
}

// Run plays the full schedule and returns the standings and every result in
// pairing order. Bot failures are scored as forfeits; the error is reserved for
// configuration problems, cancellation and engine faults.
func (s *Scheduler) Run(ctx context.Context, roster []Entrant, cfg Config) (*Standings, []*match.Result, error) {
	ids := make([]string, len(roster))
	spawn := make(map[string]bot.Factory, len(roster))
	for i, e := range roster {
		ids[i] = e.ID
		if e.Spawn == nil {
			return nil, nil, configErr("bots", "entrant %q has no bot factory", e.ID)
		}
		spawn[e.ID] = e.Spawn
	}
	if err := cfg.Validate(ids); err != nil {
		return nil, nil, err
	}

	runID := s.newRunID()
	pairings := GeneratePairings(ids, cfg)
	logger := s.logger.With(zap.String("run_id", runID))
	logger.Info("tournament_start",
		zap.Int("bots", len(ids)),
		zap.Int("games", len(pairings)),
		zap.String("mode", string(cfg.Mode)),
		zap.Int("concurrency", cfg.ConcurrencyLimit),
	)
	started := time.Now()
	for _, o := range s.observers {
		o.TournamentStarted(ctx, runID, pairings)
	}

	runner := match.NewRunner(match.Config{
		Rules:         cfg.Rules,
		MoveTimeLimit: cfg.MoveTimeLimit,
		MaxMoves:      cfg.MaxMovesPerGame,
		OpeningPDN:    cfg.OpeningPDN,
		Trace:         cfg.Verbose,
	}, logger)

	results := make([]*match.Result, len(pairings))
	out := make(chan finished)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for f := range out {
			results[f.idx] = f.res
			for _, o := range s.observers {
				o.MatchFinished(ctx, runID, f.res)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.ConcurrencyLimit)
	for i, p := range pairings {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			mp := match.Pairing{
				GameID: p.GameID,
				Round:  p.Round,
				White:  match.Player{ID: p.White, Bot: spawn[p.White](gameSeed(cfg.Seed, p.GameID, 0))},
				Black:  match.Player{ID: p.Black, Bot: spawn[p.Black](gameSeed(cfg.Seed, p.GameID, 1))},
			}
			res, err := runner.Play(gctx, mp)
			if err != nil {
				return fmt.Errorf("game %d (%s vs %s): %w", p.GameID, p.White, p.Black, err)
			}
			select {
			case out <- finished{idx: i, res: res}:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	err := g.Wait()
	close(out)
	<-collected
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		logger.Error("tournament_abort", zap.Error(err))
		return nil, nil, err
	}

	st := Compute(ids, results, cfg)
	st.RunID = runID
	logger.Info("tournament_finish",
		zap.Int("games", st.Games),
		zap.String("leader", st.Entries[0].ID),
		zap.Duration("elapsed", time.Since(started)),
	)
	for _, o := range s.observers {
		o.TournamentFinished(ctx, runID, st)
	}
	return st, results, nil
}

// gameSeed derives a stable seed for one seat of one game.
func gameSeed(base int64, gameID, seat int) int64 {
	return base*1_000_003 + int64(gameID)*2 + int64(seat)
}
