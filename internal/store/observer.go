package store

import (
	"context"
	"sort"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/domain"
	"github.com/park285/checkers-bot-tournament/internal/match"
	"github.com/park285/checkers-bot-tournament/internal/tournament"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// Observer feeds scheduler events into a Recorder. Store failures are logged
// and never stop the tournament.
type Observer struct {
	rec       Recorder
	logger    *zap.Logger
	mode      string
	boardSize int
	now       func() time.Time
}

func NewObserver(rec Recorder, cfg tournament.Config, logger *zap.Logger) *Observer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Observer{
		rec:       rec,
		logger:    logger,
		mode:      string(cfg.Mode),
		boardSize: cfg.Rules.BoardSize,
		now:       time.Now,
	}
}

func (o *Observer) TournamentStarted(ctx context.Context, runID string, pairings []tournament.Pairing) {
	run := &domain.TournamentRun{
		ID:        runID,
		Mode:      o.mode,
		BoardSize: o.boardSize,
		Bots:      botsOf(pairings),
		Games:     len(pairings),
		StartedAt: o.now(),
	}
	o.write(ctx, "store_start_run", runID, func(ctx context.Context) error {
		return o.rec.StartRun(ctx, run)
	})
}

func (o *Observer) MatchFinished(ctx context.Context, runID string, res *match.Result) {
	rec := MatchRecordOf(runID, res, o.now())
	o.write(ctx, "store_record_match", runID, func(ctx context.Context) error {
		return o.rec.RecordMatch(ctx, rec)
	})
}

func (o *Observer) TournamentFinished(ctx context.Context, runID string, st *tournament.Standings) {
	rows := StandingRecordsOf(runID, st, o.now())
	o.write(ctx, "store_record_standings", runID, func(ctx context.Context) error {
		return o.rec.RecordStandings(ctx, runID, rows)
	})
}

func (o *Observer) write(ctx context.Context, event, runID string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		o.logger.Warn(event+"_failed", zap.String("run_id", runID), zap.Error(err))
	}
}

func botsOf(pairings []tournament.Pairing) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range pairings {
		for _, id := range [2]string{p.White, p.Black} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				out = append(out, id)
			}
		}
	}
	sort.Strings(out)
	return out
}

// MatchRecordOf flattens a match result for storage.
func MatchRecordOf(runID string, res *match.Result, at time.Time) *domain.MatchRecord {
	return &domain.MatchRecord{
		RunID:         runID,
		GameID:        res.GameID,
		Round:         res.Round,
		White:         res.White,
		Black:         res.Black,
		Result:        res.Outcome.String(),
		Reason:        string(res.Reason),
		Moves:         res.Moves,
		PDN:           res.PDN,
		WhiteKings:    res.WhiteStats.KingsMade,
		WhiteCaptures: res.WhiteStats.Captures,
		BlackKings:    res.BlackStats.KingsMade,
		BlackCaptures: res.BlackStats.Captures,
		FailedBot:     res.FailedBot,
		Error:         res.Error,
		RecordedAt:    at,
	}
}

// StandingRecordsOf flattens a table for storage, in rank order.
func StandingRecordsOf(runID string, st *tournament.Standings, at time.Time) []*domain.StandingRecord {
	out := make([]*domain.StandingRecord, 0, len(st.Entries))
	for _, e := range st.Entries {
		out = append(out, &domain.StandingRecord{
			RunID:           runID,
			Rank:            e.Rank,
			BotID:           e.ID,
			Score:           e.Score,
			Played:          e.Played,
			Wins:            e.Wins,
			Draws:           e.Draws,
			Losses:          e.Losses,
			WhiteWins:       e.WhiteWins,
			WhiteLosses:     e.WhiteLosses,
			BlackWins:       e.BlackWins,
			BlackLosses:     e.BlackLosses,
			Forfeits:        e.Forfeits,
			KingsMade:       e.KingsMade,
			Captures:        e.Captures,
			Rating:          e.Rating,
			SonnebornBerger: e.SonnebornBerger,
			UpdatedAt:       at,
		})
	}
	return out
}
