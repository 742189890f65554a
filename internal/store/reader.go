package store

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/park285/checkers-bot-tournament/internal/domain"
)

// ReadCloser is a Reader holding a connection.
type ReadCloser interface {
	Reader
	io.Closer
}

// OpenReader connects to Postgres when databaseURL is set and to Redis
// otherwise. Redis only keeps a run for a day; Postgres keeps it for good.
func OpenReader(ctx context.Context, redisURL, databaseURL string) (ReadCloser, error) {
	switch {
	case strings.TrimSpace(databaseURL) != "":
		return OpenPostgres(databaseURL)
	case strings.TrimSpace(redisURL) != "":
		return OpenRedis(ctx, redisURL)
	default:
		return nil, fmt.Errorf("a redis or database url is required to read a stored run")
	}
}

// RunReport is everything stored for one run.
type RunReport struct {
	Run       *domain.TournamentRun
	Matches   []*domain.MatchRecord
	Standings []*domain.StandingRecord
}

// Finished reports whether the standings of the run are final.
func (r *RunReport) Finished() bool { return !r.Run.FinishedAt.IsZero() }

func LoadRun(ctx context.Context, r Reader, runID string) (*RunReport, error) {
	run, err := r.GetRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", runID, err)
	}
	matches, err := r.GetMatches(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load matches of %s: %w", runID, err)
	}
	standings, err := r.GetStandings(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("load standings of %s: %w", runID, err)
	}
	return &RunReport{Run: run, Matches: matches, Standings: standings}, nil
}
