package store

import (
	"context"
	"errors"

	"github.com/park285/checkers-bot-tournament/internal/domain"
)

var (
	ErrRunNotFound = errors.New("tournament run not found")
	ErrUnknownRun  = errors.New("record for unstarted tournament run")
)

// Recorder persists tournament progress.
type Recorder interface {
	StartRun(ctx context.Context, run *domain.TournamentRun) error
	RecordMatch(ctx context.Context, rec *domain.MatchRecord) error
	// RecordStandings replaces the table of the run and marks it finished.
	RecordStandings(ctx context.Context, runID string, rows []*domain.StandingRecord) error
}

// Reader loads what a Recorder stored. Matches come back ordered by game ID
// and standings by rank.
type Reader interface {
	GetRun(ctx context.Context, runID string) (*domain.TournamentRun, error)
	GetMatches(ctx context.Context, runID string) ([]*domain.MatchRecord, error)
	GetStandings(ctx context.Context, runID string) ([]*domain.StandingRecord, error)
}

type Repository interface {
	Recorder
	Reader
}
