package store

import (
	"context"
	"errors"

	"github.com/park285/checkers-bot-tournament/internal/domain"
)

// Multi fans every call out to all recorders and joins their errors.
type Multi []Recorder

func (m Multi) StartRun(ctx context.Context, run *domain.TournamentRun) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.StartRun(ctx, run))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordMatch(ctx context.Context, rec *domain.MatchRecord) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordMatch(ctx, rec))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordStandings(ctx context.Context, runID string, rows []*domain.StandingRecord) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordStandings(ctx, runID, rows))
	}
	return errors.Join(errs...)
}
