package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/park285/checkers-bot-tournament/internal/domain"
)

// memrepo keeps everything in process; used when no database is configured.
type memrepo struct {
	mu sync.RWMutex

	runs      map[string]*domain.TournamentRun
	matches   map[string]map[int]*domain.MatchRecord // runID -> gameID -> record
	standings map[string][]*domain.StandingRecord
}

func NewMemoryRepository() Repository {
	return &memrepo{
		runs:      make(map[string]*domain.TournamentRun),
		matches:   make(map[string]map[int]*domain.MatchRecord),
		standings: make(map[string][]*domain.StandingRecord),
	}
}

func (m *memrepo) StartRun(ctx context.Context, run *domain.TournamentRun) error {
	if run == nil {
		return nil
	}
	copy := *run
	copy.Bots = append([]string(nil), run.Bots...)
	id := strings.TrimSpace(run.ID)
	m.mu.Lock()
	m.runs[id] = &copy
	if m.matches[id] == nil {
		m.matches[id] = make(map[int]*domain.MatchRecord)
	}
	m.mu.Unlock()
	return nil
}

func (m *memrepo) RecordMatch(ctx context.Context, rec *domain.MatchRecord) error {
	if rec == nil {
		return nil
	}
	id := strings.TrimSpace(rec.RunID)
	m.mu.Lock()
	defer m.mu.Unlock()
	games, ok := m.matches[id]
	if !ok {
		return ErrUnknownRun
	}
	copy := *rec
	games[rec.GameID] = &copy
	return nil
}

func (m *memrepo) RecordStandings(ctx context.Context, runID string, rows []*domain.StandingRecord) error {
	id := strings.TrimSpace(runID)
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return ErrUnknownRun
	}
	list := make([]*domain.StandingRecord, 0, len(rows))
	for _, r := range rows {
		copy := *r
		list = append(list, &copy)
	}
	m.standings[id] = list
	if len(list) > 0 {
		run.FinishedAt = list[0].UpdatedAt
	}
	return nil
}

func (m *memrepo) GetRun(ctx context.Context, runID string) (*domain.TournamentRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[strings.TrimSpace(runID)]
	if !ok {
		return nil, ErrRunNotFound
	}
	copy := *run
	copy.Bots = append([]string(nil), run.Bots...)
	return &copy, nil
}

func (m *memrepo) GetMatches(ctx context.Context, runID string) ([]*domain.MatchRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	games, ok := m.matches[strings.TrimSpace(runID)]
	if !ok {
		return nil, ErrRunNotFound
	}
	out := make([]*domain.MatchRecord, 0, len(games))
	for _, g := range games {
		copy := *g
		out = append(out, &copy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out, nil
}

func (m *memrepo) GetStandings(ctx context.Context, runID string) ([]*domain.StandingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id := strings.TrimSpace(runID)
	if _, ok := m.runs[id]; !ok {
		return nil, ErrRunNotFound
	}
	out := make([]*domain.StandingRecord, 0, len(m.standings[id]))
	for _, r := range m.standings[id] {
		copy := *r
		out = append(out, &copy)
	}
	return out, nil
}
