package statusapi

import (
	"context"
	"sort"
	"sync"

	"github.com/park285/checkers-bot-tournament/internal/adapter/resultpresenter"
	"github.com/park285/checkers-bot-tournament/internal/match"
	"github.com/park285/checkers-bot-tournament/internal/tournament"
	"github.com/park285/checkers-bot-tournament/pkg/resultdto"
)

const (
	statusIdle     = "idle"
	statusRunning  = "running"
	statusFinished = "finished"
)

// Tracker follows one tournament at a time and keeps provisional standings
// for the status endpoints and the live feed.
type Tracker struct {
	cfg tournament.Config

	mu      sync.RWMutex
	runID   string
	ids     []string
	total   int
	status  string
	results []*match.Result
	final   *tournament.Standings

	subMu   sync.Mutex
	nextSub int
	subs    map[int]chan resultdto.Event
}

// NewTracker uses cfg for scoring and tie-breaks.
func NewTracker(cfg tournament.Config) *Tracker {
	return &Tracker{cfg: cfg, status: statusIdle, subs: make(map[int]chan resultdto.Event)}
}

func (t *Tracker) TournamentStarted(ctx context.Context, runID string, pairings []tournament.Pairing) {
	seen := make(map[string]struct{})
	var ids []string
	for _, p := range pairings {
		for _, id := range [2]string{p.White, p.Black} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)

	t.mu.Lock()
	t.runID = runID
	t.ids = ids
	t.total = len(pairings)
	t.status = statusRunning
	t.results = nil
	t.final = nil
	t.mu.Unlock()
	t.publish(resultdto.Event{Type: resultdto.EventStarted, Progress: t.Progress()})
}

func (t *Tracker) MatchFinished(ctx context.Context, runID string, res *match.Result) {
	t.mu.Lock()
	if runID != t.runID {
		t.mu.Unlock()
		return
	}
	t.results = append(t.results, res)
	t.mu.Unlock()
	t.publish(resultdto.Event{Type: resultdto.EventMatch, Progress: t.Progress(), Match: resultpresenter.ToDTOMatch(res)})
}

func (t *Tracker) TournamentFinished(ctx context.Context, runID string, st *tournament.Standings) {
	t.mu.Lock()
	if runID != t.runID {
		t.mu.Unlock()
		return
	}
	t.final = st
	t.status = statusFinished
	t.mu.Unlock()
	standings := t.Standings()
	t.publish(resultdto.Event{Type: resultdto.EventFinished, Progress: t.Progress(), Standings: &standings})
}

func (t *Tracker) Progress() resultdto.Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return resultdto.Progress{RunID: t.runID, Total: t.total, Done: len(t.results), Status: t.status}
}

// Standings returns the final table once the tournament is over, otherwise
// one computed from the games finished so far.
func (t *Tracker) Standings() resultdto.Standings {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.final != nil {
		return *resultpresenter.ToDTOStandings(t.runID, t.final, true)
	}
	if len(t.ids) == 0 {
		return *resultpresenter.ToDTOStandings(t.runID, nil, false)
	}
	st := tournament.Compute(t.ids, t.sortedLocked(), t.cfg)
	return *resultpresenter.ToDTOStandings(t.runID, st, false)
}

// Matches returns the finished games ordered by game ID.
func (t *Tracker) Matches() []resultdto.Match {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return resultpresenter.ToDTOMatches(t.sortedLocked())
}

func (t *Tracker) sortedLocked() []*match.Result {
	out := append([]*match.Result(nil), t.results...)
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out
}

// Subscribe registers a listener for live events. Slow listeners miss events
// rather than block the tournament. Call the returned func to unsubscribe.
func (t *Tracker) Subscribe(buffer int) (<-chan resultdto.Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan resultdto.Event, buffer)
	t.subMu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = ch
	t.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.subMu.Lock()
			delete(t.subs, id)
			t.subMu.Unlock()
			close(ch)
		})
	}
}

func (t *Tracker) publish(ev resultdto.Event) {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	for _, ch := range t.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
