package tournament

import (
	"math"
	"sort"

	"github.com/park285/checkers-bot-tournament/internal/checkers"
	"github.com/park285/checkers-bot-tournament/internal/match"
)

const (
	InitialRating = 1200.0
	RatingK       = 24.0
)

// Entry is one bot's line in the table.
type Entry struct {
	Rank   int
	ID     string
	Score  float64
	Played int
	Wins   int
	Draws  int
	Losses int

	WhiteWins   int
	WhiteLosses int
	BlackWins   int
	BlackLosses int

	Forfeits  int
	KingsMade int
	Captures  int
	Rating    float64

	HeadToHead      float64
	SonnebornBerger float64
}

type Standings struct {
	RunID   string
	Games   int
	Entries []Entry
}

// Entry returns the line for id.
func (s *Standings) Entry(id string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Compute folds results, in the order given, into a ranked table. Results for
// IDs outside ids are ignored.
func Compute(ids []string, results []*match.Result, cfg Config) *Standings {
	idx := make(map[string]int, len(ids))
	entries := make([]Entry, len(ids))
	for i, id := range ids {
		idx[id] = i
		entries[i] = Entry{ID: id, Rating: InitialRating}
	}

	games := 0
	var counted []*match.Result
	for _, r := range results {
		if r == nil {
			continue
		}
		wi, wok := idx[r.White]
		bi, bok := idx[r.Black]
		if !wok || !bok {
			continue
		}
		games++
		counted = append(counted, r)
		w, b := &entries[wi], &entries[bi]
		w.Played++
		b.Played++
		w.KingsMade += r.WhiteStats.KingsMade
		w.Captures += r.WhiteStats.Captures
		b.KingsMade += r.BlackStats.KingsMade
		b.Captures += r.BlackStats.Captures
		if r.FailedBot == r.White {
			w.Forfeits++
		} else if r.FailedBot == r.Black {
			b.Forfeits++
		}

		var wScore float64
		switch r.Outcome {
		case checkers.WhiteWins:
			wScore = 1
			w.Wins++
			w.WhiteWins++
			b.Losses++
			b.BlackLosses++
			w.Score += cfg.WinPoints
			b.Score += cfg.LossPoints
		case checkers.BlackWins:
			b.Wins++
			b.BlackWins++
			w.Losses++
			w.WhiteLosses++
			b.Score += cfg.WinPoints
			w.Score += cfg.LossPoints
		default:
			wScore = 0.5
			w.Draws++
			b.Draws++
			w.Score += cfg.DrawPoints
			b.Score += cfg.DrawPoints
		}
		w.Rating, b.Rating = updateElo(w.Rating, b.Rating, wScore)
	}

	score := make(map[string]float64, len(entries))
	for _, e := range entries {
		score[e.ID] = e.Score
	}
	for _, r := range counted {
		w, b := &entries[idx[r.White]], &entries[idx[r.Black]]
		switch r.Outcome {
		case checkers.WhiteWins:
			w.SonnebornBerger += score[r.Black]
		case checkers.BlackWins:
			b.SonnebornBerger += score[r.White]
		default:
			w.SonnebornBerger += score[r.Black] / 2
			b.SonnebornBerger += score[r.White] / 2
		}
		// Head-to-head only counts games between bots level on score.
		if score[r.White] != score[r.Black] {
			continue
		}
		switch r.Outcome {
		case checkers.WhiteWins:
			w.HeadToHead += cfg.WinPoints
			b.HeadToHead += cfg.LossPoints
		case checkers.BlackWins:
			b.HeadToHead += cfg.WinPoints
			w.HeadToHead += cfg.LossPoints
		default:
			w.HeadToHead += cfg.DrawPoints
			b.HeadToHead += cfg.DrawPoints
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return ranksBefore(entries[i], entries[j], cfg.TieBreaks)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return &Standings{Games: games, Entries: entries}
}

func ranksBefore(a, b Entry, tieBreaks []TieBreak) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	for _, tb := range tieBreaks {
		switch tb {
		case TieHeadToHead:
			if a.HeadToHead != b.HeadToHead {
				return a.HeadToHead > b.HeadToHead
			}
		case TieFewerLosses:
			if a.Losses != b.Losses {
				return a.Losses < b.Losses
			}
		case TieWins:
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
		case TieSonnebornBerger:
			if a.SonnebornBerger != b.SonnebornBerger {
				return a.SonnebornBerger > b.SonnebornBerger
			}
		case TieRating:
			if a.Rating != b.Rating {
				return a.Rating > b.Rating
			}
		}
	}
	return a.ID < b.ID
}

// updateElo returns the new ratings after a game where white scored wScore.
func updateElo(white, black, wScore float64) (float64, float64) {
	expected := 1 / (1 + math.Pow(10, (black-white)/400))
	delta := RatingK * (wScore - expected)
	return white + delta, black - delta
}
