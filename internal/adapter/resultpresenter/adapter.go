package resultpresenter

import (
	"github.com/park285/checkers-bot-tournament/internal/match"
	"github.com/park285/checkers-bot-tournament/internal/tournament"
	"github.com/park285/checkers-bot-tournament/pkg/resultdto"
)

func ToDTOMatch(r *match.Result) *resultdto.Match {
	if r == nil {
		return nil
	}
	return &resultdto.Match{
		GameID:     r.GameID,
		Round:      r.Round,
		White:      r.White,
		Black:      r.Black,
		Result:     r.Outcome.String(),
		Winner:     r.Winner(),
		Reason:     string(r.Reason),
		Moves:      r.Moves,
		PDN:        r.PDN,
		WhiteStats: resultdto.SideStats{KingsMade: r.WhiteStats.KingsMade, Captures: r.WhiteStats.Captures},
		BlackStats: resultdto.SideStats{KingsMade: r.BlackStats.KingsMade, Captures: r.BlackStats.Captures},
		FailedBot:  r.FailedBot,
		Error:      r.Error,
	}
}

func ToDTOMatches(list []*match.Result) []resultdto.Match {
	out := make([]resultdto.Match, 0, len(list))
	for _, r := range list {
		if m := ToDTOMatch(r); m != nil {
			out = append(out, *m)
		}
	}
	return out
}

func ToDTOStandings(runID string, st *tournament.Standings, final bool) *resultdto.Standings {
	if st == nil {
		return &resultdto.Standings{RunID: runID, Entries: []resultdto.Entry{}}
	}
	out := &resultdto.Standings{
		RunID:   runID,
		Games:   st.Games,
		Final:   final,
		Entries: make([]resultdto.Entry, 0, len(st.Entries)),
	}
	for _, e := range st.Entries {
		out.Entries = append(out.Entries, resultdto.Entry{
			Rank:            e.Rank,
			ID:              e.ID,
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
		})
	}
	return out
}
