package tournament

import (
	"testing"

	"github.com/park285/checkers-bot-tournament/internal/checkers"
	"github.com/park285/checkers-bot-tournament/internal/match"
)

func game(id int, white, black string, outcome checkers.Result) *match.Result {
	return &match.Result{GameID: id, White: white, Black: black, Outcome: outcome, Reason: checkers.ReasonNoLegalMoves}
}

func order(st *Standings) []string {
	out := make([]string, len(st.Entries))
	for i, e := range st.Entries {
		out[i] = e.ID
	}
	return out
}

func TestTieBreakOrder(t *testing.T) {
	ids := []string{"a", "b", "c"}
	// a and c finish on one point each; c won their game, a lost fewer.
	results := []*match.Result{
		game(1, "a", "b", checkers.WhiteWins),
		game(2, "c", "a", checkers.WhiteWins),
		game(3, "b", "c", checkers.WhiteWins),
		game(4, "c", "b", checkers.BlackWins),
	}
	cases := []struct {
		tb   []TieBreak
		want []string
	}{
		{[]TieBreak{TieHeadToHead}, []string{"b", "c", "a"}},
		{[]TieBreak{TieFewerLosses}, []string{"b", "a", "c"}},
		{[]TieBreak{TieWins}, []string{"b", "a", "c"}},
		{[]TieBreak{TieWins, TieHeadToHead}, []string{"b", "c", "a"}},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		cfg.TieBreaks = tc.tb
		st := Compute(ids, results, cfg)
		got := order(st)
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("tie-breaks %v: got %v, want %v", tc.tb, got, tc.want)
			}
		}
		if st.Entries[0].Rank != 1 || st.Entries[2].Rank != 3 {
			t.Fatalf("ranks not assigned: %+v", st.Entries)
		}
	}
}

func TestStandingsCounters(t *testing.T) {
	ids := []string{"a", "b"}
	results := []*match.Result{
		{GameID: 1, White: "a", Black: "b", Outcome: checkers.Draw, WhiteStats: match.SideStats{KingsMade: 1, Captures: 2}},
		{GameID: 2, White: "b", Black: "a", Outcome: checkers.BlackWins, FailedBot: "b", BlackStats: match.SideStats{Captures: 3}},
	}
	st := Compute(ids, results, DefaultConfig())
	a, _ := st.Entry("a")
	b, _ := st.Entry("b")
	if st.Games != 2 || a.Score != 1.5 || b.Score != 0.5 {
		t.Fatalf("scores a=%v b=%v games=%d", a.Score, b.Score, st.Games)
	}
	if a.Wins != 1 || a.Draws != 1 || a.BlackWins != 1 || a.WhiteWins != 0 {
		t.Fatalf("a counters %+v", a)
	}
	if b.Losses != 1 || b.WhiteLosses != 1 || b.Forfeits != 1 {
		t.Fatalf("b counters %+v", b)
	}
	if a.KingsMade != 1 || a.Captures != 5 {
		t.Fatalf("a stats kings=%d captures=%d", a.KingsMade, a.Captures)
	}
	if a.Rating != InitialRating+12 || b.Rating != InitialRating-12 {
		t.Fatalf("ratings a=%v b=%v", a.Rating, b.Rating)
	}
	if a.SonnebornBerger != 0.25+0.5 {
		t.Fatalf("a sonneborn-berger %v", a.SonnebornBerger)
	}
}

func TestCustomPoints(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WinPoints, cfg.DrawPoints, cfg.LossPoints = 3, 1, 0
	st := Compute([]string{"a", "b"}, []*match.Result{
		game(1, "a", "b", checkers.WhiteWins),
		game(2, "b", "a", checkers.Draw),
	}, cfg)
	a, _ := st.Entry("a")
	if a.Score != 4 {
		t.Fatalf("a score %v, want 4", a.Score)
	}
}
