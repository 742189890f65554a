package tournament

import (
	"reflect"
	"testing"
)

func TestRoundRobinPairCounts(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	cfg := DefaultConfig()
	single := GeneratePairings(ids, cfg)
	if len(single) != 10 {
		t.Fatalf("single round robin: got %d games, want 10", len(single))
	}
	cfg.Doubled = true
	doubled := GeneratePairings(ids, cfg)
	if len(doubled) != 20 {
		t.Fatalf("doubled round robin: got %d games, want 20", len(doubled))
	}
	seen := map[[2]string]int{}
	for i, p := range doubled {
		if p.GameID != i+1 {
			t.Fatalf("game %d has id %d", i, p.GameID)
		}
		seen[[2]string{p.White, p.Black}]++
	}
	for _, w := range ids {
		for _, b := range ids {
			if w == b {
				continue
			}
			if seen[[2]string{w, b}] != 1 {
				t.Fatalf("%s as white vs %s: %d games", w, b, seen[[2]string{w, b}])
			}
		}
	}

	cfg.Rounds = 3
	if got := len(GeneratePairings(ids, cfg)); got != 60 {
		t.Fatalf("three doubled rounds: got %d games, want 60", got)
	}
}

func TestRoundRobinColourParity(t *testing.T) {
	got := GeneratePairings([]string{"a", "b", "c"}, DefaultConfig())
	want := []Pairing{
		{GameID: 1, Round: 1, White: "b", Black: "a"},
		{GameID: 2, Round: 1, White: "a", Black: "c"},
		{GameID: 3, Round: 1, White: "c", Black: "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestGauntletPairings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeGauntlet
	cfg.Challenger = "c"
	cfg.Rounds = 2
	got := GeneratePairings([]string{"a", "b", "c", "d"}, cfg)
	if len(got) != 12 {
		t.Fatalf("got %d games, want 12", len(got))
	}
	white, black := 0, 0
	for _, p := range got {
		switch "c" {
		case p.White:
			white++
		case p.Black:
			black++
		default:
			t.Fatalf("game without challenger: %+v", p)
		}
	}
	if white != 6 || black != 6 {
		t.Fatalf("challenger colours white=%d black=%d", white, black)
	}
	if got[11].Round != 2 {
		t.Fatalf("last game round %d", got[11].Round)
	}

	cfg.Challenger = "zz"
	if GeneratePairings([]string{"a", "b"}, cfg) != nil {
		t.Fatalf("unknown challenger should yield no pairings")
	}
}
