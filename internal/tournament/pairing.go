package tournament

// Pairing is one scheduled game. GameID is 1-based and follows schedule order.
type Pairing struct {
	GameID int
	Round  int
	White  string
	Black  string
}

// GeneratePairings builds the schedule for ids. A round robin yields
// n(n-1)/2 games per round, n(n-1) when doubled; the colour of each pair
// alternates with the parity of its indices. A gauntlet plays the challenger
// against every other bot with both colours. Returns nil for a gauntlet whose
// challenger is not in ids.
func GeneratePairings(ids []string, cfg Config) []Pairing {
	rounds := cfg.Rounds
	if rounds < 1 {
		rounds = 1
	}
	var out []Pairing
	add := func(round int, white, black string) {
		out = append(out, Pairing{GameID: len(out) + 1, Round: round, White: white, Black: black})
	}

	if cfg.Mode == ModeGauntlet {
		found := false
		for _, id := range ids {
			found = found || id == cfg.Challenger
		}
		if !found {
			return nil
		}
		for round := 1; round <= rounds; round++ {
			for _, id := range ids {
				if id == cfg.Challenger {
					continue
				}
				add(round, cfg.Challenger, id)
				add(round, id, cfg.Challenger)
			}
		}
		return out
	}

	type pair struct{ white, black string }
	var leg []pair
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if (i+j)%2 == 0 {
				leg = append(leg, pair{ids[i], ids[j]})
			} else {
				leg = append(leg, pair{ids[j], ids[i]})
			}
		}
	}
	for round := 1; round <= rounds; round++ {
		for _, p := range leg {
			add(round, p.white, p.black)
		}
		if cfg.Doubled {
			for _, p := range leg {
				add(round, p.black, p.white)
			}
		}
	}
	return out
}
