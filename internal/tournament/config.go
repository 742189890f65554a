package tournament

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/checkers"
)

var ErrConfiguration = errors.New("invalid tournament configuration")

// ConfigurationError names the offending setting.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("tournament config %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Mode selects who plays whom.
type Mode string

const (
	// ModeRoundRobin pairs every bot with every other bot.
	ModeRoundRobin Mode = "all"
	// ModeGauntlet pairs one challenger with every other bot, both colours.
	ModeGauntlet Mode = "one"
)

// TieBreak orders bots level on score.
type TieBreak string

const (
	TieHeadToHead      TieBreak = "head_to_head"
	TieFewerLosses     TieBreak = "fewer_losses"
	TieWins            TieBreak = "wins"
	TieSonnebornBerger TieBreak = "sonneborn_berger"
	TieRating          TieBreak = "rating"
)

func ParseTieBreak(s string) (TieBreak, error) {
	tb := TieBreak(strings.ToLower(strings.TrimSpace(s)))
	switch tb {
	case TieHeadToHead, TieFewerLosses, TieWins, TieSonnebornBerger, TieRating:
		return tb, nil
	}
	return "", configErr("tie_breaks", "unknown tie-break %q", s)
}

type Config struct {
	Rules checkers.Rules
	// Doubled plays every pair twice with colours swapped.
	Doubled    bool
	Rounds     int
	Mode       Mode
	Challenger string

	MoveTimeLimit    time.Duration
	MaxMovesPerGame  int
	ConcurrencyLimit int
	OpeningPDN       string

	TieBreaks  []TieBreak
	WinPoints  float64
	DrawPoints float64
	LossPoints float64

	// Seed derives per-game bot seeds.
	Seed int64
	// Verbose keeps a per-ply board trace in every result.
	Verbose bool
}

func DefaultConfig() Config {
	return Config{
		Rules:            checkers.DefaultRules(),
		Rounds:           1,
		Mode:             ModeRoundRobin,
		MoveTimeLimit:    2 * time.Second,
		MaxMovesPerGame:  300,
		ConcurrencyLimit: 4,
		TieBreaks:        []TieBreak{TieHeadToHead, TieSonnebornBerger, TieWins},
		WinPoints:        1,
		DrawPoints:       0.5,
		LossPoints:       0,
		Seed:             1,
	}
}

// Validate checks cfg against the roster IDs.
func (c Config) Validate(ids []string) error {
	if len(ids) < 2 {
		return configErr("bots", "need at least 2 bots, got %d", len(ids))
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return configErr("bots", "empty bot ID")
		}
		if _, dup := seen[id]; dup {
			return configErr("bots", "duplicate bot ID %q", id)
		}
		seen[id] = struct{}{}
	}
	if err := c.Rules.Validate(); err != nil {
		return configErr("rules", "%v", err)
	}
	if c.MoveTimeLimit <= 0 {
		return configErr("move_time_limit", "must be positive, got %s", c.MoveTimeLimit)
	}
	if c.MaxMovesPerGame < 0 {
		return configErr("max_moves_per_game", "must not be negative, got %d", c.MaxMovesPerGame)
	}
	if c.ConcurrencyLimit < 1 {
		return configErr("concurrency_limit", "must be at least 1, got %d", c.ConcurrencyLimit)
	}
	if c.Rounds < 1 {
		return configErr("rounds", "must be at least 1, got %d", c.Rounds)
	}
	switch c.Mode {
	case ModeRoundRobin:
	case ModeGauntlet:
		if _, ok := seen[c.Challenger]; !ok {
			return configErr("challenger", "%q is not in the roster", c.Challenger)
		}
	default:
		return configErr("mode", "unknown mode %q", c.Mode)
	}
	for _, tb := range c.TieBreaks {
		if _, err := ParseTieBreak(string(tb)); err != nil {
			return err
		}
	}
	if c.WinPoints < c.DrawPoints || c.DrawPoints < c.LossPoints {
		return configErr("points", "need win >= draw >= loss, got %g/%g/%g", c.WinPoints, c.DrawPoints, c.LossPoints)
	}
	if c.OpeningPDN != "" {
		start, err := checkers.NewGame(c.Rules)
		if err != nil {
			return configErr("rules", "%v", err)
		}
		if _, _, err := c.Rules.ParsePDN(start, c.OpeningPDN); err != nil {
			return configErr("opening_pdn", "%v", err)
		}
	}
	return nil
}
