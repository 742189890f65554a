package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/tournament"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checkers.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Setenv("CHECKERS_CONFIG", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	tc, err := cfg.Tournament()
	if err != nil {
		t.Fatalf("Tournament: %v", err)
	}
	def := tournament.DefaultConfig()
	if tc.Rules != def.Rules || tc.MoveTimeLimit != def.MoveTimeLimit || tc.MaxMovesPerGame != def.MaxMovesPerGame {
		t.Fatalf("converted config %+v differs from default %+v", tc, def)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
bots:
  - FirstMover
  - champ=GreedyCapture
  - id: rnd
    bot: RandomBot
mode: one
challenger: champ
rounds: 2
board_size: 6
mandatory_continuation: false
move_time_limit: 1500ms
tie_breaks: [wins, rating]
redis_url: redis://localhost:6379/0
verbose: true
`)
	t.Setenv("CHECKERS_REDIS_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("CHECKERS_ROUNDS", "3")
	t.Setenv("CHECKERS_MOVE_TIME_LIMIT", "250")
	t.Setenv("CHECKERS_DATABASE_URL", "postgres://u@h/db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	roster := cfg.Roster()
	if len(roster) != 3 || roster[0].ID != "FirstMover" || roster[1].ID != "champ" || roster[2] != (BotSpec{ID: "rnd", Bot: "RandomBot"}) {
		t.Fatalf("roster = %+v", roster)
	}
	if cfg.Rounds != 3 || cfg.MoveTimeLimit != 250*time.Millisecond {
		t.Fatalf("env did not override file: rounds=%d limit=%s", cfg.Rounds, cfg.MoveTimeLimit)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" || cfg.DatabaseURL != "postgres://u@h/db" {
		t.Fatalf("urls = %q %q", cfg.RedisURL, cfg.DatabaseURL)
	}
	tc, err := cfg.Tournament()
	if err != nil {
		t.Fatalf("Tournament: %v", err)
	}
	if tc.Mode != tournament.ModeGauntlet || tc.Challenger != "champ" || !tc.Rules.OptionalContinuation || tc.Rules.BoardSize != 6 || !tc.Verbose {
		t.Fatalf("tournament config = %+v", tc)
	}
	if len(tc.TieBreaks) != 2 || tc.TieBreaks[0] != tournament.TieWins {
		t.Fatalf("tie-breaks = %v", tc.TieBreaks)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	path := writeConfig(t, "bots: [FirstMover, RandomBot]\nboard: 8\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLoadJoinsEnvErrors(t *testing.T) {
	t.Setenv("CHECKERS_CONFIG", "")
	t.Setenv("CHECKERS_ROUNDS", "two")
	t.Setenv("CHECKERS_SEED", "x")
	_, err := Load("")
	if err == nil {
		t.Fatalf("expected env parse errors")
	}
	if !strings.Contains(err.Error(), "CHECKERS_ROUNDS") || !strings.Contains(err.Error(), "CHECKERS_SEED") {
		t.Fatalf("err = %v", err)
	}
}

func TestRosterNumbersRepeatedBots(t *testing.T) {
	t.Setenv("CHECKERS_CONFIG", "")
	t.Setenv("CHECKERS_BOTS", "RandomBot, FirstMover, RandomBot")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var ids []string
	for _, b := range cfg.Roster() {
		ids = append(ids, b.ID)
	}
	if strings.Join(ids, ",") != "RandomBot-1,FirstMover,RandomBot-2" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := map[string]func(*AppConfig){
		"one bot":       func(c *AppConfig) { c.Bots = c.Bots[:1] },
		"blank bot":     func(c *AppConfig) { c.Bots[0].Bot = " " },
		"bad mode":      func(c *AppConfig) { c.Mode = "swiss" },
		"bad tie-break": func(c *AppConfig) { c.TieBreaks = []string{"coin_flip"} },
		"zero limit":    func(c *AppConfig) { c.MoveTimeLimit = 0 },
		"board size":    func(c *AppConfig) { c.BoardSize = 7 },
		"duplicate ids": func(c *AppConfig) { c.Bots = []BotSpec{{ID: "x", Bot: "FirstMover"}, {ID: "x", Bot: "RandomBot"}} },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	cfg := Default()
	cfg.Mode = "swiss"
	if _, err := cfg.Tournament(); !errors.Is(err, tournament.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestParseBotSpec(t *testing.T) {
	if _, err := ParseBotSpec("=RandomBot"); err == nil {
		t.Fatalf("expected error for empty id")
	}
	spec, err := ParseBotSpec(" me = GreedyCapture ")
	if err != nil || spec != (BotSpec{ID: "me", Bot: "GreedyCapture"}) {
		t.Fatalf("spec = %+v, %v", spec, err)
	}
}
