package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/checkers"
	"github.com/park285/checkers-bot-tournament/internal/tournament"
	yaml "gopkg.in/yaml.v3"
)

// BotSpec is one roster line: a registered bot name and an optional ID.
// In YAML and env lists it is written "Kind" or "id=Kind".
type BotSpec struct {
	ID  string `yaml:"id"`
	Bot string `yaml:"bot"`
}

func ParseBotSpec(s string) (BotSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return BotSpec{}, errors.New("empty bot spec")
	}
	if id, kind, ok := strings.Cut(s, "="); ok {
		id, kind = strings.TrimSpace(id), strings.TrimSpace(kind)
		if id == "" || kind == "" {
			return BotSpec{}, fmt.Errorf("bot spec %q: want id=Bot", s)
		}
		return BotSpec{ID: id, Bot: kind}, nil
	}
	return BotSpec{Bot: s}, nil
}

func (b *BotSpec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		spec, err := ParseBotSpec(n.Value)
		if err != nil {
			return err
		}
		*b = spec
		return nil
	}
	type plain BotSpec
	var p plain
	if err := n.Decode(&p); err != nil {
		return err
	}
	*b = BotSpec(p)
	return nil
}

type AppConfig struct {
	Bots       []BotSpec `yaml:"bots"`
	Mode       string    `yaml:"mode"`
	Challenger string    `yaml:"challenger"`
	Rounds     int       `yaml:"rounds"`
	Doubled    bool      `yaml:"round_robin_doubled"`

	BoardSize               int  `yaml:"board_size"`
	MandatoryContinuation   bool `yaml:"mandatory_continuation"`
	DrawRepetitionThreshold int  `yaml:"draw_repetition_threshold"`
	DrawInactivityThreshold int  `yaml:"draw_inactivity_threshold"`

	MoveTimeLimit    time.Duration `yaml:"move_time_limit"`
	MaxMovesPerGame  int           `yaml:"max_moves_per_game"`
	ConcurrencyLimit int           `yaml:"concurrency_limit"`
	OpeningPDN       string        `yaml:"opening_pdn"`

	TieBreaks  []string `yaml:"tie_breaks"`
	WinPoints  float64  `yaml:"win_points"`
	DrawPoints float64  `yaml:"draw_points"`
	LossPoints float64  `yaml:"loss_points"`
	Seed       int64    `yaml:"seed"`
	Verbose    bool     `yaml:"verbose"`

	RedisURL    string `yaml:"redis_url"`
	DatabaseURL string `yaml:"database_url"`
	StatusAddr  string `yaml:"status_addr"`
	FeedAddr    string `yaml:"feed_addr"`
	OutputDir   string `yaml:"output_dir"`
	TemplateDir string `yaml:"template_dir"`
}

// Default mirrors tournament.DefaultConfig with the built-in bots.
func Default() *AppConfig {
	t := tournament.DefaultConfig()
	cfg := &AppConfig{
		Bots:                    []BotSpec{{Bot: "FirstMover"}, {Bot: "RandomBot"}, {Bot: "GreedyCapture"}},
		Mode:                    string(t.Mode),
		Rounds:                  t.Rounds,
		Doubled:                 t.Doubled,
		BoardSize:               t.Rules.BoardSize,
		MandatoryContinuation:   !t.Rules.OptionalContinuation,
		DrawRepetitionThreshold: t.Rules.RepetitionThreshold,
		DrawInactivityThreshold: t.Rules.InactivityThreshold,
		MoveTimeLimit:           t.MoveTimeLimit,
		MaxMovesPerGame:         t.MaxMovesPerGame,
		ConcurrencyLimit:        t.ConcurrencyLimit,
		WinPoints:               t.WinPoints,
		DrawPoints:              t.DrawPoints,
		LossPoints:              t.LossPoints,
		Seed:                    t.Seed,
	}
	for _, tb := range t.TieBreaks {
		cfg.TieBreaks = append(cfg.TieBreaks, string(tb))
	}
	return cfg
}

// Load starts from Default, applies the YAML file at path (or
// CHECKERS_CONFIG when path is empty), then CHECKERS_* env vars.
func Load(path string) (*AppConfig, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv("CHECKERS_CONFIG"))
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.applyYAML(raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) applyYAML(raw []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *AppConfig) applyEnv() error {
	var errs []error
	if v := env("CHECKERS_BOTS"); v != "" {
		c.Bots = nil
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			spec, err := ParseBotSpec(part)
			if err != nil {
				errs = append(errs, fmt.Errorf("CHECKERS_BOTS: %w", err))
				continue
			}
			c.Bots = append(c.Bots, spec)
		}
	}
	if v := env("CHECKERS_MODE"); v != "" {
		c.Mode = v
	}
	if v := env("CHECKERS_CHALLENGER"); v != "" {
		c.Challenger = v
	}
	if v := env("CHECKERS_OPENING_PDN"); v != "" {
		c.OpeningPDN = v
	}
	if v := env("CHECKERS_TIE_BREAKS"); v != "" {
		c.TieBreaks = splitList(v)
	}

	envInt(&errs, "CHECKERS_ROUNDS", &c.Rounds)
	envInt(&errs, "CHECKERS_BOARD_SIZE", &c.BoardSize)
	envInt(&errs, "CHECKERS_DRAW_REPETITION_THRESHOLD", &c.DrawRepetitionThreshold)
	envInt(&errs, "CHECKERS_DRAW_INACTIVITY_THRESHOLD", &c.DrawInactivityThreshold)
	envInt(&errs, "CHECKERS_MAX_MOVES_PER_GAME", &c.MaxMovesPerGame)
	envInt(&errs, "CHECKERS_CONCURRENCY_LIMIT", &c.ConcurrencyLimit)
	envBool(&errs, "CHECKERS_ROUND_ROBIN_DOUBLED", &c.Doubled)
	envBool(&errs, "CHECKERS_MANDATORY_CONTINUATION", &c.MandatoryContinuation)
	envBool(&errs, "CHECKERS_VERBOSE", &c.Verbose)

	if v := env("CHECKERS_MOVE_TIME_LIMIT"); v != "" {
		if d, err := parseDuration(v); err != nil {
			errs = append(errs, fmt.Errorf("CHECKERS_MOVE_TIME_LIMIT: %w", err))
		} else {
			c.MoveTimeLimit = d
		}
	}
	if v := env("CHECKERS_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err != nil {
			errs = append(errs, fmt.Errorf("CHECKERS_SEED: %w", err))
		} else {
			c.Seed = n
		}
	}

	c.RedisURL = firstNonEmpty(env("CHECKERS_REDIS_URL"), env("REDIS_URL"), c.RedisURL)
	c.DatabaseURL = firstNonEmpty(env("CHECKERS_DATABASE_URL"), env("DATABASE_URL"), c.DatabaseURL)
	c.StatusAddr = firstNonEmpty(env("CHECKERS_STATUS_ADDR"), c.StatusAddr)
	c.FeedAddr = firstNonEmpty(env("CHECKERS_FEED_ADDR"), c.FeedAddr)
	c.OutputDir = firstNonEmpty(env("CHECKERS_OUTPUT_DIR"), c.OutputDir)
	c.TemplateDir = firstNonEmpty(env("CHECKERS_TEMPLATE_DIR"), c.TemplateDir)

	return errors.Join(errs...)
}

// Validate checks what can be checked without the bot registry.
func (c *AppConfig) Validate() error {
	if len(c.Bots) < 2 {
		return errors.New("at least 2 bots are required")
	}
	for i, b := range c.Bots {
		if strings.TrimSpace(b.Bot) == "" {
			return fmt.Errorf("bots[%d]: bot name is required", i)
		}
	}
	_, err := c.Tournament()
	return err
}

// Roster returns the bot specs with IDs filled in. A spec without an ID
// takes its bot name, suffixed with -1, -2 ... when the name repeats.
func (c *AppConfig) Roster() []BotSpec {
	count := make(map[string]int)
	for _, b := range c.Bots {
		if b.ID == "" {
			count[b.Bot]++
		}
	}
	seen := make(map[string]int)
	out := make([]BotSpec, 0, len(c.Bots))
	for _, b := range c.Bots {
		if b.ID == "" {
			b.ID = b.Bot
			if count[b.Bot] > 1 {
				seen[b.Bot]++
				b.ID = fmt.Sprintf("%s-%d", b.Bot, seen[b.Bot])
			}
		}
		out = append(out, b)
	}
	return out
}

// Tournament converts the settings and validates them against the roster IDs.
func (c *AppConfig) Tournament() (tournament.Config, error) {
	t := tournament.Config{
		Rules: checkers.Rules{
			BoardSize:            c.BoardSize,
			OptionalContinuation: !c.MandatoryContinuation,
			InactivityThreshold:  c.DrawInactivityThreshold,
			RepetitionThreshold:  c.DrawRepetitionThreshold,
		},
		Doubled:          c.Doubled,
		Rounds:           c.Rounds,
		Mode:             tournament.Mode(strings.ToLower(strings.TrimSpace(c.Mode))),
		Challenger:       c.Challenger,
		MoveTimeLimit:    c.MoveTimeLimit,
		MaxMovesPerGame:  c.MaxMovesPerGame,
		ConcurrencyLimit: c.ConcurrencyLimit,
		OpeningPDN:       c.OpeningPDN,
		WinPoints:        c.WinPoints,
		DrawPoints:       c.DrawPoints,
		LossPoints:       c.LossPoints,
		Seed:             c.Seed,
		Verbose:          c.Verbose,
	}
	for _, s := range c.TieBreaks {
		tb, err := tournament.ParseTieBreak(s)
		if err != nil {
			return tournament.Config{}, err
		}
		t.TieBreaks = append(t.TieBreaks, tb)
	}
	roster := c.Roster()
	ids := make([]string, len(roster))
	for i, b := range roster {
		ids[i] = b.ID
	}
	if err := t.Validate(ids); err != nil {
		return tournament.Config{}, err
	}
	return t, nil
}

func env(k string) string { return strings.TrimSpace(os.Getenv(k)) }

func envInt(errs *[]error, key string, dst *int) {
	v := env(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = n
}

func envBool(errs *[]error, key string, dst *bool) {
	v := env(key)
	if v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = b
}

// parseDuration accepts Go durations ("1500ms") or bare milliseconds.
func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
