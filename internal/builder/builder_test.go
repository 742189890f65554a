package builder

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/park285/checkers-bot-tournament/internal/bot"
	"github.com/park285/checkers-bot-tournament/internal/config"
	"github.com/park285/checkers-bot-tournament/internal/store"
)

func smallConfig() *config.AppConfig {
	cfg := config.Default()
	cfg.Bots = []config.BotSpec{{Bot: "FirstMover"}, {Bot: "GreedyCapture"}, {ID: "r", Bot: "RandomBot"}}
	cfg.BoardSize = 6
	cfg.MoveTimeLimit = time.Second
	return cfg
}

func TestNewWiresRedisAndMemory(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	cfg := smallConfig()
	cfg.RedisURL = "redis://" + mr.Addr() + "/0"
	ctx := context.Background()

	d, err := New(ctx, cfg, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()
	if d.Redis == nil || d.Postgres != nil {
		t.Fatalf("unexpected stores: redis=%v postgres=%v", d.Redis, d.Postgres)
	}

	st, results, err := d.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 || st.Games != 3 {
		t.Fatalf("games = %d/%d", len(results), st.Games)
	}

	p, err := d.Redis.GetProgress(ctx, st.RunID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if p.Done != 3 || p.Total != 3 || p.Status != store.StatusFinished {
		t.Fatalf("progress = %+v", p)
	}
	mem, err := d.Memory.GetMatches(ctx, st.RunID)
	if err != nil || len(mem) != 3 {
		t.Fatalf("memory matches = %d, %v", len(mem), err)
	}
	if got := d.Tracker.Standings(); !got.Final || len(got.Entries) != 3 {
		t.Fatalf("tracker standings = %+v", got)
	}
}

func TestNewRejectsUnknownBot(t *testing.T) {
	cfg := smallConfig()
	cfg.Bots = append(cfg.Bots, config.BotSpec{Bot: "Stockfish"})
	if _, err := New(context.Background(), cfg, nil, nil); !errors.Is(err, bot.ErrUnknownBot) {
		t.Fatalf("expected ErrUnknownBot, got %v", err)
	}
}

func TestNewFailsOnUnreachableRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()

	cfg := smallConfig()
	cfg.RedisURL = "redis://" + addr
	if _, err := New(context.Background(), cfg, nil, nil); err == nil {
		t.Fatalf("expected redis ping error")
	}
}
