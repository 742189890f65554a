package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/park285/checkers-bot-tournament/internal/domain"
)

func fillRun(t *testing.T, rec Recorder, runID string) {
	t.Helper()
	ctx := context.Background()
	if err := rec.StartRun(ctx, sampleRun(runID)); err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	at := time.Date(2026, 1, 2, 3, 30, 0, 0, time.UTC)
	for _, m := range []*domain.MatchRecord{
		{RunID: runID, GameID: 2, Round: 1, White: "b", Black: "a", Result: "white", Reason: "no_legal_moves", Moves: 40, PDN: "1. 9-13", RecordedAt: at},
		{RunID: runID, GameID: 1, Round: 1, White: "a", Black: "b", Result: "black", Reason: "invalid_response", FailedBot: "a", Error: "bad move", RecordedAt: at},
	} {
		if err := rec.RecordMatch(ctx, m); err != nil {
			t.Fatalf("RecordMatch: %v", err)
		}
	}
	finished := at.Add(time.Minute)
	rows := []*domain.StandingRecord{
		{RunID: runID, Rank: 1, BotID: "b", Score: 2, Played: 2, Wins: 2, Rating: 1216, UpdatedAt: finished},
		{RunID: runID, Rank: 2, BotID: "a", Score: 0, Played: 2, Losses: 2, Forfeits: 1, Rating: 1184, UpdatedAt: finished},
	}
	if err := rec.RecordStandings(ctx, runID, rows); err != nil {
		t.Fatalf("RecordStandings: %v", err)
	}
}

func checkReport(t *testing.T, r Reader, runID string) {
	t.Helper()
	rep, err := LoadRun(context.Background(), r, runID)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if rep.Run.ID != runID || rep.Run.Games != 2 || !rep.Finished() {
		t.Fatalf("run %+v", rep.Run)
	}
	if len(rep.Matches) != 2 || rep.Matches[0].GameID != 1 || rep.Matches[0].FailedBot != "a" || rep.Matches[1].PDN != "1. 9-13" {
		t.Fatalf("matches %+v", rep.Matches)
	}
	if len(rep.Standings) != 2 || rep.Standings[0].BotID != "b" || rep.Standings[1].Forfeits != 1 {
		t.Fatalf("standings %+v", rep.Standings)
	}
	if _, err := LoadRun(context.Background(), r, "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestLoadRunFromMemory(t *testing.T) {
	repo := NewMemoryRepository()
	fillRun(t, repo, "r1")
	checkReport(t, repo, "r1")
}

func TestOpenReaderRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	rd, err := OpenReader(context.Background(), "redis://"+mr.Addr(), "")
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer rd.Close()
	fillRun(t, rd.(*RedisStore), "r1")
	checkReport(t, rd, "r1")
}

func TestOpenReaderNeedsURL(t *testing.T) {
	if _, err := OpenReader(context.Background(), " ", ""); err == nil {
		t.Fatalf("expected an error without urls")
	}
}

// Runs against a real server when CHECKERS_TEST_DATABASE_URL is set.
func TestPostgresRepositoryRoundTrip(t *testing.T) {
	url := os.Getenv("CHECKERS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CHECKERS_TEST_DATABASE_URL not set")
	}
	rd, err := OpenReader(context.Background(), "", url)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer rd.Close()
	pg := rd.(*PostgresRepository)
	ctx := context.Background()
	if err := pg.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	runID := "test-" + time.Now().UTC().Format("20060102150405.000000000")
	t.Cleanup(func() {
		_, _ = pg.db.ExecContext(context.Background(), `DELETE FROM tournament_runs WHERE run_id = $1`, runID)
	})
	fillRun(t, pg, runID)
	checkReport(t, pg, runID)
}
