package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CHECKERS_CONFIG", "")
	t.Setenv("CHECKERS_LOG_CONSOLE", "false")
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(args)
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	return out.String(), err
}

func TestBotsCommand(t *testing.T) {
	out, err := execute(t, "bots")
	if err != nil {
		t.Fatalf("bots: %v", err)
	}
	if out != "FirstMover\nGreedyCapture\nRandomBot\n" {
		t.Fatalf("bots output = %q", out)
	}
}

func TestRunWritesReports(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "run", "--bots", "FirstMover,GreedyCapture", "--board-size", "6", "--doubled", "--output-dir", dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Count(out, "Game ID:") != 2 || !strings.Contains(out, "Game Statistics") {
		t.Fatalf("stdout = %s", out)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "checkers_game_results_*", "game_result_stats.txt"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("stats file = %v, %v", matches, err)
	}
	body, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "Bot Name: FirstMover") || !strings.Contains(string(body), "Bot Name: GreedyCapture") {
		t.Fatalf("stats = %s", body)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	if _, err := execute(t, "--bots", "FirstMover", "--quiet"); err == nil {
		t.Fatalf("expected error for a single bot")
	}
	if _, err := execute(t, "run", "--bots", "FirstMover,Nobody", "--quiet"); err == nil {
		t.Fatalf("expected error for an unknown bot")
	}
}

func TestStatusReadsStoredRun(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	t.Setenv("REDIS_URL", "")
	t.Setenv("CHECKERS_DATABASE_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CHECKERS_REDIS_URL", "redis://"+mr.Addr())
	if _, err := execute(t, "run", "--bots", "FirstMover,GreedyCapture", "--board-size", "6", "--quiet"); err != nil {
		t.Fatalf("run: %v", err)
	}

	var runID string
	for _, k := range mr.Keys() {
		if rest, ok := strings.CutPrefix(k, "tourney:"); ok && !strings.Contains(rest, ":") {
			runID = rest
		}
	}
	if runID == "" {
		t.Fatalf("no run stored, keys %v", mr.Keys())
	}

	t.Setenv("CHECKERS_REDIS_URL", "")
	out, err := execute(t, "status", "--run", runID, "--redis-url", "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "run "+runID+": finished, 1/1 games") || !strings.Contains(out, "game 1 GreedyCapture vs FirstMover") {
		t.Fatalf("status output = %s", out)
	}
	if strings.Count(out, "elo") != 2 {
		t.Fatalf("standings missing: %s", out)
	}

	if _, err := execute(t, "status", "--run", "nope", "--redis-url", "redis://"+mr.Addr()); err == nil {
		t.Fatalf("expected an error for an unknown run")
	}
}

func TestRunVerboseWritesTrace(t *testing.T) {
	dir := t.TempDir()
	if _, err := execute(t, "run", "--bots", "FirstMover,GreedyCapture", "--board-size", "6", "--verbose", "--quiet", "--output-dir", dir); err != nil {
		t.Fatalf("run: %v", err)
	}
	matches, err := filepath.Glob(filepath.Join(dir, "checkers_game_results_*", "game_1.txt"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("game file = %v, %v", matches, err)
	}
	body, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "Trace:\n\nMove 1: white's turn\nMoved from ") {
		t.Fatalf("game file = %s", body)
	}
}
