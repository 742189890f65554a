package match

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/bot"
	"github.com/park285/checkers-bot-tournament/internal/checkers"
)

type scriptBot struct {
	name string
	fn   func(ctx context.Context, req bot.Request) (checkers.Move, error)
}

func (b scriptBot) Name() string { return b.name }

func (b scriptBot) ChooseMove(ctx context.Context, req bot.Request) (checkers.Move, error) {
	return b.fn(ctx, req)
}

func smallConfig() Config {
	r := checkers.DefaultRules()
	r.BoardSize = 6
	return Config{Rules: r, MoveTimeLimit: time.Second, MaxMoves: 200}
}

func firstVsFirst() Pairing {
	return Pairing{
		GameID: 1,
		White:  Player{ID: "alpha", Bot: bot.FirstMover{}},
		Black:  Player{ID: "beta", Bot: bot.FirstMover{}},
	}
}

func TestFirstMoverGame(t *testing.T) {
	res, err := NewRunner(smallConfig(), nil).Play(context.Background(), firstVsFirst())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Outcome != checkers.WhiteWins || res.Reason != checkers.ReasonNoLegalMoves {
		t.Fatalf("got %s/%s", res.Outcome, res.Reason)
	}
	if res.Moves != 37 || len(res.History) != 37 {
		t.Fatalf("moves=%d history=%d, want 37", res.Moves, len(res.History))
	}
	if res.Winner() != "alpha" || res.Forfeit() {
		t.Fatalf("winner=%q forfeit=%v", res.Winner(), res.Forfeit())
	}
	if (res.WhiteStats != SideStats{KingsMade: 1, Captures: 5}) {
		t.Fatalf("white stats %+v", res.WhiteStats)
	}
	if (res.BlackStats != SideStats{KingsMade: 1, Captures: 4}) {
		t.Fatalf("black stats %+v", res.BlackStats)
	}
	if res.PDN == "" || res.PDN[:3] != "1. " {
		t.Fatalf("unexpected PDN %q", res.PDN)
	}
}

func TestGameLifecycle(t *testing.T) {
	g, err := NewGame(firstVsFirst(), smallConfig(), nil, nil)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	ctx := context.Background()
	if g.Status() != NotStarted {
		t.Fatalf("status %s", g.Status())
	}
	if err := g.Step(ctx); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if g.Status() != InProgress || g.State().Ply() != 0 {
		t.Fatalf("after start: %s ply %d", g.Status(), g.State().Ply())
	}
	if err := g.Step(ctx); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if g.State().Ply() != 1 || g.Result() != nil {
		t.Fatalf("after one ply: ply %d result %v", g.State().Ply(), g.Result())
	}
	res, err := g.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.Status() != Finished || res != g.Result() {
		t.Fatalf("not finished")
	}
	if err := g.Step(ctx); !errors.Is(err, ErrGameFinished) {
		t.Fatalf("expected ErrGameFinished, got %v", err)
	}
}

func TestMoveLimitDraw(t *testing.T) {
	cfg := smallConfig()
	cfg.MaxMoves = 10
	res, err := NewRunner(cfg, nil).Play(context.Background(), firstVsFirst())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Outcome != checkers.Draw || res.Reason != ReasonMoveLimit || res.Moves != 10 {
		t.Fatalf("got %s/%s after %d", res.Outcome, res.Reason, res.Moves)
	}
}

func TestOpeningCountsTowardsGame(t *testing.T) {
	cfg := smallConfig()
	cfg.OpeningPDN = "1. 13-10"
	g, err := NewGame(firstVsFirst(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if g.State().Ply() != 1 || g.State().Turn() != checkers.Black {
		t.Fatalf("opening not applied: ply %d turn %s", g.State().Ply(), g.State().Turn())
	}
	res, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.OpeningPlies != 1 || res.Moves != 37 || res.Outcome != checkers.WhiteWins {
		t.Fatalf("got opening=%d moves=%d %s", res.OpeningPlies, res.Moves, res.Outcome)
	}

	cfg.OpeningPDN = "1. 13-7"
	if _, err := NewGame(firstVsFirst(), cfg, nil, nil); !errors.Is(err, checkers.ErrIllegalMove) {
		t.Fatalf("expected illegal opening, got %v", err)
	}
}

func TestInvalidMoveForfeits(t *testing.T) {
	p := firstVsFirst()
	p.Black = Player{ID: "cheat", Bot: scriptBot{name: "cheat", fn: func(_ context.Context, req bot.Request) (checkers.Move, error) {
		m := req.Legal[0]
		m.Path = []checkers.Position{checkers.Pos(5, 0)}
		return m, nil
	}}}
	res, err := NewRunner(smallConfig(), nil).Play(context.Background(), p)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Outcome != checkers.WhiteWins || res.Reason != ReasonInvalidResponse {
		t.Fatalf("got %s/%s", res.Outcome, res.Reason)
	}
	if res.FailedBot != "cheat" || res.Error == "" || res.Moves != 1 {
		t.Fatalf("failed=%q err=%q moves=%d", res.FailedBot, res.Error, res.Moves)
	}
}

func TestTimeoutForfeits(t *testing.T) {
	cfg := smallConfig()
	cfg.MoveTimeLimit = 20 * time.Millisecond
	p := firstVsFirst()
	p.White = Player{ID: "slow", Bot: scriptBot{name: "slow", fn: func(ctx context.Context, _ bot.Request) (checkers.Move, error) {
		<-ctx.Done()
		return checkers.Move{}, ctx.Err()
	}}}
	res, err := NewRunner(cfg, nil).Play(context.Background(), p)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Outcome != checkers.BlackWins || res.Reason != ReasonTimeout || res.FailedBot != "slow" {
		t.Fatalf("got %s/%s failed=%q", res.Outcome, res.Reason, res.FailedBot)
	}
}

func TestResignation(t *testing.T) {
	p := firstVsFirst()
	p.White = Player{ID: "quitter", Bot: scriptBot{name: "quitter", fn: func(context.Context, bot.Request) (checkers.Move, error) {
		return checkers.Move{}, bot.ErrResign
	}}}
	res, err := NewRunner(smallConfig(), nil).Play(context.Background(), p)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Outcome != checkers.BlackWins || res.Reason != ReasonResignation || res.Moves != 0 {
		t.Fatalf("got %s/%s after %d", res.Outcome, res.Reason, res.Moves)
	}
}

func TestCancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := firstVsFirst()
	p.White = Player{ID: "waiter", Bot: scriptBot{name: "waiter", fn: func(ctx context.Context, _ bot.Request) (checkers.Move, error) {
		<-ctx.Done()
		return checkers.Move{}, ctx.Err()
	}}}
	if _, err := NewRunner(smallConfig(), nil).Play(ctx, p); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSeededGamesRepeat(t *testing.T) {
	play := func() *Result {
		p := Pairing{
			GameID: 3,
			White:  Player{ID: "r1", Bot: bot.NewRandomBot(7)},
			Black:  Player{ID: "r2", Bot: bot.NewRandomBot(11)},
		}
		cfg := smallConfig()
		cfg.Rules.BoardSize = 8
		res, err := NewRunner(cfg, nil).Play(context.Background(), p)
		if err != nil {
			t.Fatalf("Play: %v", err)
		}
		return res
	}
	a, b := play(), play()
	if a.PDN != b.PDN || a.Outcome != b.Outcome || a.Reason != b.Reason {
		t.Fatalf("seeded games diverged:\n%s\n%s", a.PDN, b.PDN)
	}
}

func TestTraceRecordsEveryPly(t *testing.T) {
	cfg := smallConfig()
	cfg.OpeningPDN = "1. 13-10"
	res, err := NewRunner(cfg, nil).Play(context.Background(), firstVsFirst())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Trace != nil {
		t.Fatalf("trace recorded without Config.Trace")
	}

	cfg.Trace = true
	res, err = NewRunner(cfg, nil).Play(context.Background(), firstVsFirst())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if len(res.Trace) != res.Moves {
		t.Fatalf("trace has %d plies, game %d", len(res.Trace), res.Moves)
	}
	first := res.Trace[0]
	if !first.Book || first.From != 13 || first.To != 10 || first.Side != checkers.White || first.Ply != 1 {
		t.Fatalf("opening ply %+v", first)
	}
	for i, p := range res.Trace[1:] {
		if p.Book || p.Ply != i+2 {
			t.Fatalf("ply %d: %+v", i+2, p)
		}
		if p.Side != res.Trace[i].Side.Opposite() {
			t.Fatalf("ply %d side %s", p.Ply, p.Side)
		}
	}
	last := res.Trace[len(res.Trace)-1]
	if last.From != checkers.Square(res.History[len(res.History)-1].From, 6) || last.Board == "" {
		t.Fatalf("last ply %+v", last)
	}
}
