package bot

import (
	"context"
	"errors"
	"math/rand"

	"github.com/park285/checkers-bot-tournament/internal/checkers"
)

var errNoMoves = errors.New("no legal moves offered")

// FirstMover always plays the first legal move.
type FirstMover struct{}

func (FirstMover) Name() string { return "FirstMover" }

func (FirstMover) ChooseMove(ctx context.Context, req Request) (checkers.Move, error) {
	if len(req.Legal) == 0 {
		return checkers.Move{}, errNoMoves
	}
	return req.Legal[0], nil
}

// RandomBot picks uniformly from the legal moves. Seeded, so a given seed
// always yields the same game against a deterministic opponent.
type RandomBot struct {
	rng *rand.Rand
}

func NewRandomBot(seed int64) *RandomBot {
	return &RandomBot{rng: rand.New(rand.NewSource(seed))}
}

func (*RandomBot) Name() string { return "RandomBot" }

func (b *RandomBot) ChooseMove(ctx context.Context, req Request) (checkers.Move, error) {
	if len(req.Legal) == 0 {
		return checkers.Move{}, errNoMoves
	}
	return req.Legal[b.rng.Intn(len(req.Legal))], nil
}

// GreedyCapture prefers the move that captures the most pieces, then one
// that crowns, then the first.
type GreedyCapture struct{}

func (GreedyCapture) Name() string { return "GreedyCapture" }

func (GreedyCapture) ChooseMove(ctx context.Context, req Request) (checkers.Move, error) {
	if len(req.Legal) == 0 {
		return checkers.Move{}, errNoMoves
	}
	board := req.State.Board()
	best, bestScore := 0, -1
	for i, m := range req.Legal {
		score := 2 * len(m.Captured)
		pc := board.At(m.From)
		if pc.IsMan() && m.To().Row == board.PromotionRow(pc.Colour()) {
			score++
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return req.Legal[best], nil
}
