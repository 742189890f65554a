package checkers

import "fmt"

// GameState is an immutable snapshot of a game. Accessors hand out copies,
// so a state can be shared with bots without exposing engine-owned data.
type GameState struct {
	board   Board
	turn    Colour
	history []Move
	clock   int
	hash    uint64
	hashes  []uint64
}

// NewGame returns the starting position for rules, white to move.
func NewGame(r Rules) (GameState, error) {
	if err := r.Validate(); err != nil {
		return GameState{}, err
	}
	b, err := NewBoard(r.BoardSize)
	if err != nil {
		return GameState{}, err
	}
	return NewGameFromBoard(b, White)
}

// NewGameFromBoard starts a game from an arbitrary setup.
func NewGameFromBoard(b Board, turn Colour) (GameState, error) {
	if b.size == 0 {
		return GameState{}, fmt.Errorf("%w: empty board", ErrInvalidRules)
	}
	if turn != White && turn != Black {
		return GameState{}, fmt.Errorf("%w: invalid side to move", ErrInvalidRules)
	}
	h := Hash(b, turn)
	return GameState{
		board:  b.clone(),
		turn:   turn,
		hash:   h,
		hashes: []uint64{h},
	}, nil
}

func (s GameState) Board() Board { return s.board }

func (s GameState) Turn() Colour { return s.turn }

// Ply is the number of moves played.
func (s GameState) Ply() int { return len(s.history) }

// HalfMoveClock counts plies since the last capture or man move.
func (s GameState) HalfMoveClock() int { return s.clock }

func (s GameState) Hash() uint64 { return s.hash }

// History returns a copy of the moves played so far.
func (s GameState) History() []Move { return CloneMoves(s.history) }

// LastMove returns the most recent move.
func (s GameState) LastMove() (Move, bool) {
	if len(s.history) == 0 {
		return Move{}, false
	}
	return s.history[len(s.history)-1].Clone(), true
}

// Repetitions counts how often the current position has occurred.
func (s GameState) Repetitions() int {
	n := 0
	for _, h := range s.hashes {
		if h == s.hash {
			n++
		}
	}
	return n
}
