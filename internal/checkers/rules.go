package checkers

import "fmt"

const (
	DefaultInactivityThreshold = 80
	DefaultRepetitionThreshold = 3
)

// Rules is the ruleset variant. The zero value is not usable; start from
// DefaultRules.
type Rules struct {
	BoardSize int
	// OptionalContinuation lets a capture chain stop at any landing square.
	// By default a capture must keep jumping while it can.
	OptionalContinuation bool
	// InactivityThreshold is the half-move clock value that ends the game in
	// a draw. Zero disables the rule.
	InactivityThreshold int
	// RepetitionThreshold is the number of occurrences of one position that
	// ends the game in a draw. Zero disables the rule.
	RepetitionThreshold int
}

func DefaultRules() Rules {
	return Rules{
		BoardSize:           DefaultBoardSize,
		InactivityThreshold: DefaultInactivityThreshold,
		RepetitionThreshold: DefaultRepetitionThreshold,
	}
}

func (r Rules) Validate() error {
	if err := ValidateSize(r.BoardSize); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	if r.InactivityThreshold < 0 {
		return fmt.Errorf("%w: inactivity threshold %d < 0", ErrInvalidRules, r.InactivityThreshold)
	}
	if r.RepetitionThreshold < 0 || r.RepetitionThreshold == 1 {
		return fmt.Errorf("%w: repetition threshold %d must be 0 or >= 2", ErrInvalidRules, r.RepetitionThreshold)
	}
	return nil
}

// Result is the decided result of a game.
type Result uint8

const (
	Undecided Result = iota
	WhiteWins
	BlackWins
	Draw
)

func (r Result) String() string {
	switch r {
	case WhiteWins:
		return "white"
	case BlackWins:
		return "black"
	case Draw:
		return "draw"
	default:
		return "undecided"
	}
}

// WinFor returns the result in which c wins.
func WinFor(c Colour) Result {
	if c == White {
		return WhiteWins
	}
	return BlackWins
}

// Reason explains why a game ended.
type Reason string

const (
	ReasonNoLegalMoves Reason = "no_legal_moves"
	ReasonInactivity   Reason = "inactivity_draw"
	ReasonRepetition   Reason = "repetition_draw"
)

// Outcome is a terminal verdict.
type Outcome struct {
	Result Result
	Reason Reason
}

// Winner returns the winning colour, or 0 for a draw.
func (o Outcome) Winner() Colour {
	switch o.Result {
	case WhiteWins:
		return White
	case BlackWins:
		return Black
	default:
		return 0
	}
}

// LegalMoves returns every legal move for the side to move, in board order
// (rows, then columns, then NW, NE, SW, SE). Captures are forced.
func (r Rules) LegalMoves(s GameState) []Move {
	b := s.board
	var captures, steps []Move
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size; col++ {
			p := Pos(row, col)
			pc := b.At(p)
			if pc == Empty || pc.Colour() != s.turn {
				continue
			}
			captures = append(captures, r.captureMoves(b, p, pc)...)
			if len(captures) == 0 {
				steps = append(steps, stepMoves(b, p, pc)...)
			}
		}
	}
	if len(captures) > 0 {
		return captures
	}
	return steps
}

func stepMoves(b Board, from Position, pc Piece) []Move {
	var out []Move
	for _, d := range directions {
		if pc.IsMan() && !d.forward(pc.Colour()) {
			continue
		}
		to := from.add(d)
		if b.InBounds(to) && b.At(to) == Empty {
			out = append(out, Move{From: from, Path: []Position{to}})
		}
	}
	return out
}

// captureMoves walks every jump chain of the piece on from. Jumped pieces stay
// on the board until the move completes, so they block landings and cannot be
// jumped twice. The origin counts as empty once the piece has left it.
func (r Rules) captureMoves(b Board, from Position, pc Piece) []Move {
	var out []Move
	var walk func(cur Position, path, captured []Position)
	walk = func(cur Position, path, captured []Position) {
		extended := false
		for _, d := range directions {
			if pc.IsMan() && !d.forward(pc.Colour()) {
				continue
			}
			over := cur.add(d)
			land := over.add(d)
			if !b.InBounds(land) {
				continue
			}
			victim := b.At(over)
			if victim == Empty || victim.Colour() == pc.Colour() || containsPos(captured, over) {
				continue
			}
			if b.At(land) != Empty && land != from {
				continue
			}
			extended = true
			nextPath := appendPos(path, land)
			nextCaptured := appendPos(captured, over)
			if pc.IsMan() && land.Row == b.PromotionRow(pc.Colour()) {
				out = append(out, Move{From: from, Path: nextPath, Captured: nextCaptured})
				continue
			}
			if r.OptionalContinuation {
				out = append(out, Move{From: from, Path: nextPath, Captured: nextCaptured})
			}
			walk(land, nextPath, nextCaptured)
		}
		if !extended && len(path) > 0 && !r.OptionalContinuation {
			out = append(out, Move{From: from, Path: path, Captured: captured})
		}
	}
	walk(from, nil, nil)
	return out
}

func appendPos(list []Position, p Position) []Position {
	out := make([]Position, len(list), len(list)+1)
	copy(out, list)
	return append(out, p)
}

func containsPos(list []Position, p Position) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}

// ApplyMove returns the state after m. m must be a member of LegalMoves(s).
func (r Rules) ApplyMove(s GameState, m Move) (GameState, error) {
	legal := r.LegalMoves(s)
	if !ContainsMove(legal, m) {
		return GameState{}, &IllegalMoveError{Move: m.Clone(), Turn: s.turn, Ply: s.Ply()}
	}

	b := s.board.clone()
	pc := b.At(m.From)
	h := s.hash

	fromIdx := b.index(m.From)
	b.cells[fromIdx] = Empty
	h ^= pieceKey(pc, fromIdx)
	for _, c := range m.Captured {
		idx := b.index(c)
		h ^= pieceKey(b.cells[idx], idx)
		b.cells[idx] = Empty
	}
	to := m.To()
	placed := pc
	if pc.IsMan() && to.Row == b.PromotionRow(pc.Colour()) {
		placed = pc.Crowned()
	}
	toIdx := b.index(to)
	b.cells[toIdx] = placed
	h ^= pieceKey(placed, toIdx)
	h ^= sideKey

	clock := s.clock + 1
	if m.IsCapture() || pc.IsMan() {
		clock = 0
	}

	history := make([]Move, len(s.history), len(s.history)+1)
	copy(history, s.history)
	hashes := make([]uint64, len(s.hashes), len(s.hashes)+1)
	copy(hashes, s.hashes)

	return GameState{
		board:   b,
		turn:    s.turn.Opposite(),
		history: append(history, m.Clone()),
		clock:   clock,
		hash:    h,
		hashes:  append(hashes, h),
	}, nil
}

// IsTerminal reports the outcome if the game is over.
func (r Rules) IsTerminal(s GameState) (Outcome, bool) {
	if len(r.LegalMoves(s)) == 0 {
		return Outcome{Result: WinFor(s.turn.Opposite()), Reason: ReasonNoLegalMoves}, true
	}
	if r.InactivityThreshold > 0 && s.clock >= r.InactivityThreshold {
		return Outcome{Result: Draw, Reason: ReasonInactivity}, true
	}
	if r.RepetitionThreshold > 0 && s.Repetitions() >= r.RepetitionThreshold {
		return Outcome{Result: Draw, Reason: ReasonRepetition}, true
	}
	return Outcome{}, false
}

// Promoted reports whether m crowns a man on s.
func (r Rules) Promoted(s GameState, m Move) bool {
	pc := s.board.At(m.From)
	return pc.IsMan() && m.To().Row == s.board.PromotionRow(pc.Colour())
}
