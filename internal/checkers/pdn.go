package checkers

import (
	"fmt"
	"strconv"
	"strings"
)

// Square returns the PDN square number of p (1-based, dark cells row-major).
func Square(p Position, size int) int {
	return p.Row*(size/2) + p.Col/2 + 1
}

// SquarePosition converts a PDN square number back to a position.
func SquarePosition(square, size int) (Position, error) {
	half := size / 2
	if square < 1 || square > half*size {
		return Position{}, fmt.Errorf("%w: square %d out of range", ErrPDN, square)
	}
	row := (square - 1) / half
	col := ((square - 1) % half) * 2
	if row%2 == 0 {
		col++
	}
	return Pos(row, col), nil
}

// FormatMove renders m as "11-15" or "22x15x6".
func FormatMove(m Move, size int) string {
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	parts := make([]string, 0, len(m.Path)+1)
	parts = append(parts, strconv.Itoa(Square(m.From, size)))
	for _, p := range m.Path {
		parts = append(parts, strconv.Itoa(Square(p, size)))
	}
	return strings.Join(parts, sep)
}

// FormatPDN renders numbered move text: "1. 22-18 11-15 2. ...".
func FormatPDN(moves []Move, size int) string {
	var b strings.Builder
	for i, m := range moves {
		if i%2 == 0 {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(i/2 + 1))
			b.WriteString(". ")
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(FormatMove(m, size))
	}
	return b.String()
}

type moveText struct {
	squares []int
	capture bool
}

func parseMoveText(tok string) (moveText, error) {
	sep := "-"
	capture := false
	if strings.Contains(tok, "x") {
		sep = "x"
		capture = true
	}
	fields := strings.Split(tok, sep)
	if len(fields) < 2 {
		return moveText{}, fmt.Errorf("%w: move %q", ErrPDN, tok)
	}
	mt := moveText{capture: capture}
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return moveText{}, fmt.Errorf("%w: move %q: %v", ErrPDN, tok, err)
		}
		mt.squares = append(mt.squares, n)
	}
	return mt, nil
}

func skipToken(tok string) bool {
	switch tok {
	case "", "*", "1-0", "0-1", "2-0", "0-2", "1/2-1/2", "1-1":
		return true
	}
	return strings.HasSuffix(tok, ".")
}

// ResolveMove finds the legal move described by a PDN token. A capture may
// list only its start and end square as long as that is unambiguous.
func (r Rules) ResolveMove(s GameState, tok string) (Move, error) {
	mt, err := parseMoveText(tok)
	if err != nil {
		return Move{}, err
	}
	size := s.board.size
	var match []Move
	for _, m := range r.LegalMoves(s) {
		if m.IsCapture() != mt.capture || Square(m.From, size) != mt.squares[0] {
			continue
		}
		if Square(m.To(), size) != mt.squares[len(mt.squares)-1] {
			continue
		}
		if len(mt.squares) > 2 {
			if len(mt.squares) != len(m.Path)+1 {
				continue
			}
			ok := true
			for i, p := range m.Path {
				if Square(p, size) != mt.squares[i+1] {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		match = append(match, m)
	}
	switch len(match) {
	case 0:
		return Move{}, &IllegalMoveError{Turn: s.turn, Ply: s.Ply()}
	case 1:
		return match[0], nil
	default:
		return Move{}, fmt.Errorf("%w: move %q is ambiguous", ErrPDN, tok)
	}
}

// ParsePDN replays move text on top of s. When s has no history the first
// move may belong to either side; the side to move is switched to fit it.
func (r Rules) ParsePDN(s GameState, text string) (GameState, []Move, error) {
	var played []Move
	for _, tok := range strings.Fields(text) {
		if skipToken(tok) {
			continue
		}
		m, err := r.ResolveMove(s, tok)
		if err != nil && len(played) == 0 && s.Ply() == 0 {
			flipped, ferr := NewGameFromBoard(s.board, s.turn.Opposite())
			if ferr != nil {
				return GameState{}, nil, ferr
			}
			if fm, ferr := r.ResolveMove(flipped, tok); ferr == nil {
				s, m, err = flipped, fm, nil
			}
		}
		if err != nil {
			return GameState{}, nil, fmt.Errorf("pdn move %d %q: %w", len(played)+1, tok, err)
		}
		next, err := r.ApplyMove(s, m)
		if err != nil {
			return GameState{}, nil, err
		}
		s = next
		played = append(played, m)
	}
	if len(r.LegalMoves(s)) == 0 {
		return GameState{}, nil, fmt.Errorf("%w: game already decided after opening", ErrPDN)
	}
	return s, played, nil
}
