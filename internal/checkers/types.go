package checkers

import (
	"fmt"
	"strings"
)

// Colour identifies a side. White is the light side and moves first.
type Colour uint8

const (
	White Colour = iota + 1
	Black
)

func (c Colour) Opposite() Colour {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return 0
	}
}

func (c Colour) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// ParseColour accepts "white"/"w" and "black"/"b".
func ParseColour(s string) (Colour, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	default:
		return 0, fmt.Errorf("unknown colour %q", s)
	}
}

// Piece is the content of a board cell.
type Piece uint8

const (
	Empty Piece = iota
	WhiteMan
	WhiteKing
	BlackMan
	BlackKing
)

func (p Piece) Colour() Colour {
	switch p {
	case WhiteMan, WhiteKing:
		return White
	case BlackMan, BlackKing:
		return Black
	default:
		return 0
	}
}

func (p Piece) IsKing() bool { return p == WhiteKing || p == BlackKing }

func (p Piece) IsMan() bool { return p == WhiteMan || p == BlackMan }

// Crowned returns the king of the same colour.
func (p Piece) Crowned() Piece {
	switch p {
	case WhiteMan:
		return WhiteKing
	case BlackMan:
		return BlackKing
	default:
		return p
	}
}

func (p Piece) Rune() rune {
	switch p {
	case WhiteMan:
		return 'w'
	case WhiteKing:
		return 'W'
	case BlackMan:
		return 'b'
	case BlackKing:
		return 'B'
	default:
		return '.'
	}
}

// Position is a cell coordinate; row 0 is black's back rank.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func Pos(row, col int) Position { return Position{Row: row, Col: col} }

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

func (p Position) add(d direction) Position { return Position{Row: p.Row + d.dr, Col: p.Col + d.dc} }

// Move is a simple step (one landing, no captures) or a chain of jumps with
// one captured piece per landing.
type Move struct {
	From     Position   `json:"from"`
	Path     []Position `json:"path"`
	Captured []Position `json:"captured,omitempty"`
}

// To returns the final landing square.
func (m Move) To() Position {
	if len(m.Path) == 0 {
		return m.From
	}
	return m.Path[len(m.Path)-1]
}

func (m Move) IsCapture() bool { return len(m.Captured) > 0 }

// Equal compares moves by value.
func (m Move) Equal(o Move) bool {
	if m.From != o.From || len(m.Path) != len(o.Path) || len(m.Captured) != len(o.Captured) {
		return false
	}
	for i := range m.Path {
		if m.Path[i] != o.Path[i] {
			return false
		}
	}
	for i := range m.Captured {
		if m.Captured[i] != o.Captured[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy so the caller may hand it to untrusted code.
func (m Move) Clone() Move {
	return Move{
		From:     m.From,
		Path:     append([]Position(nil), m.Path...),
		Captured: append([]Position(nil), m.Captured...),
	}
}

func (m Move) String() string {
	var b strings.Builder
	b.WriteString(m.From.String())
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	for _, p := range m.Path {
		b.WriteString(sep)
		b.WriteString(p.String())
	}
	return b.String()
}

// CloneMoves deep-copies a move list.
func CloneMoves(moves []Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[i] = m.Clone()
	}
	return out
}

// ContainsMove reports whether moves holds a move equal to m.
func ContainsMove(moves []Move, m Move) bool {
	for _, cand := range moves {
		if cand.Equal(m) {
			return true
		}
	}
	return false
}

type direction struct{ dr, dc int }

// Fixed traversal order: NW, NE, SW, SE.
var directions = [4]direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

// forward reports whether d points toward the far row for c.
func (d direction) forward(c Colour) bool {
	if c == White {
		return d.dr < 0
	}
	return d.dr > 0
}
