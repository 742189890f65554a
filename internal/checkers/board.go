package checkers

import (
	"fmt"
	"strings"
)

const (
	DefaultBoardSize = 8
	MinBoardSize     = 6
	MaxBoardSize     = 16
)

// Board is an N×N grid. Values are never mutated after construction; every
// change goes through a copy.
type Board struct {
	size  int
	cells []Piece
}

// ValidateSize checks that n is an even size within the supported range.
func ValidateSize(n int) error {
	if n < MinBoardSize || n > MaxBoardSize || n%2 != 0 {
		return fmt.Errorf("board size %d: must be even and within [%d,%d]", n, MinBoardSize, MaxBoardSize)
	}
	return nil
}

// NewEmptyBoard returns a board with no pieces.
func NewEmptyBoard(size int) (Board, error) {
	if err := ValidateSize(size); err != nil {
		return Board{}, err
	}
	return Board{size: size, cells: make([]Piece, size*size)}, nil
}

// NewBoard returns the starting setup: black on the first size/2-1 rows,
// white on the last size/2-1 rows, dark cells only.
func NewBoard(size int) (Board, error) {
	b, err := NewEmptyBoard(size)
	if err != nil {
		return Board{}, err
	}
	rows := size/2 - 1
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if !Playable(Pos(r, c)) {
				continue
			}
			switch {
			case r < rows:
				b.cells[r*size+c] = BlackMan
			case r >= size-rows:
				b.cells[r*size+c] = WhiteMan
			}
		}
	}
	return b, nil
}

func (b Board) Size() int { return b.size }

// Playable reports whether p is a dark cell.
func Playable(p Position) bool { return (p.Row+p.Col)%2 == 1 }

func (b Board) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < b.size && p.Col >= 0 && p.Col < b.size
}

// At returns the piece at p, Empty when out of bounds.
func (b Board) At(p Position) Piece {
	if !b.InBounds(p) {
		return Empty
	}
	return b.cells[b.index(p)]
}

// Place returns a copy of b with piece set at p.
func (b Board) Place(p Position, piece Piece) (Board, error) {
	if !b.InBounds(p) {
		return Board{}, fmt.Errorf("position %s out of bounds", p)
	}
	if piece != Empty && !Playable(p) {
		return Board{}, fmt.Errorf("position %s is not a playable cell", p)
	}
	next := b.clone()
	next.cells[next.index(p)] = piece
	return next, nil
}

// Count returns the number of pieces of colour c.
func (b Board) Count(c Colour) int {
	n := 0
	for _, pc := range b.cells {
		if pc != Empty && pc.Colour() == c {
			n++
		}
	}
	return n
}

// Kings returns the number of kings of colour c.
func (b Board) Kings(c Colour) int {
	n := 0
	for _, pc := range b.cells {
		if pc.IsKing() && pc.Colour() == c {
			n++
		}
	}
	return n
}

// Cells returns a row-major copy of the grid.
func (b Board) Cells() []Piece { return append([]Piece(nil), b.cells...) }

// Equal compares two boards cell by cell.
func (b Board) Equal(o Board) bool {
	if b.size != o.size {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// PromotionRow is the far row for colour c.
func (b Board) PromotionRow(c Colour) int {
	if c == White {
		return 0
	}
	return b.size - 1
}

func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			sb.WriteRune(b.cells[r*b.size+c].Rune())
		}
		if r < b.size-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (b Board) index(p Position) int { return p.Row*b.size + p.Col }

func (b Board) clone() Board {
	return Board{size: b.size, cells: append([]Piece(nil), b.cells...)}
}

// ParseBoard reads the String form back: one line per row, '.' empty,
// w/W white man/king, b/B black man/king.
func ParseBoard(s string) (Board, error) {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	b, err := NewEmptyBoard(len(lines))
	if err != nil {
		return Board{}, err
	}
	for r, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) != b.size {
			return Board{}, fmt.Errorf("row %d: want %d cells, got %d", r, b.size, len(line))
		}
		for c, ch := range line {
			var pc Piece
			switch ch {
			case '.', '-':
				pc = Empty
			case 'w':
				pc = WhiteMan
			case 'W':
				pc = WhiteKing
			case 'b':
				pc = BlackMan
			case 'B':
				pc = BlackKing
			default:
				return Board{}, fmt.Errorf("row %d col %d: unknown cell %q", r, c, ch)
			}
			if pc != Empty && !Playable(Pos(r, c)) {
				return Board{}, fmt.Errorf("row %d col %d: piece on light cell", r, c)
			}
			b.cells[r*b.size+c] = pc
		}
	}
	return b, nil
}
