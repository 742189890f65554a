package checkers

import (
	"errors"
	"fmt"
)

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrInvalidRules = errors.New("invalid rules")
	ErrPDN          = errors.New("invalid pdn")
)

// IllegalMoveError is returned by ApplyMove for a move outside LegalMoves.
type IllegalMoveError struct {
	Move Move
	Turn Colour
	Ply  int
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s for %s at ply %d", e.Move, e.Turn, e.Ply)
}

func (e *IllegalMoveError) Unwrap() error { return ErrIllegalMove }
