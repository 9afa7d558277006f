package board

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPosition is returned for malformed position strings and for
	// positions that break the board invariants.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrIllegalMove is returned when a move string matches no legal move.
	ErrIllegalMove = errors.New("illegal move")
)

var (
	errOverlap       = errors.New("two pieces on one square")
	errOccupancy     = errors.New("occupancy out of step with piece masks")
	errKingCount     = errors.New("each side needs exactly one king")
	errPawnRank      = errors.New("pawn on first or last rank")
	errEnPassantRank = errors.New("en passant square not on the capture rank")
	errNegativeClock = errors.New("negative halfmove clock")
	errFieldCount    = errors.New("need six space-separated fields")
	errRankCount     = errors.New("need eight ranks")
	errRankWidth     = errors.New("rank does not span eight files")
	errPieceLetter   = errors.New("unknown piece letter")
	errSideToMove    = errors.New("side to move must be w or b")
	errCastling      = errors.New("castling field must be - or a subset of KQkq")
	errNumber        = errors.New("not a non-negative integer")
)

// PositionError describes which part of a position string was rejected.
type PositionError struct {
	Field string
	Value string
	Err   error
}

func (e *PositionError) Error() string {
	if e.Err != nil && e.Err != ErrInvalidPosition {
		return fmt.Sprintf("invalid position: %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid position: %s %q", e.Field, e.Value)
}

// Unwrap lets errors.Is match both ErrInvalidPosition and the cause.
func (e *PositionError) Unwrap() []error {
	if e.Err == nil || e.Err == ErrInvalidPosition {
		return []error{ErrInvalidPosition}
	}
	return []error{ErrInvalidPosition, e.Err}
}

func positionError(field, value string, err error) error {
	return &PositionError{Field: field, Value: value, Err: err}
}
