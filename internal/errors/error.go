package errors

import "errors"

var (
	ErrOutOfBounds      = errors.New("coordinate is outside the board")
	ErrOccupiedCell     = errors.New("cell is already occupied")
	ErrKoViolation      = errors.New("move recreates a recent board position")
	ErrSuicideMove      = errors.New("move leaves own group without liberties")
	ErrMalformedRecord  = errors.New("malformed game record")
	ErrEmptyCell        = errors.New("cell is empty")
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrInvalidColor     = errors.New("invalid stone color")
	ErrGameNotFound     = errors.New("game not found")
	ErrInternal         = errors.New("internal error")
)

// Reason returns the stable reason code for a rejection, or "" when err is
// not one of the known outcomes.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOutOfBounds):
		return "OutOfBounds"
	case errors.Is(err, ErrOccupiedCell):
		return "OccupiedCell"
	case errors.Is(err, ErrKoViolation):
		return "KoViolation"
	case errors.Is(err, ErrSuicideMove):
		return "SuicideMove"
	case errors.Is(err, ErrMalformedRecord):
		return "MalformedRecord"
	case errors.Is(err, ErrEmptyCell):
		return "EmptyCell"
	case errors.Is(err, ErrInvalidBoardSize):
		return "InvalidBoardSize"
	case errors.Is(err, ErrInvalidColor):
		return "InvalidColor"
	case errors.Is(err, ErrGameNotFound):
		return "GameNotFound"
	}
	return ""
}

// IsRejection reports whether err is an expected rule outcome rather than
// an infrastructure failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrOccupiedCell) ||
		errors.Is(err, ErrKoViolation) ||
		errors.Is(err, ErrSuicideMove)
}
