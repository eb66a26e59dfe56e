package rules

import (
	"fmt"

	"goban/internal/domain/board"
	"goban/internal/domain/record"
	errs "goban/internal/errors"
)

type Result struct {
	Board          board.Board
	Captured       bool
	CapturedStones []board.Point
}

// ApplyMove places a stone of color at p and resolves captures, ko and
// suicide. ko holds the recent boards a capturing move may not recreate
// (see record.Record.KoMemory). A rejection returns one of ErrOutOfBounds,
// ErrOccupiedCell, ErrKoViolation or ErrSuicideMove and never touches b.
func ApplyMove(b board.Board, color board.Cell, p board.Point, ko []board.Board) (Result, error) {
	if !color.IsStone() {
		return Result{}, fmt.Errorf("play %s: %w", color, errs.ErrInvalidColor)
	}
	current, err := b.Get(p)
	if err != nil {
		return Result{}, err
	}
	if current != board.Empty {
		return Result{}, fmt.Errorf("play %s at %s: %w", color, p, errs.ErrOccupiedCell)
	}

	candidate, err := b.WithStone(p, color)
	if err != nil {
		return Result{}, err
	}

	// Every neighboring enemy group without liberties is removed; two groups
	// can die to the same stone.
	opponent := color.Opponent()
	var captured []board.Point
	for _, n := range candidate.Neighbors(p) {
		c, _ := candidate.Get(n)
		if c != opponent {
			continue
		}
		group, libs, err := board.GroupAndLiberties(candidate, n)
		if err != nil {
			return Result{}, err
		}
		if libs > 0 {
			continue
		}
		captured = append(captured, group.Stones...)
		candidate, err = candidate.WithoutStones(group.Stones)
		if err != nil {
			return Result{}, err
		}
	}

	if len(captured) > 0 {
		for _, prev := range ko {
			if candidate.Equal(prev) {
				return Result{}, fmt.Errorf("play %s at %s: %w", color, p, errs.ErrKoViolation)
			}
		}
	} else {
		alive, err := board.HasLiberty(candidate, p)
		if err != nil {
			return Result{}, err
		}
		if !alive {
			return Result{}, fmt.Errorf("play %s at %s: %w", color, p, errs.ErrSuicideMove)
		}
	}

	return Result{Board: candidate, Captured: len(captured) > 0, CapturedStones: captured}, nil
}

// IsLegal runs the same checks as ApplyMove and discards the board.
func IsLegal(b board.Board, color board.Cell, p board.Point, ko []board.Board) error {
	_, err := ApplyMove(b, color, p, ko)
	return err
}

// Play applies the next move to r: the color comes from the record's turn
// and the ko window from its recent snapshots.
func Play(r *record.Record, p board.Point) (Result, error) {
	color := r.Turn()
	res, err := ApplyMove(r.Current(), color, p, r.KoMemory())
	if err != nil {
		return Result{}, err
	}
	if err := r.RecordMove(res.Board); err != nil {
		return Result{}, err
	}
	return res, nil
}

type ReplayError struct {
	Index int
	Move  record.Move
	Err   error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("move %d %s: %v", e.Index+1, e.Move, e.Err)
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}

// Replay plays moves onto a fresh board with full rule checking. Unlike a
// raw SGF decode, captures are resolved. Moves must alternate starting with
// Black; a move of the wrong color or an illegal move stops the replay with a
// *ReplayError.
func Replay(size int, moves []record.Move) (*record.Record, error) {
	r, err := record.New(size)
	if err != nil {
		return nil, err
	}
	for i, m := range moves {
		if m.Color != r.Turn() {
			return nil, &ReplayError{Index: i, Move: m, Err: fmt.Errorf("expected %s to play: %w", r.Turn(), errs.ErrInvalidColor)}
		}
		if _, err := Play(r, m.Point); err != nil {
			return nil, &ReplayError{Index: i, Move: m, Err: err}
		}
	}
	return r, nil
}
