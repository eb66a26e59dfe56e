// Package record keeps the linear history of a game as board snapshots and a
// cursor used for navigation. Snapshots are stored most recent first: index 0
// is the latest position and the last index is the empty starting board.
package record

import (
	"fmt"
	"slices"

	"goban/internal/domain/board"
	errs "goban/internal/errors"
)

// Move is a single stone placement.
type Move struct {
	Color board.Cell  `json:"color"`
	Point board.Point `json:"point"`
}

func (m Move) String() string {
	return fmt.Sprintf("%s%s", m.Color.Letter(), m.Point)
}

type CapturedCounts struct {
	BlackCaptured int `json:"black" bson:"black"`
	WhiteCaptured int `json:"white" bson:"white"`
}

type Record struct {
	size      int
	snapshots []board.Board
	cursor    int
}

func New(size int) (*Record, error) {
	empty, err := board.New(size)
	if err != nil {
		return nil, err
	}
	return &Record{size: size, snapshots: []board.Board{empty}}, nil
}

// FromSnapshots builds a record from snapshots ordered most recent first.
// The oldest snapshot must be an empty board and every snapshot must share
// its size. The cursor starts at the latest snapshot.
func FromSnapshots(newestFirst []board.Board) (*Record, error) {
	if len(newestFirst) == 0 {
		return nil, fmt.Errorf("no snapshots: %w", errs.ErrMalformedRecord)
	}
	oldest := newestFirst[len(newestFirst)-1]
	if oldest.Size() < 1 || oldest.Count(board.Empty) != oldest.Size()*oldest.Size() {
		return nil, fmt.Errorf("first snapshot is not an empty board: %w", errs.ErrMalformedRecord)
	}
	for i, b := range newestFirst {
		if b.Size() != oldest.Size() {
			return nil, fmt.Errorf("snapshot %d has size %d, want %d: %w", i, b.Size(), oldest.Size(), errs.ErrMalformedRecord)
		}
	}
	return &Record{size: oldest.Size(), snapshots: slices.Clone(newestFirst)}, nil
}

func (r *Record) Size() int {
	return r.size
}

func (r *Record) Len() int {
	return len(r.snapshots)
}

func (r *Record) Cursor() int {
	return r.cursor
}

func (r *Record) Current() board.Board {
	return r.snapshots[r.cursor]
}

// MovesPlayed counts the moves leading to the visible snapshot.
func (r *Record) MovesPlayed() int {
	return len(r.snapshots) - 1 - r.cursor
}

// Turn is derived from the number of moves up to the cursor: Black moves
// first, so an even count means Black is to play.
func (r *Record) Turn() board.Cell {
	if r.MovesPlayed()%2 == 0 {
		return board.Black
	}
	return board.White
}

// KoMemory returns the visible snapshot and the one before it, the only
// positions a single-stone recapture could recreate.
func (r *Record) KoMemory() []board.Board {
	end := min(r.cursor+2, len(r.snapshots))
	return slices.Clone(r.snapshots[r.cursor:end])
}

// RecordMove appends a board produced by an accepted move. Snapshots newer
// than the cursor are discarded and the cursor returns to the latest move.
func (r *Record) RecordMove(b board.Board) error {
	if b.Size() != r.size {
		return fmt.Errorf("board size %d, record size %d: %w", b.Size(), r.size, errs.ErrMalformedRecord)
	}
	if _, err := Placement(r.Current(), b); err != nil {
		return err
	}
	next := make([]board.Board, 0, len(r.snapshots)-r.cursor+1)
	next = append(next, b)
	next = append(next, r.snapshots[r.cursor:]...)
	r.snapshots = next
	r.cursor = 0
	return nil
}

func (r *Record) CanStepBack() bool {
	return r.cursor+1 < len(r.snapshots)
}

func (r *Record) CanStepForward() bool {
	return r.cursor > 0
}

// StepBack moves one snapshot toward the start. It reports false and leaves
// the cursor alone when already at the empty board.
func (r *Record) StepBack() (board.Board, bool) {
	if !r.CanStepBack() {
		return board.Board{}, false
	}
	r.cursor++
	return r.snapshots[r.cursor], true
}

// StepForward moves one snapshot toward the latest move. It reports false
// and leaves the cursor alone when already at the latest move.
func (r *Record) StepForward() (board.Board, bool) {
	if !r.CanStepForward() {
		return board.Board{}, false
	}
	r.cursor--
	return r.snapshots[r.cursor], true
}

// CapturedCounts tallies stones removed between the empty board and the
// snapshot at fromCursor by diffing every adjacent pair.
func (r *Record) CapturedCounts(fromCursor int) (CapturedCounts, error) {
	if fromCursor < 0 || fromCursor >= len(r.snapshots) {
		return CapturedCounts{}, fmt.Errorf("cursor %d of %d: %w", fromCursor, len(r.snapshots), errs.ErrOutOfBounds)
	}
	var counts CapturedCounts
	for i := len(r.snapshots) - 1; i > fromCursor; i-- {
		before, after := r.snapshots[i], r.snapshots[i-1]
		for y := 0; y < r.size; y++ {
			for x := 0; x < r.size; x++ {
				p := board.Point{X: x, Y: y}
				prev, _ := before.Get(p)
				cur, _ := after.Get(p)
				if cur != board.Empty {
					continue
				}
				switch prev {
				case board.Black:
					counts.BlackCaptured++
				case board.White:
					counts.WhiteCaptured++
				}
			}
		}
	}
	return counts, nil
}

// Snapshots returns the full history oldest first.
func (r *Record) Snapshots() []board.Board {
	out := slices.Clone(r.snapshots)
	slices.Reverse(out)
	return out
}

// Placements recovers the stone placed by each move, oldest first.
func (r *Record) Placements() ([]Move, error) {
	moves := make([]Move, 0, len(r.snapshots)-1)
	for i := len(r.snapshots) - 1; i > 0; i-- {
		m, err := Placement(r.snapshots[i], r.snapshots[i-1])
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", len(moves)+1, err)
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// Placement finds the single stone that differs between two consecutive
// snapshots. Cells that became empty are captures and are ignored.
func Placement(older, newer board.Board) (Move, error) {
	if older.Size() != newer.Size() {
		return Move{}, fmt.Errorf("snapshot sizes %d and %d: %w", older.Size(), newer.Size(), errs.ErrMalformedRecord)
	}
	var (
		move  Move
		found int
	)
	for y := 0; y < newer.Size(); y++ {
		for x := 0; x < newer.Size(); x++ {
			p := board.Point{X: x, Y: y}
			prev, _ := older.Get(p)
			cur, _ := newer.Get(p)
			if cur == prev || !cur.IsStone() {
				continue
			}
			found++
			move = Move{Color: cur, Point: p}
		}
	}
	if found != 1 {
		return Move{}, fmt.Errorf("%d stones placed between snapshots: %w", found, errs.ErrMalformedRecord)
	}
	return move, nil
}
