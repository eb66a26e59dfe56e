package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goban/internal/domain/board"
	errs "goban/internal/errors"
)

func diagram(t *testing.T, rows ...string) board.Board {
	t.Helper()
	b, err := board.ParseDiagram(rows...)
	require.NoError(t, err)
	return b
}

func TestNewRecord(t *testing.T) {
	r, err := New(board.DefaultSize)
	require.NoError(t, err)

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 0, r.Cursor())
	assert.Equal(t, 0, r.MovesPlayed())
	assert.Equal(t, board.Black, r.Turn())
	assert.False(t, r.CanStepBack())
	assert.False(t, r.CanStepForward())

	counts, err := r.CapturedCounts(0)
	require.NoError(t, err)
	assert.Equal(t, CapturedCounts{}, counts)

	_, err = New(0)
	assert.ErrorIs(t, err, errs.ErrInvalidBoardSize)
}

func TestRecordMoveAndNavigation(t *testing.T) {
	r, err := New(3)
	require.NoError(t, err)

	b1 := diagram(t, "X..", "...", "...")
	b2 := diagram(t, "X..", ".O.", "...")
	require.NoError(t, r.RecordMove(b1))
	require.NoError(t, r.RecordMove(b2))

	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Current().Equal(b2))
	assert.Equal(t, board.Black, r.Turn())

	got, ok := r.StepBack()
	require.True(t, ok)
	assert.True(t, got.Equal(b1))
	assert.Equal(t, 1, r.Cursor())
	assert.Equal(t, board.White, r.Turn())

	_, ok = r.StepBack()
	require.True(t, ok)
	assert.Equal(t, 2, r.Cursor())
	assert.Equal(t, board.Black, r.Turn())

	// already at the empty board
	_, ok = r.StepBack()
	assert.False(t, ok)
	assert.Equal(t, 2, r.Cursor())

	_, ok = r.StepForward()
	require.True(t, ok)
	got, ok = r.StepForward()
	require.True(t, ok)
	assert.True(t, got.Equal(b2))

	// already at the latest move
	_, ok = r.StepForward()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Cursor())
}

func TestRecordMoveDiscardsFuture(t *testing.T) {
	r, err := New(3)
	require.NoError(t, err)

	require.NoError(t, r.RecordMove(diagram(t, "X..", "...", "...")))
	require.NoError(t, r.RecordMove(diagram(t, "X..", ".O.", "...")))
	require.NoError(t, r.RecordMove(diagram(t, "X..", ".O.", "..X")))

	r.StepBack()
	r.StepBack()
	require.Equal(t, board.White, r.Turn())

	branch := diagram(t, "X.O", "...", "...")
	require.NoError(t, r.RecordMove(branch))
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 0, r.Cursor())
	assert.True(t, r.Current().Equal(branch))
	assert.False(t, r.CanStepForward())
}

func TestRecordMoveRejectsBadBoards(t *testing.T) {
	r, err := New(3)
	require.NoError(t, err)

	assert.ErrorIs(t, r.RecordMove(diagram(t, "X.", "..")), errs.ErrMalformedRecord)
	assert.ErrorIs(t, r.RecordMove(diagram(t, "XX.", "...", "...")), errs.ErrMalformedRecord)
	assert.ErrorIs(t, r.RecordMove(diagram(t, "...", "...", "...")), errs.ErrMalformedRecord)
	assert.Equal(t, 1, r.Len())
}

func TestKoMemory(t *testing.T) {
	r, err := New(3)
	require.NoError(t, err)
	assert.Len(t, r.KoMemory(), 1)

	b1 := diagram(t, "X..", "...", "...")
	b2 := diagram(t, "X..", ".O.", "...")
	require.NoError(t, r.RecordMove(b1))
	require.NoError(t, r.RecordMove(b2))

	mem := r.KoMemory()
	require.Len(t, mem, 2)
	assert.True(t, mem[0].Equal(b2))
	assert.True(t, mem[1].Equal(b1))

	r.StepBack()
	mem = r.KoMemory()
	require.Len(t, mem, 2)
	assert.True(t, mem[0].Equal(b1))
}

func TestCapturedCounts(t *testing.T) {
	r, err := New(3)
	require.NoError(t, err)

	moves := []board.Board{
		diagram(t, ".X.", "...", "..."),
		diagram(t, ".X.", "O..", "..."),
		diagram(t, ".X.", "O..", ".X."),
		diagram(t, ".X.", "O..", ".XO"),
		diagram(t, ".X.", "O..", "XX."), // white (2,2) removed
		diagram(t, "OX.", "O..", "XX."),
		diagram(t, ".XX", "...", "XX."), // white (0,0) and (0,1) removed
	}
	for _, b := range moves {
		require.NoError(t, r.RecordMove(b))
	}

	counts, err := r.CapturedCounts(0)
	require.NoError(t, err)
	assert.Equal(t, CapturedCounts{BlackCaptured: 0, WhiteCaptured: 3}, counts)

	counts, err = r.CapturedCounts(2)
	require.NoError(t, err)
	assert.Equal(t, CapturedCounts{BlackCaptured: 0, WhiteCaptured: 1}, counts)

	counts, err = r.CapturedCounts(r.Len() - 1)
	require.NoError(t, err)
	assert.Equal(t, CapturedCounts{}, counts)

	_, err = r.CapturedCounts(r.Len())
	assert.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestPlacements(t *testing.T) {
	r, err := New(3)
	require.NoError(t, err)
	require.NoError(t, r.RecordMove(diagram(t, "...", ".X.", "...")))
	require.NoError(t, r.RecordMove(diagram(t, "...", ".X.", "..O")))

	moves, err := r.Placements()
	require.NoError(t, err)
	assert.Equal(t, []Move{
		{Color: board.Black, Point: board.Point{X: 1, Y: 1}},
		{Color: board.White, Point: board.Point{X: 2, Y: 2}},
	}, moves)
}

func TestFromSnapshots(t *testing.T) {
	empty := diagram(t, "..", "..")
	b1 := diagram(t, "X.", "..")

	r, err := FromSnapshots([]board.Board{b1, empty})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 2, r.Size())
	assert.True(t, r.Current().Equal(b1))
	assert.Len(t, r.Snapshots(), 2)
	assert.True(t, r.Snapshots()[0].Equal(empty))

	_, err = FromSnapshots(nil)
	assert.ErrorIs(t, err, errs.ErrMalformedRecord)
	_, err = FromSnapshots([]board.Board{b1})
	assert.ErrorIs(t, err, errs.ErrMalformedRecord)
	_, err = FromSnapshots([]board.Board{diagram(t, "X..", "...", "..."), empty})
	assert.ErrorIs(t, err, errs.ErrMalformedRecord)
}
