package play

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goban/internal/domain/board"
	errs "goban/internal/errors"
)

func TestAppend(t *testing.T) {
	out, move, err := Append("(;FF[4]GM[1]SZ[9];B[ee])", "cc")
	require.NoError(t, err)
	assert.Equal(t, "(;FF[4]GM[1]SZ[9];B[ee];W[cc])", out)
	assert.Equal(t, board.White, move.Color)
	assert.Equal(t, board.Point{X: 2, Y: 2}, move.Point)

	_, _, err = Append("(;FF[4]GM[1]SZ[9];B[ee])", "ee")
	assert.ErrorIs(t, err, errs.ErrOccupiedCell)

	_, _, err = Append("(;FF[4]GM[1]SZ[9])", "zz")
	assert.ErrorIs(t, err, errs.ErrOutOfBounds)

	// white at aa would have no liberties
	_, _, err = Append("(;FF[4]GM[1]SZ[3];B[ba];W[cc];B[ab])", "aa")
	assert.ErrorIs(t, err, errs.ErrSuicideMove)
}
