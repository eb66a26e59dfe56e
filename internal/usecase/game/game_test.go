package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goban/internal/domain/board"
	"goban/internal/domain/game"
	errs "goban/internal/errors"
)

type memoryStore struct {
	mu       sync.Mutex
	games    map[string]game.CachedGame
	archived map[string]game.ArchivedGame
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		games:    make(map[string]game.CachedGame),
		archived: make(map[string]game.ArchivedGame),
	}
}

func (m *memoryStore) SaveGame(_ context.Context, gameID string, cached game.CachedGame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[gameID] = cached
	return nil
}

func (m *memoryStore) LoadGame(_ context.Context, gameID string) (game.CachedGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cached, ok := m.games[gameID]
	if !ok {
		return game.CachedGame{}, errs.ErrGameNotFound
	}
	return cached, nil
}

func (m *memoryStore) ArchiveGame(_ context.Context, archived game.ArchivedGame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.archived[archived.ID] = archived
	return nil
}

func (m *memoryStore) GetArchivedGame(_ context.Context, archiveID string) (game.ArchivedGame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	archived, ok := m.archived[archiveID]
	if !ok {
		return game.ArchivedGame{}, errs.ErrGameNotFound
	}
	return archived, nil
}

func newUseCase(store GameStore) *GameUseCase {
	return NewGameUseCase(store, zap.NewNop().Sugar(), 9)
}

func pt(x, y int) board.Point {
	return board.Point{X: x, Y: y}
}

func playAll(t *testing.T, uc *GameUseCase, gameID string, points ...board.Point) game.View {
	t.Helper()
	var view game.View
	for _, p := range points {
		var err error
		view, err = uc.Play(context.Background(), gameID, p)
		require.NoError(t, err, "move %s", p)
	}
	return view
}

func TestCreateGame(t *testing.T) {
	store := newMemoryStore()
	uc := newUseCase(store)
	ctx := context.Background()

	view, err := uc.CreateGame(ctx, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, view.GameID)
	assert.Equal(t, 9, view.BoardSize)
	assert.Len(t, view.Board, 9)
	assert.Equal(t, "black", view.Turn)
	assert.Equal(t, "empty", view.Board[0][0])
	assert.False(t, view.CanStepBack)
	assert.False(t, view.CanStepForward)
	assert.Equal(t, "(;FF[4]GM[1]SZ[9])", store.games[view.GameID].SGF)

	view, err = uc.CreateGame(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, view.BoardSize)

	for _, size := range []int{-1, 27} {
		_, err = uc.CreateGame(ctx, size)
		assert.ErrorIs(t, err, errs.ErrInvalidBoardSize)
	}
}

func TestPlayAndRejections(t *testing.T) {
	uc := newUseCase(newMemoryStore())
	ctx := context.Background()
	view, err := uc.CreateGame(ctx, 3)
	require.NoError(t, err)
	id := view.GameID

	view = playAll(t, uc, id, pt(1, 0), pt(0, 0), pt(0, 1))
	assert.Equal(t, 3, view.MovesPlayed)
	assert.Equal(t, "white", view.Turn)
	assert.Equal(t, 1, view.Captured.WhiteCaptured)
	assert.Equal(t, "empty", view.Board[0][0])

	_, err = uc.Play(ctx, id, pt(1, 0))
	assert.ErrorIs(t, err, errs.ErrOccupiedCell)
	_, err = uc.Play(ctx, id, pt(3, 3))
	assert.ErrorIs(t, err, errs.ErrOutOfBounds)
	// white (0,0) would have no liberty and capture nothing
	_, err = uc.Play(ctx, id, pt(0, 0))
	assert.ErrorIs(t, err, errs.ErrSuicideMove)
	assert.ErrorIs(t, uc.CheckMove(ctx, id, pt(0, 0)), errs.ErrSuicideMove)
	assert.NoError(t, uc.CheckMove(ctx, id, pt(2, 2)))

	view, err = uc.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, view.MovesPlayed)

	_, err = uc.Play(ctx, "missing", pt(0, 0))
	assert.ErrorIs(t, err, errs.ErrGameNotFound)
}

func TestNavigation(t *testing.T) {
	store := newMemoryStore()
	uc := newUseCase(store)
	ctx := context.Background()
	view, err := uc.CreateGame(ctx, 5)
	require.NoError(t, err)
	id := view.GameID
	playAll(t, uc, id, pt(0, 0), pt(1, 1), pt(2, 2))

	view, changed, err := uc.StepForward(ctx, id)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0, view.Cursor)

	view, changed, err = uc.StepBack(ctx, id)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 1, view.Cursor)
	assert.Equal(t, 2, view.MovesPlayed)
	assert.Equal(t, "black", view.Turn)
	assert.True(t, view.CanStepForward)
	assert.Equal(t, 1, store.games[id].Cursor)

	// a new move drops (2,2)
	view = playAll(t, uc, id, pt(4, 4))
	assert.Equal(t, 0, view.Cursor)
	assert.Equal(t, 3, view.MovesPlayed)
	assert.Equal(t, "empty", view.Board[2][2])
	assert.False(t, view.CanStepForward)

	text, err := uc.ExportSGF(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "(;FF[4]GM[1]SZ[5];B[aa];W[bb];B[ee])", text)

	for i := 0; i < 3; i++ {
		_, changed, err = uc.StepBack(ctx, id)
		require.NoError(t, err)
		assert.True(t, changed)
	}
	view, changed, err = uc.StepBack(ctx, id)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 0, view.MovesPlayed)
	assert.False(t, view.CanStepBack)
}

func TestImportSGF(t *testing.T) {
	store := newMemoryStore()
	uc := newUseCase(store)
	ctx := context.Background()
	view, err := uc.CreateGame(ctx, 9)
	require.NoError(t, err)
	id := view.GameID

	view, err = uc.ImportSGF(ctx, id, "(;FF[4]GM[1]SZ[5];B[cc];W[dc];B[aa])")
	require.NoError(t, err)
	assert.Equal(t, 5, view.BoardSize)
	assert.Equal(t, 3, view.MovesPlayed)
	assert.Equal(t, "white", view.Turn)
	assert.Equal(t, 3, store.games[id].Raw)

	view, err = uc.ImportSGF(ctx, id, "no header here")
	require.NoError(t, err)
	assert.Equal(t, 19, view.BoardSize)
	assert.Equal(t, 0, view.MovesPlayed)

	// the same stone twice leaves a snapshot pair with no placement
	_, err = uc.ImportSGF(ctx, id, "(;SZ[5];B[aa];B[aa])")
	assert.ErrorIs(t, err, errs.ErrMalformedRecord)
	view, err = uc.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 19, view.BoardSize, "failed import keeps the previous game")
}

func TestRestoreFromCache(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()

	first := newUseCase(store)
	view, err := first.CreateGame(ctx, 5)
	require.NoError(t, err)
	id := view.GameID

	// imported prefix leaves a white stone (0,0) that the rules would have
	// captured, then two rule-checked moves follow
	_, err = first.ImportSGF(ctx, id, "(;SZ[5];B[ba];W[aa];B[ab])")
	require.NoError(t, err)
	playAll(t, first, id, pt(4, 4), pt(3, 3))
	_, _, err = first.StepBack(ctx, id)
	require.NoError(t, err)
	want, err := first.GetGame(ctx, id)
	require.NoError(t, err)

	second := newUseCase(store)
	got, err := second.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "white", got.Board[0][0])

	// stepping back into the imported prefix and playing shrinks it
	for i := 0; i < 3; i++ {
		_, _, err = second.StepBack(ctx, id)
		require.NoError(t, err)
	}
	playAll(t, second, id, pt(2, 2))
	assert.Equal(t, 1, store.games[id].Raw)

	third := newUseCase(store)
	got, err = third.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, got.MovesPlayed)
	assert.Equal(t, "white", got.Board[2][2])
}

func TestRestoreRejectsIllegalCache(t *testing.T) {
	store := newMemoryStore()
	store.games["bad"] = game.CachedGame{SGF: "(;SZ[5];B[aa];W[aa])"}
	uc := newUseCase(store)

	_, err := uc.GetGame(context.Background(), "bad")
	assert.ErrorIs(t, err, errs.ErrOccupiedCell)
}

func TestArchive(t *testing.T) {
	store := newMemoryStore()
	uc := newUseCase(store)
	ctx := context.Background()
	view, err := uc.CreateGame(ctx, 3)
	require.NoError(t, err)
	id := view.GameID
	playAll(t, uc, id, pt(1, 0), pt(0, 0), pt(0, 1))
	_, _, err = uc.StepBack(ctx, id)
	require.NoError(t, err)

	archived, err := uc.ArchiveGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, archived.GameID)
	assert.Equal(t, 3, archived.MovesPlayed)
	assert.Equal(t, 1, archived.Captured.WhiteCaptured)
	assert.Equal(t, "(;FF[4]GM[1]SZ[3];B[ba];W[aa];B[ab])", archived.SGF)

	got, err := uc.GetArchivedGame(ctx, archived.ID)
	require.NoError(t, err)
	assert.Equal(t, archived, got)

	_, err = uc.GetArchivedGame(ctx, "nope")
	assert.ErrorIs(t, err, errs.ErrGameNotFound)
}

func TestConcurrentPlay(t *testing.T) {
	uc := newUseCase(newMemoryStore())
	ctx := context.Background()
	view, err := uc.CreateGame(ctx, 9)
	require.NoError(t, err)
	id := view.GameID

	var wg sync.WaitGroup
	for x := 0; x < 9; x++ {
		x := x
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.Play(ctx, id, pt(x, 4))
		}()
	}
	wg.Wait()

	view, err = uc.GetGame(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 9, view.MovesPlayed)
}
