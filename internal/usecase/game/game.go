package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goban/internal/domain/board"
	"goban/internal/domain/game"
	"goban/internal/domain/sgf"
	errs "goban/internal/errors"
)

type GameStore interface {
	SaveGame(ctx context.Context, gameID string, cached game.CachedGame) error
	LoadGame(ctx context.Context, gameID string) (game.CachedGame, error)
	ArchiveGame(ctx context.Context, archived game.ArchivedGame) error
	GetArchivedGame(ctx context.Context, archiveID string) (game.ArchivedGame, error)
}

type GameUseCase struct {
	store     GameStore
	log       *zap.SugaredLogger
	boardSize int

	sessionsMu sync.RWMutex
	sessions   map[string]*Session
}

func NewGameUseCase(store GameStore, log *zap.SugaredLogger, boardSize int) *GameUseCase {
	if boardSize < 1 || boardSize > sgf.MaxSize {
		boardSize = board.DefaultSize
	}
	return &GameUseCase{
		store:     store,
		log:       log,
		boardSize: boardSize,
		sessions:  make(map[string]*Session),
	}
}

// CreateGame starts an empty game. A zero size means the configured default.
func (g *GameUseCase) CreateGame(ctx context.Context, size int) (game.View, error) {
	if size == 0 {
		size = g.boardSize
	}
	if size < 1 || size > sgf.MaxSize {
		return game.View{}, fmt.Errorf("board size %d: %w", size, errs.ErrInvalidBoardSize)
	}

	s, err := NewSession(uuid.NewString(), size)
	if err != nil {
		return game.View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := g.save(ctx, s); err != nil {
		return game.View{}, err
	}

	g.sessionsMu.Lock()
	g.sessions[s.id] = s
	g.sessionsMu.Unlock()

	g.log.Infof("game %s created on %dx%d", s.id, size, size)
	return s.view(), nil
}

func (g *GameUseCase) GetGame(ctx context.Context, gameID string) (game.View, error) {
	s, err := g.session(ctx, gameID)
	if err != nil {
		return game.View{}, err
	}
	return s.View(), nil
}

// Play makes the next move of the game at p and caches the new state.
func (g *GameUseCase) Play(ctx context.Context, gameID string, p board.Point) (game.View, error) {
	s, err := g.session(ctx, gameID)
	if err != nil {
		return game.View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	color := s.record.Turn()
	res, err := s.play(p)
	if err != nil {
		return game.View{}, err
	}
	if res.Captured {
		g.log.Debugf("game %s: %s at %s captured %d", gameID, color, p, len(res.CapturedStones))
	}
	g.persist(ctx, s)
	return s.view(), nil
}

func (g *GameUseCase) CheckMove(ctx context.Context, gameID string, p board.Point) error {
	s, err := g.session(ctx, gameID)
	if err != nil {
		return err
	}
	return s.Legal(p)
}

// StepBack moves the game's cursor one move back. The bool is false when
// nothing changed.
func (g *GameUseCase) StepBack(ctx context.Context, gameID string) (game.View, bool, error) {
	return g.step(ctx, gameID, (*Session).stepBack)
}

func (g *GameUseCase) StepForward(ctx context.Context, gameID string) (game.View, bool, error) {
	return g.step(ctx, gameID, (*Session).stepForward)
}

func (g *GameUseCase) step(ctx context.Context, gameID string, move func(*Session) bool) (game.View, bool, error) {
	s, err := g.session(ctx, gameID)
	if err != nil {
		return game.View{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := move(s)
	if changed {
		g.persist(ctx, s)
	}
	return s.view(), changed, nil
}

func (g *GameUseCase) ExportSGF(ctx context.Context, gameID string) (string, error) {
	s, err := g.session(ctx, gameID)
	if err != nil {
		return "", err
	}
	return s.SGF()
}

// ImportSGF replaces the game with one read from SGF text.
func (g *GameUseCase) ImportSGF(ctx context.Context, gameID string, text string) (game.View, error) {
	s, err := g.session(ctx, gameID)
	if err != nil {
		return game.View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.replace(text); err != nil {
		return game.View{}, err
	}
	g.persist(ctx, s)
	g.log.Infof("game %s imported: %d moves on %dx%d", gameID, s.record.Len()-1, s.record.Size(), s.record.Size())
	return s.view(), nil
}

// ArchiveGame stores the full game, independent of the cursor.
func (g *GameUseCase) ArchiveGame(ctx context.Context, gameID string) (game.ArchivedGame, error) {
	s, err := g.session(ctx, gameID)
	if err != nil {
		return game.ArchivedGame{}, err
	}

	s.mu.Lock()
	text, err := sgf.Encode(s.record)
	if err != nil {
		s.mu.Unlock()
		return game.ArchivedGame{}, err
	}
	counts, err := s.record.CapturedCounts(0)
	if err != nil {
		s.mu.Unlock()
		return game.ArchivedGame{}, err
	}
	archived := game.ArchivedGame{
		ID:          uuid.NewString(),
		GameID:      gameID,
		BoardSize:   s.record.Size(),
		MovesPlayed: s.record.Len() - 1,
		Captured:    counts,
		SGF:         text,
		ArchivedAt:  time.Now().UTC(),
	}
	s.mu.Unlock()

	if err := g.store.ArchiveGame(ctx, archived); err != nil {
		return game.ArchivedGame{}, err
	}
	g.log.Infof("game %s archived as %s", gameID, archived.ID)
	return archived, nil
}

func (g *GameUseCase) GetArchivedGame(ctx context.Context, archiveID string) (game.ArchivedGame, error) {
	return g.store.GetArchivedGame(ctx, archiveID)
}

// session finds a live game, restoring it from the cache when this process
// has not seen it yet.
func (g *GameUseCase) session(ctx context.Context, gameID string) (*Session, error) {
	g.sessionsMu.RLock()
	s, ok := g.sessions[gameID]
	g.sessionsMu.RUnlock()
	if ok {
		return s, nil
	}

	cached, err := g.store.LoadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	restored, err := restoreSession(gameID, cached)
	if err != nil {
		g.log.Errorf("failed to restore game %s: %v", gameID, err)
		return nil, err
	}

	g.sessionsMu.Lock()
	defer g.sessionsMu.Unlock()
	if s, ok := g.sessions[gameID]; ok {
		return s, nil
	}
	g.sessions[gameID] = restored
	g.log.Infof("game %s restored from cache", gameID)
	return restored, nil
}

// save writes the session to the store. The caller holds s.mu.
func (g *GameUseCase) save(ctx context.Context, s *Session) error {
	cached, err := s.cached()
	if err != nil {
		return err
	}
	return g.store.SaveGame(ctx, s.id, cached)
}

// persist is save for changes that already happened in memory: a failed
// write only costs the ability to restore the game after a restart.
func (g *GameUseCase) persist(ctx context.Context, s *Session) {
	if err := g.save(ctx, s); err != nil {
		g.log.Errorf("failed to cache game %s: %v", s.id, err)
	}
}
