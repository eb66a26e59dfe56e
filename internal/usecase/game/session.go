package game

import (
	"fmt"
	"sync"

	"goban/internal/domain/board"
	"goban/internal/domain/game"
	"goban/internal/domain/record"
	"goban/internal/domain/sgf"
	errs "goban/internal/errors"
	"goban/internal/usecase/rules"
)

// Session is one live game: a record plus the lock that serializes every
// read and write of it.
type Session struct {
	mu     sync.Mutex
	id     string
	record *record.Record
	// raw is how many leading moves came from an SGF import and were placed
	// without rule checks.
	raw int
}

func NewSession(id string, size int) (*Session, error) {
	r, err := record.New(size)
	if err != nil {
		return nil, err
	}
	return &Session{id: id, record: r}, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Play(p board.Point) (game.View, rules.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.play(p)
	if err != nil {
		return game.View{}, rules.Result{}, err
	}
	return s.view(), res, nil
}

// Legal reports why the player to move could not play at p, or nil.
func (s *Session) Legal(p board.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rules.IsLegal(s.record.Current(), s.record.Turn(), p, s.record.KoMemory())
}

func (s *Session) StepBack() (game.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.stepBack()
	return s.view(), ok
}

func (s *Session) StepForward() (game.View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok := s.stepForward()
	return s.view(), ok
}

func (s *Session) View() game.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) SGF() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sgf.Encode(s.record)
}

// Import replaces the whole game with the one described by text.
func (s *Session) Import(text string) (game.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.replace(text); err != nil {
		return game.View{}, err
	}
	return s.view(), nil
}

func (s *Session) play(p board.Point) (rules.Result, error) {
	played := s.record.MovesPlayed()
	res, err := rules.Play(s.record, p)
	if err != nil {
		return rules.Result{}, err
	}
	s.raw = min(s.raw, played)
	return res, nil
}

func (s *Session) stepBack() bool {
	_, ok := s.record.StepBack()
	return ok
}

func (s *Session) stepForward() bool {
	_, ok := s.record.StepForward()
	return ok
}

func (s *Session) replace(text string) error {
	r, err := sgf.Decode(text)
	if err != nil {
		return err
	}
	// A decoded record that cannot be written back could not be cached either.
	if _, err := sgf.Encode(r); err != nil {
		return err
	}
	s.record = r
	s.raw = r.Len() - 1
	return nil
}

func (s *Session) cached() (game.CachedGame, error) {
	text, err := sgf.Encode(s.record)
	if err != nil {
		return game.CachedGame{}, err
	}
	return game.CachedGame{SGF: text, Raw: s.raw, Cursor: s.record.Cursor()}, nil
}

func (s *Session) view() game.View {
	// the cursor always points into the record
	counts, _ := s.record.CapturedCounts(s.record.Cursor())
	rows := s.record.Current().Rows()
	cells := make([][]string, len(rows))
	for y, row := range rows {
		cells[y] = make([]string, len(row))
		for x, c := range row {
			cells[y][x] = c.String()
		}
	}
	return game.View{
		GameID:         s.id,
		BoardSize:      s.record.Size(),
		Board:          cells,
		Cursor:         s.record.Cursor(),
		MovesPlayed:    s.record.MovesPlayed(),
		Turn:           s.record.Turn().String(),
		Captured:       counts,
		CanStepBack:    s.record.CanStepBack(),
		CanStepForward: s.record.CanStepForward(),
	}
}

// restoreSession rebuilds a session from its cached form: the imported
// prefix is placed as written, the rest is replayed with full rule checks,
// then the cursor is walked back to where it was.
func restoreSession(id string, cached game.CachedGame) (*Session, error) {
	size, moves := sgf.Moves(cached.SGF)
	raw := min(max(cached.Raw, 0), len(moves))

	r, err := sgf.Place(size, moves[:raw])
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", id, err)
	}
	for i, m := range moves[raw:] {
		if m.Color != r.Turn() {
			err := &rules.ReplayError{Index: raw + i, Move: m, Err: errs.ErrInvalidColor}
			return nil, fmt.Errorf("restore game %s: %w", id, err)
		}
		if _, err := rules.Play(r, m.Point); err != nil {
			err = &rules.ReplayError{Index: raw + i, Move: m, Err: err}
			return nil, fmt.Errorf("restore game %s: %w", id, err)
		}
	}
	for i := 0; i < cached.Cursor; i++ {
		if _, ok := r.StepBack(); !ok {
			break
		}
	}
	return &Session{id: id, record: r, raw: raw}, nil
}
