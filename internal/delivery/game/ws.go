package game

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"goban/internal/domain/board"
	"goban/internal/domain/game"
	errs "goban/internal/errors"
)

// watcher is one websocket; gorilla allows a single concurrent writer.
type watcher struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *watcher) send(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

// HandleGameSocket streams the game to the client and accepts move, back
// and forward frames. Every change is pushed to all sockets of the game;
// a rejected move is answered only to its sender.
func (g *GameHandler) HandleGameSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	gameID := chi.URLParam(r, "id")

	view, err := g.gameUC.GetGame(ctx, gameID)
	if err != nil {
		g.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Errorf("upgrade error: %v", err)
		return
	}

	self := &watcher{conn: conn}
	g.watch(gameID, self)
	defer func() {
		g.unwatch(gameID, self)
		conn.Close()
	}()

	if err := self.send(view); err != nil {
		g.log.Errorf("write error: %v", err)
		return
	}

	for {
		var msg game.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				g.log.Errorf("read error: %v", err)
			}
			return
		}

		var (
			next    game.View
			changed bool
		)
		switch msg.Type {
		case game.MessageMove:
			next, err = g.gameUC.Play(ctx, gameID, board.Point{X: msg.X, Y: msg.Y})
			changed = err == nil
		case game.MessageBack:
			next, changed, err = g.gameUC.StepBack(ctx, gameID)
		case game.MessageForward:
			next, changed, err = g.gameUC.StepForward(ctx, gameID)
		default:
			err = self.send(game.ErrorResponse{Description: "unknown message type " + msg.Type})
			if err != nil {
				return
			}
			continue
		}

		if err != nil {
			if statusFor(err) == http.StatusInternalServerError {
				g.log.Error(err)
			}
			if err := self.send(game.ErrorResponse{Reason: errs.Reason(err), Description: err.Error()}); err != nil {
				return
			}
			continue
		}
		if changed {
			g.broadcast(gameID, next)
		} else if err := self.send(next); err != nil {
			return
		}
	}
}

func (g *GameHandler) watch(gameID string, w *watcher) {
	g.watchersMu.Lock()
	defer g.watchersMu.Unlock()
	if g.watchers[gameID] == nil {
		g.watchers[gameID] = make(map[*watcher]struct{})
	}
	g.watchers[gameID][w] = struct{}{}
}

func (g *GameHandler) unwatch(gameID string, w *watcher) {
	g.watchersMu.Lock()
	defer g.watchersMu.Unlock()
	delete(g.watchers[gameID], w)
	if len(g.watchers[gameID]) == 0 {
		delete(g.watchers, gameID)
	}
}

func (g *GameHandler) broadcast(gameID string, view game.View) {
	g.watchersMu.RLock()
	targets := make([]*watcher, 0, len(g.watchers[gameID]))
	for w := range g.watchers[gameID] {
		targets = append(targets, w)
	}
	g.watchersMu.RUnlock()

	for _, w := range targets {
		if err := w.send(view); err != nil {
			g.log.Errorf("write to watcher of game %s: %v", gameID, err)
			w.conn.Close()
		}
	}
}
