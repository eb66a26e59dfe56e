package game

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"goban/internal/bootstrap"
	"goban/internal/domain/board"
	"goban/internal/domain/game"
	"goban/internal/domain/sgf"
	errs "goban/internal/errors"
	"goban/internal/httpresponse"
	gameuc "goban/internal/usecase/game"
	"goban/internal/utils"
)

type GameHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase

	// watchers holds the open websockets of every game.
	watchersMu sync.RWMutex
	watchers   map[string]map[*watcher]struct{}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	return &GameHandler{
		cfg:      cfg,
		log:      log,
		gameUC:   gameUC,
		watchers: make(map[string]map[*watcher]struct{}),
	}
}

func (g *GameHandler) Router(r chi.Router) {
	r.Post("/games", g.HandleNewGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", g.HandleGetGame)
		r.Post("/moves", g.HandleMove)
		r.Get("/legal", g.HandleLegal)
		r.Post("/back", g.HandleStepBack)
		r.Post("/forward", g.HandleStepForward)
		r.Get("/sgf", g.HandleExportSGF)
		r.Post("/sgf", g.HandleImportSGF)
		r.Post("/archive", g.HandleArchive)
		r.Get("/ws", g.HandleGameSocket)
	})
	r.Get("/archive/{id}", g.HandleGetArchived)
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req game.CreateGameRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		g.log.Errorf("JSON decode error: %v", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, game.ErrorResponse{Description: err.Error()})
		return
	}

	view, err := g.gameUC.CreateGame(r.Context(), req.BoardSize)
	if err != nil {
		g.writeError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, view)
}

func (g *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	view, err := g.gameUC.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, view)
}

func (g *GameHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	var req game.MoveRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		g.log.Errorf("JSON decode error: %v", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, game.ErrorResponse{Description: err.Error()})
		return
	}

	gameID := chi.URLParam(r, "id")
	view, err := g.gameUC.Play(r.Context(), gameID, board.Point{X: req.X, Y: req.Y})
	if err != nil {
		g.writeError(w, err)
		return
	}

	g.broadcast(gameID, view)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, view)
}

// HandleLegal answers whether the player to move may play at ?x=&y=.
func (g *GameHandler) HandleLegal(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.URL.Query().Get("x"))
	y, errY := strconv.Atoi(r.URL.Query().Get("y"))
	if errX != nil || errY != nil {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, game.ErrorResponse{Description: "x and y must be integers"})
		return
	}

	err := g.gameUC.CheckMove(r.Context(), chi.URLParam(r, "id"), board.Point{X: x, Y: y})
	switch {
	case err == nil:
		httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.LegalityResponse{Legal: true})
	case errs.IsRejection(err):
		httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.LegalityResponse{Reason: errs.Reason(err)})
	default:
		g.writeError(w, err)
	}
}

func (g *GameHandler) HandleStepBack(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	view, changed, err := g.gameUC.StepBack(r.Context(), gameID)
	g.writeStep(w, gameID, view, changed, err)
}

func (g *GameHandler) HandleStepForward(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "id")
	view, changed, err := g.gameUC.StepForward(r.Context(), gameID)
	g.writeStep(w, gameID, view, changed, err)
}

func (g *GameHandler) writeStep(w http.ResponseWriter, gameID string, view game.View, changed bool, err error) {
	if err != nil {
		g.writeError(w, err)
		return
	}
	if changed {
		g.broadcast(gameID, view)
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.StepResponse{View: view, Changed: changed})
}

func (g *GameHandler) HandleExportSGF(w http.ResponseWriter, r *http.Request) {
	text, err := g.gameUC.ExportSGF(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", sgf.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+sgf.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (g *GameHandler) HandleImportSGF(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadRequestBody(w, r)
	if err != nil {
		g.log.Errorf("failed to read body: %v", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, game.ErrorResponse{Description: err.Error()})
		return
	}

	gameID := chi.URLParam(r, "id")
	view, err := g.gameUC.ImportSGF(r.Context(), gameID, string(body))
	if err != nil {
		g.writeError(w, err)
		return
	}

	g.broadcast(gameID, view)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, view)
}

func (g *GameHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	archived, err := g.gameUC.ArchiveGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, archived)
}

func (g *GameHandler) HandleGetArchived(w http.ResponseWriter, r *http.Request) {
	archived, err := g.gameUC.GetArchivedGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, archived)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrGameNotFound):
		return http.StatusNotFound
	case errs.IsRejection(err) && !errors.Is(err, errs.ErrOutOfBounds):
		return http.StatusConflict
	case errs.Reason(err) != "":
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		g.log.Error(err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteResponseWithStatus(w, status, game.ErrorResponse{
		Reason:      errs.Reason(err),
		Description: err.Error(),
	})
}
