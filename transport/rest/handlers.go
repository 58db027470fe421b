package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// maxBodyBytes bounds request bodies; a full 19x19 snapshot is well below it.
const maxBodyBytes = 1 << 20

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	PlaceStone(ctx context.Context, id string, cell entity.Cell) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	ExportSnapshot(ctx context.Context, id string) (*entity.Snapshot, error)
	ImportSnapshot(ctx context.Context, id string, snapshot *entity.Snapshot) (*entity.Game, error)
	DeleteGame(ctx context.Context, id string) error
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// placeResponse carries the placement outcome next to the updated game.
type placeResponse struct {
	Status entity.Status `json:"status"`
	Winner entity.Color  `json:"winner"`
	Game   *entity.Game  `json:"game"`
}

type gameHandler struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

func newGameHandler(logger *slog.Logger, gameUseCase gameUseCase) *gameHandler {
	return &gameHandler{
		logger:      logger,
		gameUseCase: gameUseCase,
	}
}

func (that *gameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

func (that *gameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *gameHandler) PlaceStone(w http.ResponseWriter, r *http.Request) {
	var move entity.Move
	if err := decodeBody(w, r, &move); err != nil {
		that.writeError(w, r, err)
		return
	}

	cell, err := move.Cell()
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	game, err := that.gameUseCase.PlaceStone(r.Context(), chi.URLParam(r, "id"), cell)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, placeResponse{
		Status: game.Status,
		Winner: game.State.Winner,
		Game:   game,
	})
}

func (that *gameHandler) ResetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.gameUseCase.ResetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *gameHandler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := that.gameUseCase.ExportSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (that *gameHandler) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	var snapshot entity.Snapshot
	if err := decodeBody(w, r, &snapshot); err != nil {
		that.writeError(w, r, err)
		return
	}

	game, err := that.gameUseCase.ImportSnapshot(r.Context(), chi.URLParam(r, "id"), &snapshot)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *gameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.DeleteGame(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps domain errors onto status codes. Anything unknown is a 500
// and its details stay in the log.
func (that *gameHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if reason := apperror.Reason(err); reason != "" {
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Reason: reason})
		return
	}

	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrGameNotFound.Error()})
	case errors.Is(err, apperror.ErrInvalidSnapshot):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, apperror.ErrInvalidMove), errors.Is(err, errMalformedBody):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		that.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

var errMalformedBody = errors.New("malformed request body")

// decodeBody reads one JSON value into v. Snapshot errors keep their own
// sentinel so they surface as 422 rather than 400.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, apperror.ErrInvalidSnapshot) {
			return err
		}
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}
