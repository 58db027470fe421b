package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, id string, snapshot *entity.Snapshot) error
	GetByID(ctx context.Context, id string) (*entity.Snapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

// GameManager runs hot-seat matches kept in the repository as snapshots.
// Every call loads the match, applies one operation and stores it back while
// holding the manager lock, so a match never sees two writers.
type GameManager struct {
	logger   *slog.Logger
	gameRepo gameRepo

	boardSize int
	winLength int

	mu sync.Mutex
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, boardSize, winLength int) (*GameManager, error) {
	if err := gomoku.ValidateSettings(boardSize, winLength); err != nil {
		return nil, fmt.Errorf("failed to create game manager: %w", err)
	}

	return &GameManager{
		logger:    logger.With("component", "game_manager"),
		gameRepo:  gameRepo,
		boardSize: boardSize,
		winLength: winLength,
	}, nil
}

func (that *GameManager) CreateGame(ctx context.Context) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := gomoku.NewGame(that.boardSize, that.winLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	id := uuid.NewString()
	if err = that.updateGame(ctx, id, game); err != nil {
		return nil, err
	}

	that.logger.Info("game created", "game_id", id)

	return toView(id, game), nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toView(id, game), nil
}

// PlaceStone plays cell for whoever is to move. A rejected placement returns
// the unchanged game together with the rejection error.
func (that *GameManager) PlaceStone(ctx context.Context, id string, cell entity.Cell) (*entity.Game, error) {
	log := that.logger.With("method", "PlaceStone", "game_id", id)

	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := game.PlaceStone(cell)
	if err != nil {
		log.Debug("stone rejected", "cell", cell.String(), "error", err)
		return toView(id, game), fmt.Errorf("failed to place stone: %w", err)
	}

	if err = that.updateGame(ctx, id, game); err != nil {
		return nil, err
	}

	switch result.Status {
	case entity.StatusWin:
		log.Info("game won", "winner", result.Winner.String(), "moves", game.MoveCount())
	case entity.StatusDraw:
		log.Info("game drawn", "moves", game.MoveCount())
	default:
	}

	return toView(id, game), nil
}

func (that *GameManager) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	game.Reset()

	if err = that.updateGame(ctx, id, game); err != nil {
		return nil, err
	}

	that.logger.Info("game reset", "game_id", id)

	return toView(id, game), nil
}

func (that *GameManager) ExportSnapshot(ctx context.Context, id string) (*entity.Snapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := game.Snapshot()

	return &snapshot, nil
}

// ImportSnapshot replaces the match with snapshot. An unknown id starts a new
// match under that id, which is how a client brings back a game it saved itself.
// A stored match that no longer loads is overwritten the same way.
func (that *GameManager) ImportSnapshot(ctx context.Context, id string, snapshot *entity.Snapshot) (*entity.Game, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("%w: empty snapshot", apperror.ErrInvalidSnapshot)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	game, err := that.getGameByID(ctx, id)
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		game, err = gomoku.NewGame(that.boardSize, that.winLength)
	case errors.Is(err, apperror.ErrInvalidSnapshot):
		that.logger.Warn("stored game does not load, replacing it", "game_id", id, "error", err)
		game, err = gomoku.NewGame(that.boardSize, that.winLength)
	}

	if err != nil {
		return nil, err
	}

	if err = game.Restore(*snapshot); err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}

	if err = that.updateGame(ctx, id, game); err != nil {
		return nil, err
	}

	that.logger.Info("game restored", "game_id", id, "moves", game.MoveCount())

	return toView(id, game), nil
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "game_id", id)

	return nil
}

// getGameByID loads a stored snapshot into a live game.
func (that *GameManager) getGameByID(ctx context.Context, id string) (*gomoku.Game, error) {
	snapshot, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game, err := gomoku.NewGame(that.boardSize, that.winLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if err = game.Restore(*snapshot); err != nil {
		return nil, fmt.Errorf("failed to load stored game %s: %w", id, err)
	}

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, id string, game *gomoku.Game) error {
	snapshot := game.Snapshot()
	if err := that.gameRepo.CreateOrUpdate(ctx, id, &snapshot); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func toView(id string, game *gomoku.Game) *entity.Game {
	return &entity.Game{
		ID:          id,
		Status:      game.Status(),
		State:       game.Snapshot(),
		WinningLine: game.WinningLine(),
	}
}
