package gomoku

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Snapshot captures the whole game. Restore(Snapshot()) yields an equal game.
func (that *Game) Snapshot() entity.Snapshot {
	return entity.Snapshot{
		BoardSize:  that.boardSize,
		WinLength:  that.winLength,
		Turn:       that.turn,
		GameOver:   that.gameOver,
		Winner:     that.winner,
		WhiteCells: cloneCells(that.white),
		BlackCells: cloneCells(that.black),
	}
}

// Restore replaces the game with the snapshot. On error nothing changes.
func (that *Game) Restore(snapshot entity.Snapshot) error {
	restored, err := that.fromSnapshot(snapshot)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidSnapshot, err)
	}

	*that = *restored

	return nil
}

// fromSnapshot builds a new game from the snapshot without touching the receiver.
func (that *Game) fromSnapshot(snapshot entity.Snapshot) (*Game, error) {
	if snapshot.BoardSize != that.boardSize {
		return nil, fmt.Errorf("board size %d, expected %d", snapshot.BoardSize, that.boardSize)
	}

	if snapshot.WinLength != that.winLength {
		return nil, fmt.Errorf("win length %d, expected %d", snapshot.WinLength, that.winLength)
	}

	if !snapshot.Turn.IsPlayer() {
		return nil, fmt.Errorf("turn must be white or black, got %s", snapshot.Turn)
	}

	switch snapshot.Winner {
	case entity.ColorNone:
	case entity.ColorWhite, entity.ColorBlack:
		if !snapshot.GameOver {
			return nil, fmt.Errorf("winner %s set on a game that is not over", snapshot.Winner)
		}
	default:
		return nil, fmt.Errorf("unknown winner %s", snapshot.Winner)
	}

	restored := &Game{
		boardSize: that.boardSize,
		winLength: that.winLength,
		grid:      make([]entity.Color, that.boardSize*that.boardSize),
		white:     cloneCells(snapshot.WhiteCells),
		black:     cloneCells(snapshot.BlackCells),
		turn:      snapshot.Turn,
		gameOver:  snapshot.GameOver,
		winner:    snapshot.Winner,
	}

	if err := restored.fill(restored.white, entity.ColorWhite); err != nil {
		return nil, err
	}

	if err := restored.fill(restored.black, entity.ColorBlack); err != nil {
		return nil, err
	}

	if err := restored.checkOutcome(); err != nil {
		return nil, err
	}

	return restored, nil
}

// checkOutcome rejects positions PlaceStone could never leave behind: a winner
// without a line, a line or a full board on a running game, a draw on a board
// with free cells.
func (that *Game) checkOutcome() error {
	full := that.MoveCount() == that.boardSize*that.boardSize

	if that.winner.IsPlayer() {
		that.winningLine = that.lineOf(that.winner)
		if that.winningLine == nil {
			return fmt.Errorf("winner %s has no line of %d", that.winner, that.winLength)
		}

		return nil
	}

	if that.gameOver {
		if !full {
			return fmt.Errorf("draw with %d free cells", that.boardSize*that.boardSize-that.MoveCount())
		}

		return nil
	}

	if full {
		return errors.New("board is full but the game is not over")
	}

	for _, color := range []entity.Color{entity.ColorWhite, entity.ColorBlack} {
		if that.lineOf(color) != nil {
			return fmt.Errorf("%s has a line of %d but the game is not over", color, that.winLength)
		}
	}

	return nil
}

// fill marks cells on the grid, rejecting out-of-range and already taken cells.
func (that *Game) fill(cells []entity.Cell, color entity.Color) error {
	for _, cell := range cells {
		if !cell.InBounds(that.boardSize) {
			return fmt.Errorf("%s stone %s: %w", color, cell, apperror.ErrCellOutOfBounds)
		}

		idx := that.index(cell)
		if owner := that.grid[idx]; owner != entity.ColorNone {
			return fmt.Errorf("%s stone %s already holds a %s stone: %w", color, cell, owner, apperror.ErrCellOccupied)
		}

		that.grid[idx] = color
	}

	return nil
}

// lineOf finds a winning run of color anywhere on the board.
func (that *Game) lineOf(color entity.Color) []entity.Cell {
	stones := that.white
	if color == entity.ColorBlack {
		stones = that.black
	}

	for _, cell := range stones {
		if line := findLine(that.grid, that.boardSize, that.winLength, cell); line != nil {
			return line
		}
	}

	return nil
}
