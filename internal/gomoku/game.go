package gomoku

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	DefaultBoardSize = 10
	DefaultWinLength = 5
)

var ErrInvalidSettings = errors.New("invalid game settings")

// Result is the outcome of PlaceStone. Winner is set only for StatusWin.
type Result struct {
	Status entity.Status
	Winner entity.Color
}

// Game holds one match. It is not safe for concurrent use: callers serialize
// PlaceStone, Reset and Restore themselves.
type Game struct {
	boardSize int
	winLength int

	// grid is indexed row*boardSize+col, ColorNone marks an empty cell.
	grid  []entity.Color
	white []entity.Cell
	black []entity.Cell

	turn        entity.Color
	gameOver    bool
	winner      entity.Color
	winningLine []entity.Cell
}

// NewGame returns an empty board with White to move.
func NewGame(boardSize, winLength int) (*Game, error) {
	if err := ValidateSettings(boardSize, winLength); err != nil {
		return nil, err
	}

	game := &Game{
		boardSize: boardSize,
		winLength: winLength,
	}
	game.Reset()

	return game, nil
}

// ValidateSettings checks that a line of winLength fits on the board.
func ValidateSettings(boardSize, winLength int) error {
	if boardSize < 1 {
		return fmt.Errorf("%w: board size %d", ErrInvalidSettings, boardSize)
	}

	if winLength < 1 || winLength > boardSize {
		return fmt.Errorf("%w: win length %d on a board of %d", ErrInvalidSettings, winLength, boardSize)
	}

	return nil
}

// PlaceStone puts a stone of the current color on cell. A rejected placement
// returns StatusRejected with the reason and leaves the game untouched.
func (that *Game) PlaceStone(cell entity.Cell) (Result, error) {
	if err := that.validatePlacement(cell); err != nil {
		return Result{Status: entity.StatusRejected}, fmt.Errorf("stone rejected: %w", err)
	}

	color := that.turn
	that.grid[that.index(cell)] = color
	that.appendStone(color, cell)

	return that.updateGameStatus(cell, color), nil
}

// validatePlacement - checks if the stone can be placed.
func (that *Game) validatePlacement(cell entity.Cell) error {
	if that.gameOver {
		return apperror.ErrGameAlreadyOver
	}

	if !cell.InBounds(that.boardSize) {
		return fmt.Errorf("%w: %s on a board of %d", apperror.ErrCellOutOfBounds, cell, that.boardSize)
	}

	if that.grid[that.index(cell)] != entity.ColorNone {
		return fmt.Errorf("%w: %s", apperror.ErrCellOccupied, cell)
	}

	return nil
}

// updateGameStatus - ends the game on a line or a full board, passes the turn otherwise.
func (that *Game) updateGameStatus(cell entity.Cell, color entity.Color) Result {
	if line := findLine(that.grid, that.boardSize, that.winLength, cell); line != nil {
		that.gameOver = true
		that.winner = color
		that.winningLine = line

		return Result{Status: entity.StatusWin, Winner: color}
	}

	if that.MoveCount() == that.boardSize*that.boardSize {
		that.gameOver = true
		that.winner = entity.ColorNone

		return Result{Status: entity.StatusDraw}
	}

	that.turn = color.Opponent()

	return Result{Status: entity.StatusContinue}
}

func (that *Game) appendStone(color entity.Color, cell entity.Cell) {
	if color == entity.ColorWhite {
		that.white = append(that.white, cell)
		return
	}
	that.black = append(that.black, cell)
}

// IsOccupied returns the color of the stone on cell, ColorNone if it is empty or off the board.
func (that *Game) IsOccupied(cell entity.Cell) entity.Color {
	if !cell.InBounds(that.boardSize) {
		return entity.ColorNone
	}

	return that.grid[that.index(cell)]
}

// Reset clears the board and gives the first move back to White.
func (that *Game) Reset() {
	that.grid = make([]entity.Color, that.boardSize*that.boardSize)
	that.white = nil
	that.black = nil
	that.turn = entity.ColorWhite
	that.gameOver = false
	that.winner = entity.ColorNone
	that.winningLine = nil
}

func (that *Game) BoardSize() int {
	return that.boardSize
}

func (that *Game) WinLength() int {
	return that.winLength
}

func (that *Game) Turn() entity.Color {
	return that.turn
}

func (that *Game) IsOver() bool {
	return that.gameOver
}

func (that *Game) Winner() entity.Color {
	return that.winner
}

func (that *Game) MoveCount() int {
	return len(that.white) + len(that.black)
}

// Status reports the phase of the game: continue, win or draw.
func (that *Game) Status() entity.Status {
	switch {
	case !that.gameOver:
		return entity.StatusContinue
	case that.winner.IsPlayer():
		return entity.StatusWin
	default:
		return entity.StatusDraw
	}
}

// Stones returns the cells of one color in placement order.
func (that *Game) Stones(color entity.Color) []entity.Cell {
	switch color {
	case entity.ColorWhite:
		return cloneCells(that.white)
	case entity.ColorBlack:
		return cloneCells(that.black)
	default:
		return []entity.Cell{}
	}
}

// WinningLine returns the run of stones that ended the game, nil when nobody has won.
func (that *Game) WinningLine() []entity.Cell {
	if that.winningLine == nil {
		return nil
	}

	return cloneCells(that.winningLine)
}

func (that *Game) index(cell entity.Cell) int {
	return cell.Row*that.boardSize + cell.Col
}

func cloneCells(cells []entity.Cell) []entity.Cell {
	out := make([]entity.Cell, len(cells))
	copy(out, cells)

	return out
}
