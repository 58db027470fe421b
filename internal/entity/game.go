package entity

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

// Status is the outcome of a placement, and the phase a game view reports.
type Status string

const (
	StatusContinue Status = "continue"
	StatusWin      Status = "win"
	StatusDraw     Status = "draw"
	StatusRejected Status = "rejected"
)

var ErrMissingField = errors.New("missing field")

// Snapshot is the serialized form of a whole game. Cell lists keep placement order.
type Snapshot struct {
	BoardSize  int    `json:"board_size"`
	WinLength  int    `json:"win_length"`
	Turn       Color  `json:"turn"`
	GameOver   bool   `json:"game_over"`
	Winner     Color  `json:"winner"`
	WhiteCells []Cell `json:"white_cells"`
	BlackCells []Cell `json:"black_cells"`
}

// UnmarshalJSON requires every field to be present.
func (that *Snapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		BoardSize  *int    `json:"board_size"`
		WinLength  *int    `json:"win_length"`
		Turn       *Color  `json:"turn"`
		GameOver   *bool   `json:"game_over"`
		Winner     *Color  `json:"winner"`
		WhiteCells *[]Cell `json:"white_cells"`
		BlackCells *[]Cell `json:"black_cells"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidSnapshot, err)
	}

	switch {
	case raw.BoardSize == nil:
		return missingField("board_size")
	case raw.WinLength == nil:
		return missingField("win_length")
	case raw.Turn == nil:
		return missingField("turn")
	case raw.GameOver == nil:
		return missingField("game_over")
	case raw.Winner == nil:
		return missingField("winner")
	case raw.WhiteCells == nil:
		return missingField("white_cells")
	case raw.BlackCells == nil:
		return missingField("black_cells")
	}

	*that = Snapshot{
		BoardSize:  *raw.BoardSize,
		WinLength:  *raw.WinLength,
		Turn:       *raw.Turn,
		GameOver:   *raw.GameOver,
		Winner:     *raw.Winner,
		WhiteCells: *raw.WhiteCells,
		BlackCells: *raw.BlackCells,
	}

	return nil
}

func missingField(name string) error {
	return fmt.Errorf("%w: %w %q", apperror.ErrInvalidSnapshot, ErrMissingField, name)
}

// Game is what clients see of a match.
type Game struct {
	ID          string   `json:"id"`
	Status      Status   `json:"status"`
	State       Snapshot `json:"state"`
	WinningLine []Cell   `json:"winning_line,omitempty"`
}

func (that *Game) IsOver() bool {
	return that.State.GameOver
}

// Move is a placement as a client sends it: either a quantized cell (col, row)
// or a raw pointer position (x, y) together with the board's line spacing.
type Move struct {
	Col        *int     `json:"col,omitempty"`
	Row        *int     `json:"row,omitempty"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	LineHeight *float64 `json:"line_height,omitempty"`
}

func (that Move) Cell() (Cell, error) {
	switch {
	case that.Col != nil && that.Row != nil:
		return NewCell(*that.Col, *that.Row), nil
	case that.X != nil && that.Y != nil && that.LineHeight != nil:
		return CellFromPoint(*that.X, *that.Y, *that.LineHeight), nil
	default:
		return Cell{}, fmt.Errorf("%w: expected col and row, or x, y and line_height", apperror.ErrInvalidMove)
	}
}
