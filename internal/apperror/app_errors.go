package apperror

import "errors"

var (
	ErrGameAlreadyOver = errors.New("game is already over")
	ErrCellOutOfBounds = errors.New("cell is out of bounds")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrInvalidMove     = errors.New("invalid move")
	ErrGameNotFound    = errors.New("game not found")
)
