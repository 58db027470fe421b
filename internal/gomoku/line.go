package gomoku

import "github.com/rocketscienceinc/gomoku-backend/internal/entity"

type direction struct {
	dCol int
	dRow int
}

// directions are checked in this order: horizontal, vertical, diagonal ↗, diagonal ↘.
// Rows grow downwards, so ↗ steps one column right and one row up.
var directions = [4]direction{
	{dCol: 1, dRow: 0},
	{dCol: 0, dRow: 1},
	{dCol: 1, dRow: -1},
	{dCol: 1, dRow: 1},
}

// findLine looks for winLength or more same-colored stones in a row through cell.
// It returns the whole run, ordered from its negative end, or nil.
func findLine(grid []entity.Color, boardSize, winLength int, cell entity.Cell) []entity.Cell {
	if !cell.InBounds(boardSize) {
		return nil
	}

	color := grid[cell.Row*boardSize+cell.Col]
	if color == entity.ColorNone {
		return nil
	}

	for _, dir := range directions {
		forward := countDirection(grid, boardSize, cell, color, dir.dCol, dir.dRow)
		backward := countDirection(grid, boardSize, cell, color, -dir.dCol, -dir.dRow)

		count := 1 + forward + backward
		if count < winLength {
			continue
		}

		start := cell.Add(-dir.dCol, -dir.dRow, backward)
		line := make([]entity.Cell, count)
		for i := range line {
			line[i] = start.Add(dir.dCol, dir.dRow, i)
		}

		return line
	}

	return nil
}

// countDirection counts consecutive stones of color after cell, not including cell.
func countDirection(grid []entity.Color, boardSize int, cell entity.Cell, color entity.Color, dCol, dRow int) int {
	count := 0

	next := cell.Add(dCol, dRow, 1)
	for next.InBounds(boardSize) && grid[next.Row*boardSize+next.Col] == color {
		count++
		next = next.Add(dCol, dRow, 1)
	}

	return count
}
