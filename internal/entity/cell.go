package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownColor  = errors.New("unknown color")
	ErrMalformedCell = errors.New("cell must be a [col, row] pair")
)

// Cell is a board coordinate, 0-indexed. It travels over the wire as [col, row].
type Cell struct {
	Col int
	Row int
}

func NewCell(col, row int) Cell {
	return Cell{Col: col, Row: row}
}

// InBounds reports whether the cell lies within [0,size)×[0,size).
func (that Cell) InBounds(size int) bool {
	return that.Col >= 0 && that.Row >= 0 && that.Col < size && that.Row < size
}

// Add shifts the cell by (dCol, dRow) steps times.
func (that Cell) Add(dCol, dRow, steps int) Cell {
	return Cell{Col: that.Col + dCol*steps, Row: that.Row + dRow*steps}
}

func (that Cell) String() string {
	return fmt.Sprintf("(%d,%d)", that.Col, that.Row)
}

func (that Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{that.Col, that.Row})
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedCell, err)
	}

	if len(pair) != 2 {
		return fmt.Errorf("%w: got %d values", ErrMalformedCell, len(pair))
	}

	that.Col, that.Row = pair[0], pair[1]

	return nil
}

// CellFromPoint quantizes a pointer position into a cell: floor(pixel / lineHeight) per axis.
// A non-positive line height yields (-1,-1), which no board accepts.
func CellFromPoint(x, y, lineHeight float64) Cell {
	if lineHeight <= 0 || math.IsNaN(lineHeight) || math.IsInf(lineHeight, 0) {
		return Cell{Col: -1, Row: -1}
	}

	return Cell{
		Col: quantize(x, lineHeight),
		Row: quantize(y, lineHeight),
	}
}

func quantize(pixel, lineHeight float64) int {
	value := math.Floor(pixel / lineHeight)
	if math.IsNaN(value) || value < math.MinInt32 || value > math.MaxInt32 {
		return -1
	}

	return int(value)
}
