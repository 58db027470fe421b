package entity

import (
	"encoding/json"
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColor(t *testing.T) {
	t.Run("Opponent swaps players", func(t *testing.T) {
		assert.Equal(t, ColorBlack, ColorWhite.Opponent())
		assert.Equal(t, ColorWhite, ColorBlack.Opponent())
		assert.Equal(t, ColorNone, ColorNone.Opponent())
	})

	t.Run("Colors travel as lowercase names", func(t *testing.T) {
		// Given: every known color
		for _, color := range []Color{ColorNone, ColorWhite, ColorBlack} {
			// When: it is marshaled and read back
			data, err := json.Marshal(color)
			require.NoError(t, err)

			var decoded Color
			require.NoError(t, json.Unmarshal(data, &decoded))

			// Then: the name is its String form and the value survives
			assert.Equal(t, `"`+color.String()+`"`, string(data))
			assert.Equal(t, color, decoded)
		}
	})

	t.Run("Error on unknown color name", func(t *testing.T) {
		var color Color
		err := json.Unmarshal([]byte(`"red"`), &color)

		assert.ErrorIs(t, err, ErrUnknownColor)
	})

	t.Run("Error on marshaling an unknown color", func(t *testing.T) {
		_, err := json.Marshal(Color(9))

		assert.ErrorIs(t, err, ErrUnknownColor)
	})
}

func TestCell(t *testing.T) {
	t.Run("InBounds", func(t *testing.T) {
		assert.True(t, NewCell(0, 0).InBounds(10))
		assert.True(t, NewCell(9, 9).InBounds(10))
		assert.False(t, NewCell(10, 0).InBounds(10))
		assert.False(t, NewCell(0, 10).InBounds(10))
		assert.False(t, NewCell(-1, 3).InBounds(10))
	})

	t.Run("Cell travels as a pair", func(t *testing.T) {
		data, err := json.Marshal(NewCell(3, 7))
		require.NoError(t, err)
		assert.JSONEq(t, `[3,7]`, string(data))

		var cell Cell
		require.NoError(t, json.Unmarshal([]byte(`[4, 1]`), &cell))
		assert.Equal(t, NewCell(4, 1), cell)
	})

	t.Run("Error on malformed cell", func(t *testing.T) {
		for _, raw := range []string{`[1]`, `[1,2,3]`, `{"col":1}`, `"a"`} {
			var cell Cell
			err := json.Unmarshal([]byte(raw), &cell)

			assert.ErrorIs(t, err, ErrMalformedCell, raw)
		}
	})
}

func TestCellFromPoint(t *testing.T) {
	testCases := []struct {
		name       string
		x, y       float64
		lineHeight float64
		expected   Cell
	}{
		{name: "Origin", x: 0, y: 0, lineHeight: 48, expected: NewCell(0, 0)},
		{name: "Inside first cell", x: 47.9, y: 12, lineHeight: 48, expected: NewCell(0, 0)},
		{name: "Cell boundary", x: 48, y: 96, lineHeight: 48, expected: NewCell(1, 2)},
		{name: "Fractional spacing", x: 250, y: 99, lineHeight: 33.3, expected: NewCell(7, 2)},
		{name: "Past the board", x: 500, y: 10, lineHeight: 48, expected: NewCell(10, 0)},
		{name: "Negative pixel", x: -1, y: 10, lineHeight: 48, expected: NewCell(-1, 0)},
		{name: "Zero spacing", x: 10, y: 10, lineHeight: 0, expected: NewCell(-1, -1)},
		{name: "Negative spacing", x: 10, y: 10, lineHeight: -5, expected: NewCell(-1, -1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CellFromPoint(tc.x, tc.y, tc.lineHeight))
		})
	}
}

func TestSnapshot_JSON(t *testing.T) {
	t.Run("Snapshot wire format", func(t *testing.T) {
		// Given: a snapshot mid-game
		snapshot := Snapshot{
			BoardSize:  10,
			WinLength:  5,
			Turn:       ColorBlack,
			Winner:     ColorNone,
			WhiteCells: []Cell{NewCell(0, 0), NewCell(1, 0)},
			BlackCells: []Cell{},
		}

		// When: it is marshaled
		data, err := json.Marshal(snapshot)
		require.NoError(t, err)

		// Then: every field is present in the documented layout
		assert.JSONEq(t, `{
			"board_size": 10,
			"win_length": 5,
			"turn": "black",
			"game_over": false,
			"winner": "none",
			"white_cells": [[0,0],[1,0]],
			"black_cells": []
		}`, string(data))

		var decoded Snapshot
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, snapshot, decoded)
	})

	t.Run("Error on missing field", func(t *testing.T) {
		full := map[string]any{
			"board_size":  10,
			"win_length":  5,
			"turn":        "white",
			"game_over":   false,
			"winner":      "none",
			"white_cells": [][2]int{},
			"black_cells": [][2]int{},
		}

		for field := range full {
			// Given: a snapshot without one field
			partial := make(map[string]any, len(full))
			for key, value := range full {
				if key != field {
					partial[key] = value
				}
			}

			data, err := json.Marshal(partial)
			require.NoError(t, err)

			// When: it is decoded
			var snapshot Snapshot
			err = json.Unmarshal(data, &snapshot)

			// Then: ErrInvalidSnapshot names the missing field
			require.ErrorIs(t, err, apperror.ErrInvalidSnapshot, field)
			require.ErrorIs(t, err, ErrMissingField, field)
			assert.Contains(t, err.Error(), field)
		}
	})

	t.Run("Error on bad color", func(t *testing.T) {
		raw := `{"board_size":10,"win_length":5,"turn":"green","game_over":false,"winner":"none","white_cells":[],"black_cells":[]}`

		var snapshot Snapshot
		err := json.Unmarshal([]byte(raw), &snapshot)

		require.ErrorIs(t, err, apperror.ErrInvalidSnapshot)
		require.ErrorIs(t, err, ErrUnknownColor)
	})
}

func TestMove_Cell(t *testing.T) {
	intPtr := func(v int) *int { return &v }
	floatPtr := func(v float64) *float64 { return &v }

	t.Run("Quantized cell", func(t *testing.T) {
		cell, err := Move{Col: intPtr(3), Row: intPtr(4)}.Cell()

		require.NoError(t, err)
		assert.Equal(t, NewCell(3, 4), cell)
	})

	t.Run("Pointer position", func(t *testing.T) {
		cell, err := Move{X: floatPtr(130), Y: floatPtr(20), LineHeight: floatPtr(64)}.Cell()

		require.NoError(t, err)
		assert.Equal(t, NewCell(2, 0), cell)
	})

	t.Run("Col and row win over pointer position", func(t *testing.T) {
		cell, err := Move{Col: intPtr(0), Row: intPtr(0), X: floatPtr(500), Y: floatPtr(500), LineHeight: floatPtr(1)}.Cell()

		require.NoError(t, err)
		assert.Equal(t, NewCell(0, 0), cell)
	})

	t.Run("Error on incomplete move", func(t *testing.T) {
		for _, move := range []Move{{}, {Col: intPtr(1)}, {X: floatPtr(1), Y: floatPtr(1)}} {
			_, err := move.Cell()

			assert.ErrorIs(t, err, apperror.ErrInvalidMove)
		}
	})
}
