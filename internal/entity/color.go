package entity

import "fmt"

// Color identifies a player. ColorNone marks an empty cell or the absence of a winner.
type Color int

const (
	ColorNone Color = iota
	ColorWhite
	ColorBlack
)

const (
	colorNoneText  = "none"
	colorWhiteText = "white"
	colorBlackText = "black"
)

// Opponent returns the other player. ColorNone has no opponent.
func (that Color) Opponent() Color {
	switch that {
	case ColorWhite:
		return ColorBlack
	case ColorBlack:
		return ColorWhite
	default:
		return ColorNone
	}
}

// IsPlayer reports whether the color is White or Black.
func (that Color) IsPlayer() bool {
	return that == ColorWhite || that == ColorBlack
}

func (that Color) String() string {
	switch that {
	case ColorWhite:
		return colorWhiteText
	case ColorBlack:
		return colorBlackText
	case ColorNone:
		return colorNoneText
	default:
		return fmt.Sprintf("color(%d)", int(that))
	}
}

func (that Color) MarshalText() ([]byte, error) {
	switch that {
	case ColorNone, ColorWhite, ColorBlack:
		return []byte(that.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownColor, int(that))
	}
}

func (that *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case colorWhiteText:
		*that = ColorWhite
	case colorBlackText:
		*that = ColorBlack
	case colorNoneText:
		*that = ColorNone
	default:
		return fmt.Errorf("%w: %q", ErrUnknownColor, string(text))
	}

	return nil
}
