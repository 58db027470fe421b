package apperror

import "errors"

// Reason returns the machine-readable code transports report for a rejected
// placement, or "" when err is not a rejection. Snapshot errors may wrap the
// same sentinels but are never rejections.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSnapshot):
		return ""
	case errors.Is(err, ErrGameAlreadyOver):
		return "game_already_over"
	case errors.Is(err, ErrCellOutOfBounds):
		return "cell_out_of_bounds"
	case errors.Is(err, ErrCellOccupied):
		return "cell_occupied"
	default:
		return ""
	}
}
