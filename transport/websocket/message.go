package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	actionGameNew     = "game:new"
	actionGameState   = "game:state"
	actionGameTurn    = "game:turn"
	actionGameReset   = "game:reset"
	actionGameRestore = "game:restore"
	actionGameOver    = "game:over"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload is shared by requests and responses; each action reads the fields it needs.
type Payload struct {
	GameID   string           `json:"game_id,omitempty"`
	Move     *entity.Move     `json:"move,omitempty"`
	Snapshot *entity.Snapshot `json:"snapshot,omitempty"`

	Game   *entity.Game  `json:"game,omitempty"`
	Status entity.Status `json:"status,omitempty"`
	Winner *entity.Color `json:"winner,omitempty"`

	Error  string `json:"error,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func encodeMessage(action string, payload Payload) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{
		Action:  action,
		Payload: payloadBytes,
	})
}
