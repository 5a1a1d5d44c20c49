package websocket

import (
	"encoding/json"

	"github.com/gridsquare/tictactoe-backend/internal/entity"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TurnPayload is the client payload for the game:turn action.
type TurnPayload struct {
	Cell int `json:"cell"`
}

// ResponsePayload carries the snapshot back to the client. Rule violations
// set Error alongside the unchanged game state.
type ResponsePayload struct {
	Game  *entity.Snapshot `json:"game,omitempty"`
	Error string           `json:"error,omitempty"`
}
