package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gridsquare/tictactoe-backend/internal/entity"
)

func (that *Server) handleState(ctx context.Context, sessionID string, _ json.RawMessage) (entity.Snapshot, error) {
	return that.manager.CurrentState(ctx, sessionID)
}

func (that *Server) handleTurn(ctx context.Context, sessionID string, payload json.RawMessage) (entity.Snapshot, error) {
	var req TurnPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return that.manager.MakeTurn(ctx, sessionID, req.Cell)
}

func (that *Server) handleRoundReset(ctx context.Context, sessionID string, _ json.RawMessage) (entity.Snapshot, error) {
	return that.manager.ResetRound(ctx, sessionID)
}

func (that *Server) handleScoreReset(ctx context.Context, sessionID string, _ json.RawMessage) (entity.Snapshot, error) {
	return that.manager.ResetScore(ctx, sessionID)
}
