package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/gridsquare/tictactoe-backend/internal/apperror"
	"github.com/gridsquare/tictactoe-backend/internal/entity"
)

const sessionCookieName = "game_session"

type turnRequest struct {
	Cell int `json:"cell"`
}

type gameResponse struct {
	Game  *entity.Snapshot `json:"game,omitempty"`
	Error string           `json:"error,omitempty"`
}

func (that *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sessionID := that.sessionID(w, r)

	snapshot, err := that.manager.CurrentState(r.Context(), sessionID)
	if err != nil {
		that.writeError(w, "handleState", err)
		return
	}

	that.writeSnapshot(w, http.StatusOK, snapshot)
}

func (that *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := that.sessionID(w, r)

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, gameResponse{Error: "invalid request body"})
		return
	}

	snapshot, err := that.manager.MakeTurn(r.Context(), sessionID, req.Cell)
	if err != nil {
		that.writeError(w, "handleTurn", err)
		return
	}

	that.writeSnapshot(w, http.StatusOK, snapshot)
}

func (that *Server) handleRoundReset(w http.ResponseWriter, r *http.Request) {
	sessionID := that.sessionID(w, r)

	snapshot, err := that.manager.ResetRound(r.Context(), sessionID)
	if err != nil {
		that.writeError(w, "handleRoundReset", err)
		return
	}

	that.writeSnapshot(w, http.StatusOK, snapshot)
}

func (that *Server) handleScoreReset(w http.ResponseWriter, r *http.Request) {
	sessionID := that.sessionID(w, r)

	snapshot, err := that.manager.ResetScore(r.Context(), sessionID)
	if err != nil {
		that.writeError(w, "handleScoreReset", err)
		return
	}

	that.writeSnapshot(w, http.StatusOK, snapshot)
}

// sessionID - reads the session cookie, creating one when the browser shows
// up without it.
func (that *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sessionID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Expires:  time.Now().Add(24 * time.Hour),
		Path:     "/",
		HttpOnly: true,
	})

	return sessionID
}

// writeError - maps rule violations to client errors; everything else is a
// server failure.
func (that *Server) writeError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell):
		that.writeJSON(w, http.StatusBadRequest, gameResponse{Error: err.Error()})
	case errors.Is(err, apperror.ErrCellOccupied), errors.Is(err, apperror.ErrGameFinished):
		that.writeJSON(w, http.StatusConflict, gameResponse{Error: err.Error()})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, gameResponse{Error: "internal error"})
	}
}

func (that *Server) writeSnapshot(w http.ResponseWriter, status int, snapshot entity.Snapshot) {
	that.writeJSON(w, status, gameResponse{Game: &snapshot})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body gameResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
