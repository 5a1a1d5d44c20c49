package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gridsquare/tictactoe-backend/internal/apperror"
	"github.com/gridsquare/tictactoe-backend/internal/entity"
	"github.com/gridsquare/tictactoe-backend/internal/tictactoe"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

// SessionManager runs engine commands against persisted sessions. Each call
// loads the session, applies exactly one command, and writes the result
// back, so a session only ever changes inside a command handler.
type SessionManager struct {
	logger   *slog.Logger
	sessions sessionRepo
}

func NewSessionManager(logger *slog.Logger, sessions sessionRepo) *SessionManager {
	return &SessionManager{
		logger:   logger,
		sessions: sessions,
	}
}

// GetOrCreateSession - returns the stored session for id, creating and
// persisting a fresh one when id is empty or unknown.
func (that *SessionManager) GetOrCreateSession(ctx context.Context, id string) (*entity.Session, error) {
	log := that.logger.With("method", "GetOrCreateSession")

	if id == "" {
		id = uuid.NewString()
	}

	session, err := that.sessions.GetByID(ctx, id)
	if err == nil {
		return session, nil
	}

	if !errors.Is(err, apperror.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	session = entity.NewSession(id)
	if err = that.sessions.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info("new session created", "session_id", id)

	return session, nil
}

// CurrentState - returns the session's snapshot with no side effects.
func (that *SessionManager) CurrentState(ctx context.Context, sessionID string) (entity.Snapshot, error) {
	session, err := that.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		return entity.Snapshot{}, err
	}

	return tictactoe.New(session).CurrentState(), nil
}

// MakeTurn - applies one move for the session's current mover. Rule
// violations come back as apperror sentinels alongside the unchanged
// snapshot; nothing is persisted in that case.
func (that *SessionManager) MakeTurn(ctx context.Context, sessionID string, cell int) (entity.Snapshot, error) {
	session, err := that.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		return entity.Snapshot{}, err
	}

	snapshot, err := tictactoe.New(session).MakeMove(cell)
	if err != nil {
		return snapshot, err
	}

	if err = that.sessions.CreateOrUpdate(ctx, session); err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to update session: %w", err)
	}

	return snapshot, nil
}

// ResetRound - starts a fresh round for the session, keeping the score.
func (that *SessionManager) ResetRound(ctx context.Context, sessionID string) (entity.Snapshot, error) {
	session, err := that.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		return entity.Snapshot{}, err
	}

	snapshot := tictactoe.New(session).ResetRound()

	if err = that.sessions.CreateOrUpdate(ctx, session); err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to update session: %w", err)
	}

	return snapshot, nil
}

// ResetScore - zeroes the session's score without touching the round.
func (that *SessionManager) ResetScore(ctx context.Context, sessionID string) (entity.Snapshot, error) {
	session, err := that.GetOrCreateSession(ctx, sessionID)
	if err != nil {
		return entity.Snapshot{}, err
	}

	snapshot := tictactoe.New(session).ResetScore()

	if err = that.sessions.CreateOrUpdate(ctx, session); err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to update session: %w", err)
	}

	return snapshot, nil
}

// EndSession - drops the session from storage entirely.
func (that *SessionManager) EndSession(ctx context.Context, sessionID string) error {
	log := that.logger.With("method", "EndSession")

	if err := that.sessions.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	log.Info("session deleted", "session_id", sessionID)

	return nil
}
