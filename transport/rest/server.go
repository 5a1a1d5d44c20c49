package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gridsquare/tictactoe-backend/internal/entity"
)

type gameManager interface {
	CurrentState(ctx context.Context, sessionID string) (entity.Snapshot, error)
	MakeTurn(ctx context.Context, sessionID string, cell int) (entity.Snapshot, error)
	ResetRound(ctx context.Context, sessionID string) (entity.Snapshot, error)
	ResetScore(ctx context.Context, sessionID string) (entity.Snapshot, error)
}

// Server is the JSON API consumed by the static presentation layer.
type Server struct {
	logger  *slog.Logger
	manager gameManager
}

func New(logger *slog.Logger, manager gameManager) *Server {
	return &Server{
		logger:  logger,
		manager: manager,
	}
}

// Start - serves the API until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", pingHandler)
	mux.HandleFunc("GET /api/game", that.handleState)
	mux.HandleFunc("POST /api/game/turn", that.handleTurn)
	mux.HandleFunc("POST /api/game/round/reset", that.handleRoundReset)
	mux.HandleFunc("POST /api/game/score/reset", that.handleScoreReset)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func pingHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}
