package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/gridsquare/tictactoe-backend/internal/entity"
)

const sessionCookieName = "game_session"

type gameManager interface {
	CurrentState(ctx context.Context, sessionID string) (entity.Snapshot, error)
	MakeTurn(ctx context.Context, sessionID string, cell int) (entity.Snapshot, error)
	ResetRound(ctx context.Context, sessionID string) (entity.Snapshot, error)
	ResetScore(ctx context.Context, sessionID string) (entity.Snapshot, error)
}

type handlerFunc func(ctx context.Context, sessionID string, payload json.RawMessage) (entity.Snapshot, error)

// Server pushes game snapshots over a websocket so the presentation layer
// can redraw after every command without polling.
type Server struct {
	logger  *slog.Logger
	manager gameManager

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, manager gameManager) *Server {
	server := &Server{
		logger:  logger,
		manager: manager,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		handlers: make(map[string]handlerFunc),
	}

	server.handlers["game:state"] = server.handleState
	server.handlers["game:turn"] = server.handleTurn
	server.handlers["game:round:reset"] = server.handleRoundReset
	server.handlers["game:score:reset"] = server.handleScoreReset

	return server
}

// Start - serves the websocket endpoint until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.handleConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down WebSocket server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// handleConnection - upgrades the request and serves commands for one
// session. Input arrives serialized on the single read loop, so each engine
// command runs to completion before the next is accepted.
func (that *Server) handleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleConnection")

	sessionID, header := that.sessionID(r)

	conn, err := that.upgrader.Upgrade(w, r, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	log.Info("WebSocket connection established", "session_id", sessionID)

	for {
		var message Message
		if err = conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		if err = that.dispatch(ctx, conn, sessionID, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			return
		}
	}
}

func (that *Server) dispatch(ctx context.Context, conn *websocket.Conn, sessionID string, message *Message) error {
	handler, ok := that.handlers[message.Action]
	if !ok {
		return that.send(conn, message.Action, ResponsePayload{Error: "unknown action"})
	}

	snapshot, err := handler(ctx, sessionID, message.Payload)
	if err != nil {
		// rule violations travel in the payload with the unchanged snapshot
		resp := ResponsePayload{Error: err.Error()}
		if snapshot.Status != "" {
			resp.Game = &snapshot
		}
		return that.send(conn, message.Action, resp)
	}

	return that.send(conn, message.Action, ResponsePayload{Game: &snapshot})
}

func (that *Server) send(conn *websocket.Conn, action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// sessionID - reuses the browser's session cookie, minting one into the
// handshake response when it is missing.
func (that *Server) sessionID(r *http.Request) (string, http.Header) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	sessionID := uuid.NewString()
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Expires:  time.Now().Add(24 * time.Hour),
		Path:     "/",
		HttpOnly: true,
	}

	return sessionID, http.Header{"Set-Cookie": []string{cookie.String()}}
}
