package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridsquare/tictactoe-backend/internal/entity"
	"github.com/gridsquare/tictactoe-backend/internal/tictactoe"
)

// memoryManager backs the handlers with real engines over an in-memory
// session map, so handler tests exercise the full rule set without redis.
type memoryManager struct {
	sessions map[string]*entity.Session
}

func newMemoryManager() *memoryManager {
	return &memoryManager{sessions: make(map[string]*entity.Session)}
}

func (that *memoryManager) engine(sessionID string) *tictactoe.Engine {
	session, ok := that.sessions[sessionID]
	if !ok {
		session = entity.NewSession(sessionID)
		that.sessions[sessionID] = session
	}
	return tictactoe.New(session)
}

func (that *memoryManager) CurrentState(_ context.Context, sessionID string) (entity.Snapshot, error) {
	return that.engine(sessionID).CurrentState(), nil
}

func (that *memoryManager) MakeTurn(_ context.Context, sessionID string, cell int) (entity.Snapshot, error) {
	return that.engine(sessionID).MakeMove(cell)
}

func (that *memoryManager) ResetRound(_ context.Context, sessionID string) (entity.Snapshot, error) {
	return that.engine(sessionID).ResetRound(), nil
}

func (that *memoryManager) ResetScore(_ context.Context, sessionID string) (entity.Snapshot, error) {
	return that.engine(sessionID).ResetScore(), nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, newMemoryManager())
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "test-session"})
	return req
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) gameResponse {
	t.Helper()

	var body gameResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestServer_HandleState(t *testing.T) {
	t.Run("Returns the empty snapshot and sets a session cookie", func(t *testing.T) {
		// Given: a server and a request without a session cookie
		server := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/api/game", nil)
		rec := httptest.NewRecorder()

		// When: the state is requested
		server.handleState(rec, req)

		// Then: a fresh in-progress snapshot comes back with a new cookie
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeResponse(t, rec)
		require.NotNil(t, body.Game)
		assert.Equal(t, entity.Board{}, body.Game.Board)
		assert.Equal(t, entity.PlayerX, body.Game.Turn)
		assert.Equal(t, entity.StatusInProgress, body.Game.Status)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, sessionCookieName, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
	})
}

func TestServer_HandleTurn(t *testing.T) {
	t.Run("Places a mark", func(t *testing.T) {
		// Given: a server and a session
		server := newTestServer(t)

		// When: X plays cell 4
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/game/turn",
			bytes.NewBufferString(`{"cell":4}`)))
		rec := httptest.NewRecorder()
		server.handleTurn(rec, req)

		// Then: the snapshot reflects the move
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeResponse(t, rec)
		require.NotNil(t, body.Game)
		assert.Equal(t, entity.PlayerX, body.Game.Board[4])
		assert.Equal(t, entity.PlayerO, body.Game.Turn)
	})

	t.Run("Occupied cell returns 409", func(t *testing.T) {
		// Given: a server where cell 4 is already taken
		server := newTestServer(t)

		req := withSession(httptest.NewRequest(http.MethodPost, "/api/game/turn",
			bytes.NewBufferString(`{"cell":4}`)))
		server.handleTurn(httptest.NewRecorder(), req)

		// When: the same cell is played again
		req = withSession(httptest.NewRequest(http.MethodPost, "/api/game/turn",
			bytes.NewBufferString(`{"cell":4}`)))
		rec := httptest.NewRecorder()
		server.handleTurn(rec, req)

		// Then: the conflict is reported
		require.Equal(t, http.StatusConflict, rec.Code)

		body := decodeResponse(t, rec)
		assert.Contains(t, body.Error, "occupied")
	})

	t.Run("Out-of-range cell returns 400", func(t *testing.T) {
		// Given: a server and a session
		server := newTestServer(t)

		// When: an out-of-range cell is played
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/game/turn",
			bytes.NewBufferString(`{"cell":42}`)))
		rec := httptest.NewRecorder()
		server.handleTurn(rec, req)

		// Then: the request is rejected as a bad request
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Malformed body returns 400", func(t *testing.T) {
		// Given: a server and a session
		server := newTestServer(t)

		// When: the body is not valid JSON
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/game/turn",
			bytes.NewBufferString(`{cell}`)))
		rec := httptest.NewRecorder()
		server.handleTurn(rec, req)

		// Then: the request is rejected before reaching the engine
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_HandleResets(t *testing.T) {
	// Given: a session where X has won a round
	server := newTestServer(t)
	for _, cell := range []int{0, 4, 1, 5, 2} {
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/game/turn",
			bytes.NewBufferString(fmt.Sprintf(`{"cell":%d}`, cell))))
		server.handleTurn(httptest.NewRecorder(), req)
	}

	// When: the round is reset
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/game/round/reset", nil))
	rec := httptest.NewRecorder()
	server.handleRoundReset(rec, req)

	// Then: the board is fresh and the score kept
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	require.NotNil(t, body.Game)
	assert.Equal(t, entity.Board{}, body.Game.Board)
	assert.Equal(t, entity.Score{X: 1}, body.Game.Score)

	// When: the score is reset
	req = withSession(httptest.NewRequest(http.MethodPost, "/api/game/score/reset", nil))
	rec = httptest.NewRecorder()
	server.handleScoreReset(rec, req)

	// Then: both counters are zero
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeResponse(t, rec)
	require.NotNil(t, body.Game)
	assert.Equal(t, entity.Score{}, body.Game.Score)
}
