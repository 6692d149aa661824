package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayusuf9/trivia-africa/internal/game"
	"github.com/ayusuf9/trivia-africa/internal/middleware"
	"github.com/ayusuf9/trivia-africa/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopBus struct{}

func (noopBus) Broadcast(roomID, event string, data interface{}) {}

type noopRecorder struct{}

func (noopRecorder) RecordMatchResult(roomID string, snapshot *game.ResultSnapshot) error { return nil }

type staticContent struct{}

func (staticContent) QuestionSet(quizID uint) ([]game.QuestionInfo, error) {
	return []game.QuestionInfo{{ID: 1, Text: "q", Answer: "a", BasePoints: 100, TimeLimit: 10}}, nil
}

func (staticContent) AuthoritativeAnswer(questionID uint) (string, int, int, error) {
	return "a", 100, 10, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *game.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := services.NewAuthService("test-secret")
	token, err := auth.GenerateToken(services.PlayerIdentity{ID: "p1", DisplayName: "Amara"})
	require.NoError(t, err)

	engine := game.NewEngine(game.NewRegistry(), staticContent{}, noopRecorder{}, noopBus{}, game.Config{CountdownSeconds: 60})
	handler := NewMatchHandler(engine, nil)

	r := gin.New()
	api := r.Group("/api/v1")
	{
		api.GET("/matches", handler.ListOpenMatches)
		api.GET("/matches/:id", handler.GetMatch)
		authed := api.Group("")
		authed.Use(middleware.PlayerAuth(auth))
		{
			authed.POST("/matches", handler.CreateMatch)
		}
	}
	return r, engine, token
}

func doRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateMatch(t *testing.T) {
	r, _, token := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/matches", token, `{"mode":"team","max_players":4}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var summary game.RoomSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.NotEmpty(t, summary.ID)
	assert.Equal(t, game.ModeTeam, summary.Mode)
	assert.Equal(t, "p1", summary.OwnerID)
	assert.Equal(t, 4, summary.MaxPlayers)
	assert.Equal(t, game.StateWaiting, summary.State)
}

func TestCreateMatchRequiresAuth(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/matches", "", `{"mode":"duel"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/matches", "not-a-token", `{"mode":"duel"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateMatchDefaultsMode(t *testing.T) {
	r, _, token := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/matches", token, `{}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var summary game.RoomSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, game.ModeDuel, summary.Mode)
}

func TestListOpenMatches(t *testing.T) {
	r, _, token := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/matches", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	doRequest(r, http.MethodPost, "/api/v1/matches", token, `{"mode":"duel"}`)

	w = doRequest(r, http.MethodGet, "/api/v1/matches", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var rooms []game.RoomSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, "p1", rooms[0].OwnerID)
}

func TestGetMatch(t *testing.T) {
	r, engine, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/matches/nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, err := engine.Join("room-1", "p1", "Amara", "", "")
	require.NoError(t, err)

	w = doRequest(r, http.MethodGet, "/api/v1/matches/room-1", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var state game.JoinState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "room-1", state.RoomID)
	assert.Equal(t, game.StateWaiting, state.State)
	require.Len(t, state.Players, 1)
	assert.Equal(t, "Amara", state.Players[0].DisplayName)
}
