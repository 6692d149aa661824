package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ayusuf9/trivia-africa/internal/game"
	"github.com/ayusuf9/trivia-africa/internal/middleware"
	"github.com/ayusuf9/trivia-africa/internal/services"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	engine  *game.Engine
	history *services.HistoryService
}

func NewMatchHandler(engine *game.Engine, history *services.HistoryService) *MatchHandler {
	return &MatchHandler{engine: engine, history: history}
}

type CreateMatchRequest struct {
	Mode       string `json:"mode" example:"duel"`
	QuizID     uint   `json:"quiz_id"`
	MaxPlayers int    `json:"max_players"`
}

// CreateMatch godoc
// @Summary      Create a match room
// @Description  Registers a new waiting room owned by the caller
// @Tags         matches
// @Security     BearerAuth
// @Param        body body CreateMatchRequest true "Match settings"
// @Success      201 {object} game.RoomSummary
// @Router       /api/v1/matches [post]
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	identity := middleware.Identity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization required"})
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Mode = string(game.ModeDuel)
	}

	summary := h.engine.CreateRoom(identity.ID, game.Mode(req.Mode), req.QuizID, req.MaxPlayers)
	c.JSON(http.StatusCreated, summary)
}

// ListOpenMatches godoc
// @Summary      List joinable matches
// @Tags         matches
// @Success      200 {array} game.RoomSummary
// @Router       /api/v1/matches [get]
func (h *MatchHandler) ListOpenMatches(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.OpenRooms())
}

// GetMatch godoc
// @Summary      Get a match room's live state
// @Tags         matches
// @Param        id path string true "Room ID"
// @Success      200 {object} game.JoinState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/matches/{id} [get]
func (h *MatchHandler) GetMatch(c *gin.Context) {
	state, err := h.engine.RoomState(c.Param("id"))
	if err != nil {
		if errors.Is(err, game.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetMatchResult godoc
// @Summary      Get a finished match's recorded result
// @Tags         matches
// @Param        id path string true "Room ID"
// @Success      200 {object} models.MatchResult
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/matches/{id}/result [get]
func (h *MatchHandler) GetMatchResult(c *gin.Context) {
	result, err := h.history.GetMatchResult(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Leaderboard godoc
// @Summary      Top players across recorded matches
// @Tags         leaderboard
// @Param        limit query int false "Max rows (default 20)"
// @Success      200 {array} services.LeaderboardRow
// @Router       /api/v1/leaderboard [get]
func (h *MatchHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rows, err := h.history.Leaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// MyHistory godoc
// @Summary      The caller's recorded match history
// @Tags         matches
// @Security     BearerAuth
// @Param        limit query int false "Max rows (default 20)"
// @Success      200 {array} models.MatchResult
// @Router       /api/v1/matches/history [get]
func (h *MatchHandler) MyHistory(c *gin.Context) {
	identity := middleware.Identity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	results, err := h.history.PlayerHistory(identity.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}
