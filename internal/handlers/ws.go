package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ayusuf9/trivia-africa/internal/game"
	"github.com/ayusuf9/trivia-africa/internal/middleware"
	"github.com/ayusuf9/trivia-africa/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// GatewayHandler bridges WebSocket connections and the match engine.
// It maps a connection to a verified player identity and a room,
// forwards inbound events, and holds no game logic of its own.
type GatewayHandler struct {
	engine *game.Engine
	hub    *ws.Hub
}

func NewGatewayHandler(engine *game.Engine, hub *ws.Hub) *GatewayHandler {
	return &GatewayHandler{engine: engine, hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientEvent is the inbound wire format. Fields beyond Type are only
// read for the event types that need them.
type clientEvent struct {
	Type          string `json:"type"`
	Team          string `json:"team,omitempty"`
	QuestionID    uint   `json:"questionId,omitempty"`
	Answer        string `json:"answer,omitempty"`
	TimeRemaining int    `json:"timeRemaining,omitempty"`
}

const (
	eventJoined = "joined"
	eventError  = "error"
)

// HandleMatchWebSocket godoc
// @Summary      WebSocket endpoint for a match room
// @Description  Connect with a `token` query parameter, then send join/ready/submitAnswer/endGame/leave events
// @Tags         websocket
// @Param        id path string true "Room ID"
// @Param        token query string true "Identity token"
// @Router       /ws/match/{id} [get]
func (h *GatewayHandler) HandleMatchWebSocket(c *gin.Context) {
	roomID := c.Param("id")
	identity := middleware.Identity(c)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authorization required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	joined := false
	defer func() {
		if joined {
			// A dropped connection is a synthetic leave.
			if err := h.engine.Leave(roomID, identity.ID); err != nil &&
				!errors.Is(err, game.ErrRoomNotFound) && !errors.Is(err, game.ErrNotInRoom) {
				log.Printf("ws: leave on disconnect: %v", err)
			}
			h.hub.RemoveConnection(roomID, conn)
		} else {
			conn.Close()
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var ev clientEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			h.reject(conn, "malformed event")
			continue
		}

		switch ev.Type {
		case "join":
			state, err := h.engine.Join(roomID, identity.ID, identity.DisplayName, identity.Avatar, ev.Team)
			if err != nil {
				h.reject(conn, err.Error())
				continue
			}
			if !joined {
				h.hub.AddConnection(roomID, conn)
				joined = true
			}
			h.hub.SendTo(conn, eventJoined, state)

		case "ready":
			if err := h.engine.Ready(roomID, identity.ID); err != nil {
				h.reject(conn, err.Error())
			}

		case "submitAnswer":
			if err := h.engine.SubmitAnswer(roomID, identity.ID, ev.QuestionID, ev.Answer, ev.TimeRemaining); err != nil {
				h.reject(conn, err.Error())
			}

		case "endGame":
			if err := h.engine.EndGame(roomID, identity.ID); err != nil {
				h.reject(conn, err.Error())
			}

		case "leave":
			joined = false
			if err := h.engine.Leave(roomID, identity.ID); err != nil &&
				!errors.Is(err, game.ErrRoomNotFound) && !errors.Is(err, game.ErrNotInRoom) {
				log.Printf("ws: leave: %v", err)
			}
			h.hub.RemoveConnection(roomID, conn)
			return

		default:
			h.reject(conn, "unknown event type")
		}
	}
}

// reject sends an error notice to the offending connection only; it is
// never broadcast.
func (h *GatewayHandler) reject(conn *websocket.Conn, message string) {
	if err := h.hub.SendTo(conn, eventError, gin.H{"message": message}); err != nil {
		log.Printf("ws: reject notice failed: %v", err)
	}
}
