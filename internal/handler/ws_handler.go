package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/config"
	"github.com/ncamp16-final-team1/IMJM-sub000/internal/hub"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
)

// WSHandler upgrades WebSocket connections and registers them in the hub.
// The socket is receive-only; messages are submitted over the HTTP API.
type WSHandler struct {
	hub      *hub.Hub
	upgrader websocket.Upgrader
	config   config.WebSocketConfig
}

// NewWSHandler creates the WebSocket handler.
func NewWSHandler(h *hub.Hub, cfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin policing is handled by the platform's edge proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		config: cfg,
	}
}

// RegisterRoutes registers the WebSocket endpoint.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws/chat", h.Serve)
}

// Serve upgrades the connection for ?side=user|salon&id=<participant id>.
func (h *WSHandler) Serve(c *gin.Context) {
	side := c.Query("side")
	id := c.Query("id")
	if (side != "user" && side != "salon") || id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "side and id query parameters are required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Ctx(c.Request.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := hub.NewClient(uuid.New().String(), side+":"+id, h.hub, conn, h.config)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
