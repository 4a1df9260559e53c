package hub

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/ncamp16-final-team1/IMJM-sub000/internal/config"
	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
)

// Client is one WebSocket connection bound to a participant address.
type Client struct {
	ID          string
	Participant string
	Hub         *Hub
	Conn        *websocket.Conn
	Send        chan []byte
	config      config.WebSocketConfig
}

// NewClient creates a client for an accepted connection.
func NewClient(id, participant string, hub *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	return &Client{
		ID:          id,
		Participant: participant,
		Hub:         hub,
		Conn:        conn,
		Send:        make(chan []byte, 256),
		config:      cfg,
	}
}

// ReadPump drains inbound frames to keep pong handling alive. Chat messages
// are submitted over HTTP; the socket is a receive-only push channel.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.L().Debug().Err(err).Str("client_id", c.ID).Msg("websocket closed unexpectedly")
			}
			break
		}
	}
}

// WritePump forwards queued messages to the connection and pings on interval.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
