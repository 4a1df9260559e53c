package hub

import (
	"encoding/json"
	"sync"

	"github.com/ncamp16-final-team1/IMJM-sub000/pkg/log"
)

// Hub tracks connected WebSocket clients by participant address. A
// participant ("user:<id>" or "salon:<id>") may hold several connections,
// e.g. a phone and a desktop browser.
type Hub struct {
	clients      map[string]*Client            // clientID -> client
	participants map[string]map[string]*Client // participant -> clientID -> client
	register     chan *Client
	unregister   chan *Client
	deliver      chan *participantMessage
	mu           sync.RWMutex
}

type participantMessage struct {
	participant string
	message     []byte
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[string]*Client),
		participants: make(map[string]map[string]*Client),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		deliver:      make(chan *participantMessage, 256),
	}
}

// Run processes registration and delivery events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			if _, ok := h.participants[client.Participant]; !ok {
				h.participants[client.Participant] = make(map[string]*Client)
			}
			h.participants[client.Participant][client.ID] = client
			h.mu.Unlock()
			log.L().Debug().
				Str("client_id", client.ID).
				Str(log.FieldParticipant, client.Participant).
				Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				if conns, ok := h.participants[client.Participant]; ok {
					delete(conns, client.ID)
					if len(conns) == 0 {
						delete(h.participants, client.Participant)
					}
				}
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.L().Debug().Str("client_id", client.ID).Msg("client unregistered")

		case msg := <-h.deliver:
			h.mu.RLock()
			for _, client := range h.participants[msg.participant] {
				select {
				case client.Send <- msg.message:
				default:
					// Slow consumer; drop the connection, the client
					// recovers by re-fetching room history on reconnect.
					go h.removeClient(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SendToParticipant delivers a message to every connection of a participant.
// Disconnected participants simply receive nothing.
func (h *Hub) SendToParticipant(participant string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.deliver <- &participantMessage{
		participant: participant,
		message:     data,
	}
	return nil
}

// SendRawToParticipant delivers raw bytes to every connection of a participant.
func (h *Hub) SendRawToParticipant(participant string, data []byte) {
	h.deliver <- &participantMessage{
		participant: participant,
		message:     data,
	}
}

// ConnectionCount returns the number of live connections for a participant.
func (h *Hub) ConnectionCount(participant string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.participants[participant])
}

func (h *Hub) removeClient(client *Client) {
	h.unregister <- client
}
