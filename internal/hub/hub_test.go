package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	h := NewHub()
	go h.Run()
	return h
}

func newTestClient(id, participant string, h *Hub) *Client {
	return &Client{
		ID:          id,
		Participant: participant,
		Hub:         h,
		Send:        make(chan []byte, 8),
	}
}

func waitForCount(t *testing.T, h *Hub, participant string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if h.ConnectionCount(participant) == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("connection count for %s never reached %d", participant, want)
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.Send:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
		return nil
	}
}

func TestHubRoutesByParticipant(t *testing.T) {
	h := newTestHub()

	user := newTestClient("c1", "user:user-1", h)
	salon := newTestClient("c2", "salon:salon-1", h)
	h.Register(user)
	h.Register(salon)
	waitForCount(t, h, "user:user-1", 1)
	waitForCount(t, h, "salon:salon-1", 1)

	require.NoError(t, h.SendToParticipant("user:user-1", map[string]string{"type": "message_created"}))

	var payload map[string]string
	require.NoError(t, json.Unmarshal(receive(t, user), &payload))
	assert.Equal(t, "message_created", payload["type"])

	select {
	case <-salon.Send:
		t.Fatal("salon client received a message addressed to the user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubFansOutToAllConnectionsOfParticipant(t *testing.T) {
	h := newTestHub()

	phone := newTestClient("c1", "user:user-1", h)
	desktop := newTestClient("c2", "user:user-1", h)
	h.Register(phone)
	h.Register(desktop)
	waitForCount(t, h, "user:user-1", 2)

	h.SendRawToParticipant("user:user-1", []byte(`{"hello":true}`))
	assert.JSONEq(t, `{"hello":true}`, string(receive(t, phone)))
	assert.JSONEq(t, `{"hello":true}`, string(receive(t, desktop)))
}

func TestHubDeliveryToAbsentParticipantIsSilent(t *testing.T) {
	h := newTestHub()
	require.NoError(t, h.SendToParticipant("user:nobody", map[string]string{"type": "message_created"}))
}

func TestHubUnregister(t *testing.T) {
	h := newTestHub()

	client := newTestClient("c1", "user:user-1", h)
	h.Register(client)
	waitForCount(t, h, "user:user-1", 1)

	h.Unregister(client)
	waitForCount(t, h, "user:user-1", 0)

	// Send channel is closed on unregister.
	_, open := <-client.Send
	assert.False(t, open)
}
