package websocket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{
		hub:  NewHub(),
		send: make(chan []byte, 4),
	}
}

func receiveJSON(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case data := <-c.send:
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &payload))
		return payload
	default:
		t.Fatal("no message queued")
		return nil
	}
}

func TestHandleMessageParse(t *testing.T) {
	c := newTestClient()

	req, _ := json.Marshal(map[string]string{
		"action": "parse",
		"text":   "1 | Mike Trout | Angels\n2 | Shohei Ohtani | Dodgers",
	})
	c.handleMessage(req)

	payload := receiveJSON(t, c)
	assert.Equal(t, "parse_result", payload["type"])

	result, ok := payload["result"].(map[string]interface{})
	require.True(t, ok)
	summary := result["summary"].(map[string]interface{})
	assert.Equal(t, float64(2), summary["total_cards"])
}

func TestHandleMessageSummary(t *testing.T) {
	c := newTestClient()

	req, _ := json.Marshal(map[string]string{
		"action": "summary",
		"text":   "1 | Mike Trout | Angels",
	})
	c.handleMessage(req)

	payload := receiveJSON(t, c)
	assert.Equal(t, "parse_summary", payload["type"])

	summary := payload["summary"].(map[string]interface{})
	assert.Equal(t, float64(1), summary["total_cards"])
}

func TestHandleMessageErrors(t *testing.T) {
	c := newTestClient()

	c.handleMessage([]byte("not json"))
	assert.Equal(t, "error", receiveJSON(t, c)["type"])

	req, _ := json.Marshal(map[string]string{"action": "parse"})
	c.handleMessage(req)
	assert.Equal(t, "error", receiveJSON(t, c)["type"])

	req, _ = json.Marshal(map[string]string{"action": "launch"})
	c.handleMessage(req)
	assert.Equal(t, "error", receiveJSON(t, c)["type"])
}

func TestHandleMessagePing(t *testing.T) {
	c := newTestClient()

	req, _ := json.Marshal(map[string]string{"action": "ping"})
	c.handleMessage(req)

	assert.Equal(t, "pong", receiveJSON(t, c)["type"])
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{hub: hub, send: make(chan []byte, 1)}
	b := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- a
	hub.register <- b

	hub.Broadcast([]byte("hello"))

	assert.Equal(t, []byte("hello"), <-a.send)
	assert.Equal(t, []byte("hello"), <-b.send)

	hub.unregister <- a
	hub.Broadcast([]byte("again"))
	assert.Equal(t, []byte("again"), <-b.send)
}
