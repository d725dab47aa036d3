package websocket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fortuna/carddex/internal/checklist"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize bounds inbound frames; checklist text plus envelope.
	maxMessageSize = checklist.MaxChecklistBytes + 4096
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// inboundMessage is one client request frame.
type inboundMessage struct {
	Action string `json:"action"`
	Text   string `json:"text,omitempty"`
}

// readPump pumps messages from the websocket connection to the handler.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}

		c.handleMessage(message)
	}
}

// handleMessage dispatches one inbound frame and queues the reply.
func (c *Client) handleMessage(raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("invalid message")
		return
	}

	switch msg.Action {
	case "parse":
		if msg.Text == "" {
			c.sendError("parse requires 'text'")
			return
		}
		if len(msg.Text) > checklist.MaxChecklistBytes {
			c.sendError("checklist too large")
			return
		}
		c.sendJSON(map[string]interface{}{
			"type":   "parse_result",
			"result": checklist.ParseChecklist(msg.Text),
		})

	case "summary":
		if msg.Text == "" {
			c.sendError("summary requires 'text'")
			return
		}
		if len(msg.Text) > checklist.MaxChecklistBytes {
			c.sendError("checklist too large")
			return
		}
		result := checklist.ParseChecklist(msg.Text)
		c.sendJSON(map[string]interface{}{
			"type":              "parse_summary",
			"metadata":          result.Metadata,
			"summary":           result.Summary,
			"validation_errors": len(result.ValidationErrors),
		})

	case "ping":
		c.sendJSON(map[string]interface{}{"type": "pong"})

	default:
		c.sendError("unknown action")
	}
}

func (c *Client) sendError(message string) {
	c.sendJSON(map[string]interface{}{
		"type":  "error",
		"error": message,
	})
}

func (c *Client) sendJSON(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ws] marshal error: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		// Buffer full; the write pump will tear the client down.
	}
}

// writePump pumps messages from the send channel to the websocket
// connection and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
