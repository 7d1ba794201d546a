package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
	sendBufferSize = 32
)

// Client is one live connection. UserID comes from the verified
// access token presented at handshake, never from the client payload.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	UserID   string
	FullName string
	Avatar   string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, fullName, avatar string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		UserID:   userID,
		FullName: fullName,
		Avatar:   avatar,
	}
}

type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type typingPayload struct {
	IsTyping bool `json:"isTyping"`
}

// ReadPump consumes client frames until the connection drops. It is
// the only reader of the connection.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}

		switch frame.Event {
		case "chat:join":
			// Rejoining is harmless; topic membership is idempotent.
			c.hub.Join(c, TopicGlobal)
			c.hub.Join(c, userTopic(c.UserID))
			go c.hub.pushUnread(c.UserID)

		case "chat:typing":
			var payload typingPayload
			if err := json.Unmarshal(frame.Data, &payload); err != nil {
				continue
			}
			c.hub.Broadcast(TopicGlobal, "chat:typing", map[string]interface{}{
				"userId":   c.UserID,
				"userName": c.FullName,
				"avatar":   c.Avatar,
				"isTyping": payload.IsTyping,
				"at":       time.Now().UTC().Format(time.RFC3339),
			})
		}
	}
}

// WritePump drains the send channel onto the connection. It is the
// only writer of the connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
