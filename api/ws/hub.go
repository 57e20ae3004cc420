// Package ws pushes feed snapshots to connected browsers. Each
// republished collection is broadcast wholesale; clients never send
// anything except keepalives.
package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"blogme/logger"
	"blogme/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type Hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
	last    []byte
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]bool)}
}

type snapshotMessage struct {
	Type  string        `json:"type"`
	Posts []models.Post `json:"posts"`
}

// BroadcastSnapshot fans the collection out to every connected client.
// Wire this to feed.Sync.OnUpdate.
func (h *Hub) BroadcastSnapshot(posts []models.Post) {
	msg, err := json.Marshal(snapshotMessage{Type: "feed_snapshot", Posts: posts})
	if err != nil {
		logger.Log.Errorf("snapshot marshal failed: %v", err)
		return
	}

	h.mu.Lock()
	h.last = msg
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Slow consumer, drop it.
			close(c.send)
			delete(h.clients, c)
		}
	}
	h.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades the connection and streams snapshots until the peer
// goes away. The latest snapshot is delivered immediately on connect.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Log.Warnf("websocket upgrade failed: %v", err)
			return
		}

		c := &client{conn: conn, send: make(chan []byte, 8)}

		h.mu.Lock()
		h.clients[c] = true
		if h.last != nil {
			c.send <- h.last
		}
		h.mu.Unlock()

		go c.writePump()
		go c.readPump(h)
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Debugf("websocket read error: %v", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
