package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Connection wraps a single subscriber socket. All outbound traffic goes
// through the buffered Send channel and the writePump goroutine.
type Connection struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
	Hub    *Hub
	Groups map[string]bool

	mu       sync.RWMutex
	isAlive  bool
	lastSeen time.Time
}

// newConnectionID must be unique per connection; the hub keys its map on it,
// so a collision would silently replace a live subscriber.
func newConnectionID() string {
	return "conn_" + uuid.NewString()
}

func newUpgrader(cfg *Config) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			// TODO: restrict origins once the frontend domains are final.
			return true
		},
	}
}

// HandleWebSocket upgrades the request, subscribes the connection to the
// given groups and starts its pumps.
func HandleWebSocket(hub *Hub, w http.ResponseWriter, r *http.Request, userID string, groups ...string) {
	upgrader := newUpgrader(hub.config)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("websocket: upgrade failed: %v", err)
		return
	}

	connection := &Connection{
		ID:       newConnectionID(),
		UserID:   userID,
		Conn:     conn,
		Send:     make(chan []byte, hub.config.MessageBufferSize),
		Hub:      hub,
		Groups:   make(map[string]bool),
		isAlive:  true,
		lastSeen: time.Now(),
	}
	for _, g := range groups {
		connection.Groups[g] = true
	}

	hub.register <- connection

	go connection.writePump()
	go connection.readPump()
}

func (c *Connection) alive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isAlive
}

func (c *Connection) markDead() {
	c.mu.Lock()
	c.isAlive = false
	c.mu.Unlock()
}

func (c *Connection) lastPing() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSeen
}

func (c *Connection) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(int64(c.Hub.config.MaxMessageSize))
	c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.ConnectionTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.mu.Lock()
		c.lastSeen = time.Now()
		c.mu.Unlock()
		c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.ConnectionTimeout))
		return nil
	})

	// Subscribers are read-only; inbound frames just keep the connection warm.
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.Errorf("websocket: read error: %v", err)
			}
			return
		}
		c.mu.Lock()
		c.lastSeen = time.Now()
		c.mu.Unlock()
	}
}

func (c *Connection) writePump() {
	interval := c.Hub.config.HeartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(time.Duration(float64(interval) * 0.9))
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
