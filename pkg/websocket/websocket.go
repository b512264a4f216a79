package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Message is an event pushed to subscribers. On the wire the payload keys sit
// flat beside "type" and "timestamp"; there is no envelope around Data.
type Message struct {
	Type      string
	Data      map[string]interface{}
	Timestamp int64
	Group     string
}

func (m *Message) encode() ([]byte, error) {
	out := make(map[string]interface{}, len(m.Data)+2)
	for k, v := range m.Data {
		out[k] = v
	}
	out["type"] = m.Type
	if m.Timestamp != 0 {
		out["timestamp"] = m.Timestamp
	}
	return json.Marshal(out)
}

// Config tunes the hub and its connections.
type Config struct {
	MaxConnections    int64
	HeartbeatInterval time.Duration
	ConnectionTimeout time.Duration
	MessageBufferSize int
	MessageQueueSize  int
	ReadBufferSize    int
	WriteBufferSize   int
	MaxMessageSize    int
}

func DefaultConfig() *Config {
	return &Config{
		MaxConnections:    10000,
		HeartbeatInterval: 30 * time.Second,
		ConnectionTimeout: 60 * time.Second,
		MessageBufferSize: 256,
		MessageQueueSize:  1000,
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		MaxMessageSize:    4096,
	}
}

// Hub tracks live connections and their group memberships, and fans broadcast
// messages out to them. Publishing only enqueues; the run loop and each
// connection's writePump do the delivery, so request handlers never block.
type Hub struct {
	connections      map[string]*Connection
	groupConnections map[string]map[string]bool

	broadcast  chan *Message
	register   chan *Connection
	unregister chan *Connection

	connectionCount int64
	config          *Config
	mu              sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(config *Config) *Hub {
	if config == nil {
		config = DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	hub := &Hub{
		connections:      make(map[string]*Connection),
		groupConnections: make(map[string]map[string]bool),
		broadcast:        make(chan *Message, config.MessageQueueSize),
		register:         make(chan *Connection, 64),
		unregister:       make(chan *Connection, 64),
		config:           config,
		ctx:              ctx,
		cancel:           cancel,
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	ticker := time.NewTicker(h.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case conn := <-h.register:
			h.registerConnection(conn)
		case conn := <-h.unregister:
			h.unregisterConnection(conn)
		case message := <-h.broadcast:
			if message.Timestamp == 0 {
				message.Timestamp = time.Now().Unix()
			}
			data, err := message.encode()
			if err != nil {
				logrus.Errorf("websocket: marshal failed: %v", err)
				continue
			}
			if message.Group != "" {
				h.sendToGroup(message.Group, data)
			} else {
				h.sendToAll(data)
			}
		case <-ticker.C:
			h.checkHeartbeats()
		}
	}
}

// BroadcastToGroup enqueues a message for every subscriber of the group.
// Delivery is best-effort: slow consumers are dropped-on-full, and nothing is
// replayed to connections that join later.
func (h *Hub) BroadcastToGroup(group, msgType string, data map[string]interface{}) {
	msg := &Message{Type: msgType, Data: data, Group: group}
	select {
	case h.broadcast <- msg:
	default:
		logrus.Warnf("websocket: broadcast queue full, message dropped (group=%s)", group)
	}
}

func (h *Hub) registerConnection(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if atomic.LoadInt64(&h.connectionCount) >= h.config.MaxConnections {
		conn.Conn.Close()
		logrus.Warnf("websocket: connection limit reached (%d)", h.config.MaxConnections)
		return
	}

	h.connections[conn.ID] = conn
	atomic.AddInt64(&h.connectionCount, 1)
	for group := range conn.Groups {
		if h.groupConnections[group] == nil {
			h.groupConnections[group] = make(map[string]bool)
		}
		h.groupConnections[group][conn.ID] = true
	}
	logrus.Infof("websocket: connection %s registered (user=%s, total=%d)",
		conn.ID, conn.UserID, atomic.LoadInt64(&h.connectionCount))
}

func (h *Hub) unregisterConnection(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.connections[conn.ID]; !exists {
		return
	}
	delete(h.connections, conn.ID)
	atomic.AddInt64(&h.connectionCount, -1)
	for group := range conn.Groups {
		if h.groupConnections[group] != nil {
			delete(h.groupConnections[group], conn.ID)
			if len(h.groupConnections[group]) == 0 {
				delete(h.groupConnections, group)
			}
		}
	}
	close(conn.Send)
	logrus.Infof("websocket: connection %s unregistered (total=%d)",
		conn.ID, atomic.LoadInt64(&h.connectionCount))
}

func (h *Hub) sendToGroup(group string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for connID := range h.groupConnections[group] {
		if conn, ok := h.connections[connID]; ok && conn.alive() {
			h.trySend(conn, data)
		}
	}
}

func (h *Hub) sendToAll(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, conn := range h.connections {
		if conn.alive() {
			h.trySend(conn, data)
		}
	}
}

func (h *Hub) trySend(conn *Connection, data []byte) {
	select {
	case conn.Send <- data:
	default:
		logrus.Warnf("websocket: send buffer full, dropping message (conn=%s)", conn.ID)
	}
}

func (h *Hub) checkHeartbeats() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := time.Now()
	for _, conn := range h.connections {
		if now.Sub(conn.lastPing()) > h.config.ConnectionTimeout {
			logrus.Warnf("websocket: connection %s heartbeat timeout", conn.ID)
			conn.markDead()
			if conn.Conn != nil {
				conn.Conn.Close()
			}
		}
	}
}

// GetConnectionCount returns the number of registered connections.
func (h *Hub) GetConnectionCount() int64 {
	return atomic.LoadInt64(&h.connectionCount)
}

// GetGroupConnections returns the subscriber count of a group.
func (h *Hub) GetGroupConnections(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groupConnections[group])
}

// Close shuts the hub down and closes every connection.
func (h *Hub) Close() {
	h.cancel()
	h.mu.Lock()
	for _, conn := range h.connections {
		if conn.Conn != nil {
			conn.Conn.Close()
		}
	}
	h.mu.Unlock()
}
