package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/OldStager01/grid-fault-predictor/internal/logger"
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	mu       sync.RWMutex
	category models.FaultCategory

	sendMu sync.Mutex
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, category models.FaultCategory) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, hub.settings.ClientBuffer),
		category: category,
	}
}

// wants reports whether the client's filter admits category. Unfiltered
// clients and uncategorized messages always match.
func (c *Client) wants(category models.FaultCategory) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.category == "" || category == "" || c.category == category
}

func (c *Client) Category() models.FaultCategory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.category
}

func (c *Client) setCategory(category models.FaultCategory) {
	c.mu.Lock()
	c.category = category
	c.mu.Unlock()
}

// enqueue hands data to the write pump without blocking. It reports false
// when the buffer is full or the hub has already closed the client.
func (c *Client) enqueue(data []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// closeSend ends the write pump. Safe to call more than once.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) ReadPump() {
	settings := c.hub.settings
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(settings.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(settings.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(settings.PongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("WebSocket error: %v", err)
			}
			return
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("invalid message: expected JSON")
			continue
		}
		c.handleMessage(&msg)
	}
}

func (c *Client) WritePump() {
	settings := c.hub.settings
	ticker := time.NewTicker(settings.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(settings.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(settings.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *IncomingMessage) {
	switch msg.Type {
	case "subscribe":
		category, ok := parseCategory(msg.Category)
		if !ok {
			c.sendError("unknown category: " + msg.Category)
			return
		}
		c.setCategory(category)
		logger.Infof("Client subscribed to category: %s", category)
		c.sendConfirmation("subscribed", category)
	case "unsubscribe":
		old := c.Category()
		c.setCategory("")
		logger.Info("Client unsubscribed from category")
		c.sendConfirmation("unsubscribed", old)
	default:
		c.sendError("unknown message type: " + msg.Type)
	}
}

func (c *Client) sendConfirmation(action string, category models.FaultCategory) {
	msg := NewMessage(MessageTypeSubscriptionUpdate, category, SubscriptionData{
		Action:   action,
		Category: string(category),
	})
	c.trySend(msg.JSON())
}

func (c *Client) sendError(text string) {
	msg := NewMessage(MessageTypeError, "", nil)
	msg.Message = text
	c.trySend(msg.JSON())
}

func (c *Client) trySend(data []byte) {
	if !c.enqueue(data) {
		logger.Warn("Client send channel full or closed, dropping message")
	}
}

// ServeWebSocket upgrades the request and attaches the client to hub. The
// optional ?category= query parameter sets the initial filter.
func ServeWebSocket(hub *Hub, checkOrigin func(r *http.Request) bool) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  hub.settings.ReadBufferSize,
		WriteBufferSize: hub.settings.WriteBufferSize,
		CheckOrigin:     checkOrigin,
	}

	return func(c *gin.Context) {
		var category models.FaultCategory
		if q := c.Query("category"); q != "" {
			parsed, ok := parseCategory(q)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category: " + q})
				return
			}
			category = parsed
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, category)
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}

// OriginChecker admits requests whose Origin is listed, or any origin when
// the list contains "*". Requests without an Origin header are admitted.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}
