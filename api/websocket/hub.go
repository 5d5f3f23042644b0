package websocket

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/OldStager01/grid-fault-predictor/internal/logger"
	"github.com/OldStager01/grid-fault-predictor/internal/metrics"
	"github.com/OldStager01/grid-fault-predictor/pkg/config"
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

type broadcastMessage struct {
	category models.FaultCategory
	data     []byte
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan broadcastMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	settings   *WebSocketSettings
	running    atomic.Bool
	done       chan struct{}
}

func NewHub(cfg *config.WebSocketConfig) *Hub {
	settings := NewWebSocketSettings(cfg)

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan broadcastMessage, settings.BroadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		settings:   settings,
		done:       make(chan struct{}),
	}
}

// Start marks the hub running and serves it in a new goroutine.
func (h *Hub) Start(ctx context.Context) {
	h.running.Store(true)
	go h.Run(ctx)
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer func() {
		h.running.Store(false)
		h.closeAll()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.clientsChanged("connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			h.mu.Unlock()
			h.clientsChanged("disconnected")

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// deliver sends to every subscribed client and drops the ones that cannot
// keep up.
func (h *Hub) deliver(msg broadcastMessage) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		if !client.wants(msg.category) {
			continue
		}
		if !client.enqueue(msg.data) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}

	h.mu.Lock()
	for _, client := range slow {
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			client.closeSend()
		}
	}
	h.mu.Unlock()
	h.clientsChanged("dropped slow")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for client := range h.clients {
		delete(h.clients, client)
		client.closeSend()
	}
	h.mu.Unlock()
	metrics.Get().SetWebSocketClients(0)
}

func (h *Hub) clientsChanged(what string) {
	n := h.ClientCount()
	metrics.Get().SetWebSocketClients(n)
	logger.Infof("WebSocket client %s (total: %d)", what, n)
}

// Broadcast queues data for every client whose filter matches category. An
// empty category reaches all clients.
func (h *Hub) Broadcast(category models.FaultCategory, data []byte) {
	select {
	case h.broadcast <- broadcastMessage{category: category, data: data}:
	default:
		logger.Warn("Broadcast channel full, dropping message")
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Running() bool {
	return h.running.Load()
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.closeSend()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
