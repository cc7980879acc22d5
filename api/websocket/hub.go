package websocket

import (
	"sync"
	"time"

	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
	"github.com/OldStager01/bikeshare-dashboard/internal/metrics"
	"github.com/OldStager01/bikeshare-dashboard/pkg/config"
)

const defaultBroadcastBuffer = 256

// WebSocketSettings are the connection limits shared by every client of a hub.
type WebSocketSettings struct {
	MaxConnections  int
	WriteWait       time.Duration
	PongWait        time.Duration
	PingPeriod      time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	ClientBuffer    int
}

func NewWebSocketSettings(cfg *config.WebSocketConfig) *WebSocketSettings {
	s := &WebSocketSettings{
		MaxConnections:  100,
		WriteWait:       10 * time.Second,
		PongWait:        60 * time.Second,
		MaxMessageSize:  512,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		ClientBuffer:    256,
	}
	if cfg != nil {
		if cfg.MaxConnections > 0 {
			s.MaxConnections = cfg.MaxConnections
		}
		if cfg.WriteTimeout > 0 {
			s.WriteWait = cfg.WriteTimeout
		}
		if cfg.PongTimeout > 0 {
			s.PongWait = cfg.PongTimeout
		}
		if cfg.MaxMessageSize > 0 {
			s.MaxMessageSize = cfg.MaxMessageSize
		}
		if cfg.ReadBufferSize > 0 {
			s.ReadBufferSize = cfg.ReadBufferSize
		}
		if cfg.WriteBufferSize > 0 {
			s.WriteBufferSize = cfg.WriteBufferSize
		}
		if cfg.ClientBuffer > 0 {
			s.ClientBuffer = cfg.ClientBuffer
		}
	}
	s.PingPeriod = (s.PongWait * 9) / 10
	if cfg != nil && cfg.PingInterval > 0 && cfg.PingInterval < s.PongWait {
		s.PingPeriod = cfg.PingInterval
	}
	return s
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	settings   *WebSocketSettings
}

func NewHub(cfg *config.WebSocketConfig) *Hub {
	broadcastBuffer := defaultBroadcastBuffer
	if cfg != nil && cfg.BroadcastBuffer > 0 {
		broadcastBuffer = cfg.BroadcastBuffer
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		settings:   NewWebSocketSettings(cfg),
	}
}

func (h *Hub) Settings() *WebSocketSettings {
	return h.settings
}

// Run owns client registration until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			metrics.Get().SetWebSocketClients(0)
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			metrics.Get().SetWebSocketClients(n)
			logger.Infof("WebSocket client connected (total: %d)", n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			metrics.Get().SetWebSocketClients(n)
			logger.Infof("WebSocket client disconnected (total: %d)", n)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Stop() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		logger.Warn("Broadcast channel full, dropping message")
	}
}

// BroadcastToDataset reaches clients watching dataset and clients that did
// not pick one.
func (h *Hub) BroadcastToDataset(dataset string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if ds := client.Dataset(); ds == "" || ds == dataset {
			select {
			case client.send <- message:
			default:
			}
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
