package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
)

type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	mu       sync.RWMutex
	dataset  string
	settings *WebSocketSettings
}

type IncomingMessage struct {
	Type    string `json:"type"`
	Dataset string `json:"dataset,omitempty"`
}

func NewClient(hub *Hub, conn *websocket.Conn, dataset string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, hub.settings.ClientBuffer),
		dataset:  dataset,
		settings: hub.settings,
	}
}

func (c *Client) Dataset() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataset
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.settings.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.settings.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.settings.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Errorf("WebSocket error: %v", err)
			}
			break
		}

		var msg IncomingMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.handleMessage(&msg)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(c.settings.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.settings.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to current websocket frame
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.settings.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *IncomingMessage) {
	switch msg.Type {
	case "subscribe":
		c.mu.Lock()
		c.dataset = msg.Dataset
		c.mu.Unlock()
		logger.Infof("Client subscribed to dataset %q", msg.Dataset)
		c.sendConfirmation("subscribed", msg.Dataset)
	case "unsubscribe":
		c.mu.Lock()
		old := c.dataset
		c.dataset = ""
		c.mu.Unlock()
		c.sendConfirmation("unsubscribed", old)
	}
}

func (c *Client) sendConfirmation(action, dataset string) {
	msg := NewMessage(MessageTypeSubscription, dataset, map[string]string{"action": action})
	select {
	case c.send <- msg.JSON():
	default:
		logger.Warn("Client send channel full, dropping confirmation")
	}
}

func ServeWebSocket(hub *Hub) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  hub.settings.ReadBufferSize,
		WriteBufferSize: hub.settings.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return func(c *gin.Context) {
		if hub.ClientCount() >= hub.settings.MaxConnections {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "too many websocket connections"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, c.Query("dataset"))
		hub.Register(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
