// internal/websocket/client.go
package websocket

import (
	"context"
	"sync"
	"time"

	wstypes "skilltracker-console/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // 64KB
)

// ClientInfo describes the workspace behind a connection.
type ClientInfo struct {
	WorkspaceID string
	Email       string
	Admin       bool
}

type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	workspaceID string
	email       string
	admin       bool

	// Subscriptions - what channels this client is listening to
	subscriptions map[wstypes.ChannelType]bool
	subMutex      sync.RWMutex

	closeMu sync.Mutex
	closed  bool

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a client subscribed to the views and session channels.
func NewClient(hub *Hub, conn *websocket.Conn, info ClientInfo) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		workspaceID: info.WorkspaceID,
		email:       info.Email,
		admin:       info.Admin,
		subscriptions: map[wstypes.ChannelType]bool{
			wstypes.ChannelViews:   true,
			wstypes.ChannelSession: true,
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Subscribe to a channel. Unknown channels are refused.
func (c *Client) Subscribe(channel wstypes.ChannelType) bool {
	switch channel {
	case wstypes.ChannelViews, wstypes.ChannelSession:
	default:
		return false
	}

	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	c.subscriptions[channel] = true
	return true
}

// Unsubscribe from a channel
func (c *Client) Unsubscribe(channel wstypes.ChannelType) {
	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	delete(c.subscriptions, channel)
}

// IsSubscribed checks if client is subscribed to a channel
func (c *Client) IsSubscribed(channel wstypes.ChannelType) bool {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()
	return c.subscriptions[channel]
}

// WorkspaceID returns the workspace the connection belongs to
func (c *Client) WorkspaceID() string {
	return c.workspaceID
}

// Email returns the signed-in email at connect time, empty when anonymous
func (c *Client) Email() string {
	return c.email
}

// IsAdmin reports whether the workspace was signed in as an admin at connect time
func (c *Client) IsAdmin() bool {
	return c.admin
}

// ReadPump handles incoming messages from client
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			_, message, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					c.hub.logger.Warn("websocket read error",
						zap.String("workspace", c.workspaceID),
						zap.Error(err),
					)
				}
				return
			}

			c.handleMessage(message)
		}
	}
}

// WritePump handles outgoing messages to client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
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

// handleMessage processes incoming messages from client
func (c *Client) handleMessage(data []byte) {
	msg, err := wstypes.ParseMessage(data)
	if err != nil {
		c.SendError("invalid_message", "Failed to parse message", err.Error())
		return
	}

	// Try to handle with registered handlers first
	handled, err := c.hub.HandleClientMessage(c.ctx, c, msg)
	if err != nil {
		c.SendError("handler_error", "Failed to process message", err.Error())
		return
	}
	if handled {
		return
	}

	// Built-in message handling
	switch msg.Type {
	case wstypes.EventTypePing:
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))

	case wstypes.EventTypeSubscribe:
		var req wstypes.SubscribeRequest
		if err := mapToStruct(msg.Data, &req); err != nil {
			c.SendError("invalid_subscribe", "Invalid subscribe request", err.Error())
			return
		}
		accepted := make([]wstypes.ChannelType, 0, len(req.Channels))
		for _, channel := range req.Channels {
			if c.Subscribe(channel) {
				accepted = append(accepted, channel)
			}
		}
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypeSubscribe, map[string]interface{}{
			"channels": accepted,
			"status":   "subscribed",
		}))

	case wstypes.EventTypeUnsubscribe:
		var req wstypes.UnsubscribeRequest
		if err := mapToStruct(msg.Data, &req); err != nil {
			c.SendError("invalid_unsubscribe", "Invalid unsubscribe request", err.Error())
			return
		}
		for _, channel := range req.Channels {
			c.Unsubscribe(channel)
		}
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypeUnsubscribe, map[string]interface{}{
			"channels": req.Channels,
			"status":   "unsubscribed",
		}))

	default:
		c.SendError("unsupported_event", "Unsupported event type", string(msg.Type))
	}
}

// SendMessage queues a message for the client. A client whose queue is full
// is disconnected.
func (c *Client) SendMessage(msg *wstypes.WSMessage) {
	data, err := msg.ToJSON()
	if err != nil {
		c.hub.logger.Error("failed to marshal websocket message", zap.Error(err))
		return
	}

	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.send <- data:
	default:
		go c.hub.leave(c)
	}
}

// SendError sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypeError, wstypes.ErrorData{
		Code:    code,
		Message: message,
		Details: details,
	}))
}

// Close gracefully closes the client connection. It is safe to call more
// than once.
func (c *Client) Close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	close(c.send)
}
