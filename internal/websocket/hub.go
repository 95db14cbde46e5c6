// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "skilltracker-console/internal/domain/websocket"

	"go.uber.org/zap"
)

// Hub fans view and session events out to the browser connections of each
// workspace.
type Hub struct {
	// Registered clients by workspace ID
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	// Closed once Run has returned
	done chan struct{}

	logger *zap.Logger
}

type BroadcastMessage struct {
	WorkspaceIDs []string
	Channel      wstypes.ChannelType
	Message      *wstypes.WSMessage
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[string]map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client, 16),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		done:            make(chan struct{}),
		logger:          logger,
	}
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// HandleClientMessage processes a message from a client using registered handlers
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (bool, error) {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return false, nil
	}
	return true, handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			close(h.done)
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

// leave queues client for removal. It returns at once when the hub has
// stopped.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.workspaceID] == nil {
		h.clients[client.workspaceID] = make(map[*Client]bool)
	}
	h.clients[client.workspaceID][client] = true

	h.logger.Info("websocket client connected",
		zap.String("workspace", client.workspaceID),
		zap.String("email", client.Email()),
		zap.Bool("admin", client.IsAdmin()),
		zap.Int("total", h.totalClients()),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"workspace":     client.workspaceID,
		"authenticated": client.Email() != "",
		"channels":      []wstypes.ChannelType{wstypes.ChannelViews, wstypes.ChannelSession},
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.workspaceID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.workspaceID)
			}

			h.logger.Info("websocket client disconnected",
				zap.String("workspace", client.workspaceID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.WorkspaceIDs == nil {
		for _, clients := range h.clients {
			for client := range clients {
				if client.IsSubscribed(msg.Channel) {
					client.SendMessage(msg.Message)
				}
			}
		}
		return
	}

	for _, id := range msg.WorkspaceIDs {
		for client := range h.clients[id] {
			if client.IsSubscribed(msg.Channel) {
				client.SendMessage(msg.Message)
			}
		}
	}
}

func (h *Hub) GetConnectedClients(workspaceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// ViewChanged pushes view:updated to the workspace's connections.
func (h *Hub) ViewChanged(workspaceID, view string) {
	h.enqueue(&BroadcastMessage{
		WorkspaceIDs: []string{workspaceID},
		Channel:      wstypes.ChannelViews,
		Message:      wstypes.NewMessage(wstypes.EventTypeViewUpdated, wstypes.ViewUpdatedData{View: view}),
	})
}

// SessionChanged tells the workspace's connections about a login or logout,
// so other open pages of the same browser re-run the access gate.
func (h *Hub) SessionChanged(workspaceID string, authenticated bool) {
	message := "You have been logged out"
	if authenticated {
		message = "You are logged in"
	}
	h.enqueue(&BroadcastMessage{
		WorkspaceIDs: []string{workspaceID},
		Channel:      wstypes.ChannelSession,
		Message: wstypes.NewMessage(wstypes.EventTypeSessionChanged, wstypes.SessionEventData{
			Authenticated: authenticated,
			Message:       message,
		}),
	})
}

// enqueue never blocks the caller; events are dropped when the hub is
// saturated or not running.
func (h *Hub) enqueue(msg *BroadcastMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping event",
			zap.String("type", string(msg.Message.Type)),
		)
	}
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
		delete(h.clients, id)
	}
}
