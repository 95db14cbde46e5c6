// internal/handlers/websocket/websocket.go
package handlers

import (
	"net/http"
	"time"

	"skilltracker-console/internal/middleware"
	"skilltracker-console/internal/pkg/response"
	ws "skilltracker-console/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler accepts upgrades from the listed origins. With no
// origins configured only same-host upgrades are accepted.
func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if len(allowedOrigins) > 0 {
		allowed := make(map[string]bool, len(allowedOrigins))
		for _, origin := range allowedOrigins {
			allowed[origin] = true
		}
		upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed[origin]
		}
	}

	return &WebSocketHandler{
		hub:      hub,
		upgrader: upgrader,
		logger:   logger,
	}
}

// HandleConnection upgrades the request and attaches it to the caller's
// workspace. The workspace cookie is the only credential.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	workspace := middleware.MustGetWorkspace(c)
	record := middleware.GetRecord(c)

	info := ws.ClientInfo{WorkspaceID: workspace.ID}
	if record != nil {
		info.Email = record.Email
		info.Admin = record.IsAdmin()
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, info)
	h.hub.Register <- client

	h.logger.Info("WebSocket client connected",
		zap.String("workspace", workspace.ID),
		zap.String("email", info.Email),
		zap.Bool("admin", info.Admin),
	)

	go client.WritePump()
	go client.ReadPump()
}

// GetStats returns WebSocket connection statistics
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"total_connections":     h.hub.TotalClients(),
		"workspace_connections": h.hub.GetConnectedClients(middleware.MustGetWorkspace(c).ID),
		"timestamp":             time.Now(),
	}

	response.Success(c, http.StatusOK, "WebSocket stats", stats)
}
