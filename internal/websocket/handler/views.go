// internal/websocket/handler/views.go
package handler

import (
	"context"
	"fmt"

	"skilltracker-console/internal/console"
	wstypes "skilltracker-console/internal/domain/websocket"
	ws "skilltracker-console/internal/websocket"
)

// Workspaces resolves a workspace by id.
type Workspaces interface {
	Get(id string) *console.Workspace
}

// ViewHandler answers view:get with the workspace's current view state, so a
// page can re-render after a view:updated event without a full reload.
type ViewHandler struct {
	workspaces Workspaces
}

func NewViewHandler(workspaces Workspaces) *ViewHandler {
	return &ViewHandler{workspaces: workspaces}
}

// SupportedEvents returns events this handler supports
func (h *ViewHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeViewGet}
}

// HandleMessage processes view-related messages
func (h *ViewHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	if msg.Type != wstypes.EventTypeViewGet {
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}

	var req wstypes.ViewGetRequest
	if err := ws.DecodeData(msg.Data, &req); err != nil {
		return fmt.Errorf("invalid view request: %w", err)
	}

	// The socket outlives logins, so the stored record decides, not the
	// role the socket connected with.
	workspace := h.workspaces.Get(client.WorkspaceID())
	rec, err := workspace.Store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	if !rec.HasCredential() {
		return fmt.Errorf("view %s requires a session", req.View)
	}
	if !rec.IsAdmin() && req.View != console.ViewProfile {
		return fmt.Errorf("view %s requires an admin session", req.View)
	}

	state, ok := workspace.Snapshot(req.View)
	if !ok {
		return fmt.Errorf("unknown view: %s", req.View)
	}

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeViewState, wstypes.ViewStateData{
		View:  req.View,
		State: state,
	}))
	return nil
}
