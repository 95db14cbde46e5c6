// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"
)

// EventType represents different real-time event types
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// View events (server -> client)
	EventTypeViewUpdated EventType = "view:updated"

	// View events (client -> server)
	EventTypeViewGet   EventType = "view:get"
	EventTypeViewState EventType = "view:state"

	// Session events
	EventTypeSessionChanged EventType = "session:changed"

	// Subscription events
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType              `json:"type"`
	Data      interface{}            `json:"data,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	ID        string                 `json:"id,omitempty"`
}

// Subscription channels that clients can subscribe to
type ChannelType string

const (
	ChannelViews   ChannelType = "views"
	ChannelSession ChannelType = "session"
)

// SubscribeRequest sent by client to subscribe to specific channels
type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// UnsubscribeRequest sent by client to unsubscribe from channels
type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ViewUpdatedData tells the browser to re-read a view.
type ViewUpdatedData struct {
	View string `json:"view"`
}

// ViewGetRequest asks for the current state of a view.
type ViewGetRequest struct {
	View string `json:"view"`
}

// ViewStateData answers a ViewGetRequest.
type ViewStateData struct {
	View  string      `json:"view"`
	State interface{} `json:"state"`
}

// SessionEventData for login/logout in the workspace
type SessionEventData struct {
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message"`
}

// Helper to create messages
func NewMessage(eventType EventType, data interface{}) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
