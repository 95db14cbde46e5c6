package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"skilltracker-console/internal/console"
	wstypes "skilltracker-console/internal/domain/websocket"
	"skilltracker-console/internal/pkg/session"
	ws "skilltracker-console/internal/websocket"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// dialHub connects a socket to workspace ws-1 as an admin. The stored
// record, which may be nil, is what the view handler checks.
func dialHub(t *testing.T, rec *session.Record) *websocket.Conn {
	t.Helper()

	backend := session.NewMemoryBackend()
	if rec != nil {
		if err := backend.Scope("ws-1").Save(context.Background(), rec); err != nil {
			t.Fatal(err)
		}
	}

	base, _ := url.Parse("http://127.0.0.1:1/api")
	registry, err := console.NewRegistry(4, console.Options{
		BaseURL:          base,
		Sessions:         backend,
		EmployeePageSize: 5,
		PickerSize:       10,
		Logger:           zap.NewNop(),
	})
	if err != nil {
		t.Fatal(err)
	}

	hub := ws.NewHub(zap.NewNop())
	hub.RegisterHandler(NewViewHandler(registry))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := ws.NewClient(hub, conn, ws.ClientInfo{WorkspaceID: "ws-1", Email: "a@x.io", Admin: true})
		hub.Register <- client
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	read(t, conn) // connected
	return conn
}

func read(t *testing.T, conn *websocket.Conn) *wstypes.WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	msg, err := wstypes.ParseMessage(data)
	if err != nil {
		t.Fatal(err)
	}
	return msg
}

func ask(t *testing.T, conn *websocket.Conn, view string) *wstypes.WSMessage {
	t.Helper()
	data, _ := wstypes.NewMessage(wstypes.EventTypeViewGet, wstypes.ViewGetRequest{View: view}).ToJSON()
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatal(err)
	}
	return read(t, conn)
}

func record(role session.Role) *session.Record {
	return &session.Record{
		Email:       "a@x.io",
		Role:        role,
		AccessToken: "tok",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func TestViewHandler(t *testing.T) {
	t.Run("admin reads a collection view", func(t *testing.T) {
		conn := dialHub(t, record(session.RoleAdmin))
		msg := ask(t, conn, console.ViewSkills)
		if msg.Type != wstypes.EventTypeViewState {
			t.Fatalf("type = %s, want view:state", msg.Type)
		}
		var data struct {
			View  string `json:"view"`
			State struct {
				Status string `json:"status"`
			} `json:"state"`
		}
		if err := ws.DecodeData(msg.Data, &data); err != nil {
			t.Fatal(err)
		}
		if data.View != console.ViewSkills || data.State.Status != "idle" {
			t.Errorf("data = %+v", data)
		}
	})

	t.Run("unknown view", func(t *testing.T) {
		conn := dialHub(t, record(session.RoleAdmin))
		if msg := ask(t, conn, "payroll"); msg.Type != wstypes.EventTypeError {
			t.Errorf("type = %s, want error", msg.Type)
		}
	})

	t.Run("employee cannot read admin views", func(t *testing.T) {
		conn := dialHub(t, record(session.RoleEmployee))
		if msg := ask(t, conn, console.ViewDirectory); msg.Type != wstypes.EventTypeError {
			t.Errorf("type = %s, want error", msg.Type)
		}
		if msg := ask(t, conn, console.ViewProfile); msg.Type != wstypes.EventTypeViewState {
			t.Errorf("profile type = %s, want view:state", msg.Type)
		}
	})

	t.Run("no session after logout", func(t *testing.T) {
		conn := dialHub(t, nil)
		for _, view := range []string{console.ViewDirectory, console.ViewProfile} {
			if msg := ask(t, conn, view); msg.Type != wstypes.EventTypeError {
				t.Errorf("%s type = %s, want error", view, msg.Type)
			}
		}
	})
}
