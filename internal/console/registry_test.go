package console

import (
	"context"
	"net/url"
	"sync"
	"testing"

	"skilltracker-console/internal/pkg/session"
)

type recordingNotifier struct {
	mu    sync.Mutex
	views []string
}

func (n *recordingNotifier) ViewChanged(workspaceID, view string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.views = append(n.views, workspaceID+":"+view)
}

func (n *recordingNotifier) SessionChanged(string, bool) {}

func testOptions(backend session.Backend, notifier Notifier) Options {
	base, _ := url.Parse("http://127.0.0.1:1/api")
	return Options{
		BaseURL:          base,
		Sessions:         backend,
		Notifier:         notifier,
		EmployeePageSize: 5,
		PickerSize:       1000,
	}
}

func TestRegistry_ReusesAndEvicts(t *testing.T) {
	t.Parallel()

	backend := session.NewMemoryBackend()
	r, err := NewRegistry(2, testOptions(backend, nil))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	a := r.Get("a")
	if r.Get("a") != a {
		t.Fatal("same id must return the same workspace")
	}
	_ = a.Store.Save(context.Background(), &session.Record{Email: "a@x.com", Role: session.RoleAdmin, AccessToken: "t"})

	r.Get("b")
	r.Get("c")
	if r.Len() != 2 {
		t.Fatalf("expected 2 cached workspaces, got %d", r.Len())
	}

	again := r.Get("a")
	if again == a {
		t.Fatal("evicted workspace should be rebuilt")
	}
	rec, _ := again.Store.Load(context.Background())
	if rec == nil || rec.Email != "a@x.com" {
		t.Fatalf("session must survive eviction, got %+v", rec)
	}
}

func TestWorkspace_DefaultsAndNotifications(t *testing.T) {
	t.Parallel()

	n := &recordingNotifier{}
	r, err := NewRegistry(4, testOptions(session.NewMemoryBackend(), n))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	w := r.Get("ws")

	q := w.Directory.Snapshot().Query
	if q.Size != 5 || q.Sort != DefaultSort || q.Page != 0 {
		t.Fatalf("unexpected directory defaults %+v", q)
	}

	// Nothing listens on 127.0.0.1:1, so the load fails but still notifies.
	_ = w.Skills.Load(context.Background())
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.views) != 1 || n.views[0] != "ws:skills" {
		t.Fatalf("unexpected notifications %v", n.views)
	}
}

func TestNewRegistry_RequiresBackend(t *testing.T) {
	t.Parallel()

	if _, err := NewRegistry(1, Options{}); err == nil {
		t.Fatal("expected error without base url and backend")
	}
}
