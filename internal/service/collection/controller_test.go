package collection

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"

	xerrors "skilltracker-console/internal/pkg/errors"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type draft struct{ Name string }

func (d draft) Validate() error {
	if d.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// fakeServer is an in-memory remote collection that pages and records calls.
type fakeServer struct {
	mu      sync.Mutex
	items   []item
	nextID  int64
	queries []Query
	calls   []string
	listErr error
	mutErr  error
}

func newFakeServer(names ...string) *fakeServer {
	s := &fakeServer{}
	for _, n := range names {
		s.nextID++
		s.items = append(s.items, item{ID: s.nextID, Name: n})
	}
	return s
}

func (s *fakeServer) List(_ context.Context, q Query) (*Page[item], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q.clone())
	s.calls = append(s.calls, "list")
	if s.listErr != nil {
		return nil, s.listErr
	}

	size := q.Size
	if size <= 0 {
		size = len(s.items)
	}
	total := len(s.items)
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	start := q.Page * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	content := append([]item(nil), s.items[start:end]...)

	raw, _ := json.Marshal(map[string]any{
		"content":       content,
		"number":        q.Page,
		"size":          size,
		"totalPages":    pages,
		"totalElements": total,
		// deliberately stale flags; the page must recompute them
		"first": false,
		"last":  false,
	})
	var p Page[item]
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *fakeServer) Create(_ context.Context, d draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "create")
	if s.mutErr != nil {
		return s.mutErr
	}
	s.nextID++
	s.items = append(s.items, item{ID: s.nextID, Name: d.Name})
	return nil
}

func (s *fakeServer) Update(_ context.Context, id int64, d draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "update")
	if s.mutErr != nil {
		return s.mutErr
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Name = d.Name
		}
	}
	return nil
}

func (s *fakeServer) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "delete")
	if s.mutErr != nil {
		return s.mutErr
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeServer) lastQuery() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queries[len(s.queries)-1]
}

var testMessages = Messages{
	Load:   "Failed to fetch items.",
	Create: "Failed to create item.",
	Update: "Failed to update item.",
	Delete: "Failed to delete item.",
}

func newTestController(s *fakeServer, size int) *Controller[item, draft] {
	return NewController[item, draft]("items", s,
		Query{Size: size, Sort: Sort{Field: "name", Direction: Asc}},
		testMessages,
		WithMutator[item, draft](s),
	)
}

func TestChangeSort_ResetsPageAndToggles(t *testing.T) {
	t.Parallel()

	s := newFakeServer("a", "b", "c", "d", "e", "f", "g")
	c := newTestController(s, 2)
	ctx := context.Background()

	if err := c.ChangePage(ctx, 2); err != nil {
		t.Fatalf("ChangePage: %v", err)
	}

	fields := []string{"name", "name", "email", "email", "name", "name", "name"}
	want := []Direction{Desc, Asc, Asc, Desc, Asc, Desc, Asc}
	for i, f := range fields {
		if err := c.ChangeSort(ctx, f); err != nil {
			t.Fatalf("ChangeSort(%q): %v", f, err)
		}
		st := c.Snapshot()
		if st.Query.Page != 0 || st.Page.Number != 0 {
			t.Fatalf("step %d: page index must reset to 0, got query=%d page=%d", i, st.Query.Page, st.Page.Number)
		}
		if st.Query.Sort.Field != f || st.Query.Sort.Direction != want[i] {
			t.Fatalf("step %d: sort = %+v, want %s %s", i, st.Query.Sort, f, want[i])
		}
		if got := s.lastQuery().Sort; got != st.Query.Sort {
			t.Fatalf("step %d: load used sort %+v, state has %+v", i, got, st.Query.Sort)
		}
		_ = c.ChangePage(ctx, 1)
	}
}

func TestChangeSort_FromInitialAscending(t *testing.T) {
	t.Parallel()

	s := newFakeServer("a")
	c := newTestController(s, 5)
	ctx := context.Background()

	if err := c.ChangeSort(ctx, "name"); err != nil {
		t.Fatalf("ChangeSort: %v", err)
	}
	st := c.Snapshot()
	if st.Query.Sort != (Sort{Field: "name", Direction: Desc}) || st.Query.Page != 0 {
		t.Fatalf("unexpected state after first toggle: %+v", st.Query)
	}
	if s.lastQuery().Values().Get("sort") != "name,desc" {
		t.Fatalf("expected wire sort name,desc, got %q", s.lastQuery().Values().Get("sort"))
	}

	_ = c.ChangeSort(ctx, "name")
	if got := c.Snapshot().Query.Sort.Direction; got != Asc {
		t.Fatalf("second toggle should return to asc, got %s", got)
	}
}

func TestNavigate(t *testing.T) {
	t.Parallel()

	s := newFakeServer("a", "b", "c", "d", "e", "f", "g")
	c := newTestController(s, 2)
	ctx := context.Background()

	page, sort := 2, Sort{Field: "email", Direction: Desc}
	if err := c.Navigate(ctx, Navigation{Page: &page, Sort: &sort}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	q := s.lastQuery()
	if q.Page != 2 || q.Sort != sort {
		t.Fatalf("load used %+v, want page 2 sorted by email desc", q)
	}

	if err := c.Navigate(ctx, Navigation{Filter: url.Values{"skill": {"Go"}}}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	q = s.lastQuery()
	if q.Page != 0 || q.Filter.Get("skill") != "Go" || q.Sort != sort {
		t.Fatalf("filter must keep the sort and return to page 0, got %+v", q)
	}

	if err := c.Navigate(ctx, Navigation{}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if q = s.lastQuery(); q.Filter.Get("skill") != "Go" {
		t.Fatalf("empty navigation must keep the filter, got %+v", q)
	}

	if err := c.Navigate(ctx, Navigation{Filter: url.Values{}}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if q = s.lastQuery(); q.Filter != nil {
		t.Fatalf("empty filter must clear the criteria, got %+v", q.Filter)
	}
}

func TestMutations_ReloadWithCurrentParameters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(context.Context, *Controller[item, draft]) error
	}{
		{
			name:   "create",
			mutate: func(ctx context.Context, c *Controller[item, draft]) error { return c.Create(ctx, draft{Name: "zz"}) },
		},
		{
			name: "update",
			mutate: func(ctx context.Context, c *Controller[item, draft]) error {
				return c.Update(ctx, 3, draft{Name: "renamed"})
			},
		},
		{
			name:   "delete",
			mutate: func(ctx context.Context, c *Controller[item, draft]) error { return c.Delete(ctx, 3) },
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := newFakeServer("a", "b", "c", "d", "e")
			c := newTestController(s, 2)
			ctx := context.Background()
			if err := c.ChangePage(ctx, 1); err != nil {
				t.Fatalf("ChangePage: %v", err)
			}
			before := c.Snapshot().Query

			if err := tt.mutate(ctx, c); err != nil {
				t.Fatalf("mutation failed: %v", err)
			}

			if len(s.calls) != 3 || s.calls[1] != tt.name || s.calls[2] != "list" {
				t.Fatalf("expected list, %s, list; got %v", tt.name, s.calls)
			}
			if q := s.lastQuery(); q.Page != before.Page || q.Sort != before.Sort || q.Size != before.Size {
				t.Fatalf("reload used %+v, want %+v", q, before)
			}

			st := c.Snapshot()
			if st.Status != StatusReady {
				t.Fatalf("expected ready after reload, got %s", st.Status)
			}
			want, _ := s.List(ctx, before)
			if len(st.Page.Items) != len(want.Items) {
				t.Fatalf("displayed %v, server has %v", st.Page.Items, want.Items)
			}
			for i := range want.Items {
				if st.Page.Items[i] != want.Items[i] {
					t.Fatalf("displayed %v, server has %v", st.Page.Items, want.Items)
				}
			}
		})
	}
}

func TestDelete_RecomputesLastFromNewResponse(t *testing.T) {
	t.Parallel()

	// 6 items, page size 2: pages 0..2. After one delete on page 1 there are
	// still 3 pages, so page 1 is not last.
	s := newFakeServer("a", "b", "c", "d", "e", "f")
	c := newTestController(s, 2)
	ctx := context.Background()
	if err := c.ChangePage(ctx, 1); err != nil {
		t.Fatalf("ChangePage: %v", err)
	}
	if c.Snapshot().Page.Last {
		t.Fatal("page 1 of 3 must not be last")
	}

	if err := c.Delete(ctx, 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	st := c.Snapshot()
	if st.Page.TotalPages != 3 || st.Page.Last || st.Page.First {
		t.Fatalf("expected page 1 of 3 (not first, not last), got %+v", st.Page)
	}

	// 4 items left: page 1 becomes the last page.
	if err := c.Delete(ctx, 4); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	st = c.Snapshot()
	if st.Page.TotalPages != 2 || !st.Page.Last {
		t.Fatalf("expected page 1 to be recomputed as last, got %+v", st.Page)
	}
}

func TestFailedMutation_KeepsPage(t *testing.T) {
	t.Parallel()

	s := newFakeServer("a", "b")
	c := newTestController(s, 5)
	ctx := context.Background()
	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	before := c.Snapshot()

	s.mutErr = &xerrors.ResponseError{Status: 409, Body: []byte(`{"message":"Skill already exists"}`)}
	err := c.Create(ctx, draft{Name: "a"})
	if !errors.Is(err, xerrors.ErrValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}

	after := c.Snapshot()
	if after.Status != StatusReady || after.Page != before.Page {
		t.Fatalf("failed mutation must keep the last good page, got %+v", after)
	}
	if after.Error != "Skill already exists" {
		t.Fatalf("expected server message, got %q", after.Error)
	}

	s.mutErr = &xerrors.ResponseError{Status: 500, Body: []byte("<html>oops</html>")}
	_ = c.Delete(ctx, 1)
	if got := c.Snapshot().Error; got != testMessages.Delete {
		t.Fatalf("expected fallback message, got %q", got)
	}

	s.mutErr = nil
	if err := c.Create(ctx, draft{Name: "c"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := c.Snapshot().Error; got != "" {
		t.Fatalf("successful reload must clear the error, got %q", got)
	}
}

func TestCreate_PresenceCheckSkipsNetwork(t *testing.T) {
	t.Parallel()

	s := newFakeServer("a")
	c := newTestController(s, 5)
	err := c.Create(context.Background(), draft{})
	if !errors.Is(err, xerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(s.calls) != 0 {
		t.Fatalf("invalid draft must not reach the server, got %v", s.calls)
	}
}

func TestLoad_FailureAndEmpty(t *testing.T) {
	t.Parallel()

	s := newFakeServer("a")
	c := newTestController(s, 5)
	ctx := context.Background()
	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	s.listErr = &xerrors.NetworkError{Method: "GET", Path: "/items", Err: errors.New("connection refused")}
	if err := c.Load(ctx); !errors.Is(err, xerrors.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	st := c.Snapshot()
	if st.Status != StatusFailed || st.Page != nil || st.Error != testMessages.Load {
		t.Fatalf("failed load must drop stale data, got %+v", st)
	}

	s.listErr = nil
	if err := c.SetFilter(ctx, url.Values{"skill": {"nothing"}}); err != nil {
		t.Fatalf("SetFilter: %v", err)
	}
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	if err := c.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st = c.Snapshot()
	if st.Status != StatusReady || !st.Empty || st.Page == nil || !st.Page.Last {
		t.Fatalf("empty result must be ready with Empty set, got %+v", st)
	}
	if s.lastQuery().Filter.Get("skill") != "nothing" {
		t.Fatalf("filter not forwarded: %+v", s.lastQuery())
	}
}

func TestReadOnlyController(t *testing.T) {
	t.Parallel()

	c := NewController[item, draft]("items", newFakeServer(), Query{}, testMessages)
	if err := c.Delete(context.Background(), 1); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestNotifier(t *testing.T) {
	t.Parallel()

	var views []string
	c := NewController[item, draft]("skills", newFakeServer("a"), Query{}, testMessages,
		WithNotifier[item, draft](func(view string) { views = append(views, view) }),
	)
	_ = c.Load(context.Background())
	if len(views) != 1 || views[0] != "skills" {
		t.Fatalf("expected one notification for skills, got %v", views)
	}
}
