// Package collection keeps a paged, sorted, filtered view of one remote
// collection in sync with the server. Every successful mutation is followed
// by a full reload with the then-current parameters; items are never spliced
// into the displayed page locally.
package collection

import (
	"context"
	"errors"
	"net/url"
	"sync"

	xerrors "skilltracker-console/internal/pkg/errors"

	"go.uber.org/zap"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

var ErrReadOnly = errors.New("collection is read-only")

// Draft is an entity payload with a presence check.
type Draft interface {
	Validate() error
}

// NoDraft is the draft type of read-only collections.
type NoDraft struct{}

func (NoDraft) Validate() error { return nil }

// Source fetches one page of the collection.
type Source[T any] interface {
	List(ctx context.Context, q Query) (*Page[T], error)
}

// Mutator performs single-entity writes.
type Mutator[D Draft] interface {
	Create(ctx context.Context, draft D) error
	Update(ctx context.Context, id int64, draft D) error
	Delete(ctx context.Context, id int64) error
}

// Messages are the fallback texts shown when the server sends none.
type Messages struct {
	Load   string
	Create string
	Update string
	Delete string
}

// State is a snapshot of the controller. Page is nil until the first
// successful load and after a failed one.
type State[T any] struct {
	Status Status   `json:"status"`
	Query  Query    `json:"query"`
	Page   *Page[T] `json:"page"`
	Empty  bool     `json:"empty"`
	Error  string   `json:"error,omitempty"`
}

type Controller[T any, D Draft] struct {
	name     string
	source   Source[T]
	mutator  Mutator[D]
	messages Messages
	logger   *zap.Logger
	notify   func(view string)

	mu    sync.Mutex
	state State[T]
}

type Option[T any, D Draft] func(*Controller[T, D])

// WithMutator enables Create, Update and Delete.
func WithMutator[T any, D Draft](m Mutator[D]) Option[T, D] {
	return func(c *Controller[T, D]) { c.mutator = m }
}

// WithNotifier registers fn to be called with the view name after every
// applied state change.
func WithNotifier[T any, D Draft](fn func(view string)) Option[T, D] {
	return func(c *Controller[T, D]) { c.notify = fn }
}

func WithLogger[T any, D Draft](logger *zap.Logger) Option[T, D] {
	return func(c *Controller[T, D]) { c.logger = logger }
}

func NewController[T any, D Draft](name string, source Source[T], initial Query, messages Messages, opts ...Option[T, D]) *Controller[T, D] {
	c := &Controller[T, D]{
		name:     name,
		source:   source,
		messages: messages,
		logger:   zap.NewNop(),
		state: State[T]{
			Status: StatusIdle,
			Query:  initial.clone(),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller[T, D]) Name() string { return c.name }

// Snapshot returns a copy of the current state.
func (c *Controller[T, D]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Query = c.state.Query.clone()
	return s
}

// Load fetches the page for the current parameters.
func (c *Controller[T, D]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.state.Status = StatusLoading
	q := c.state.Query.clone()
	c.mu.Unlock()

	page, err := c.source.List(ctx, q)
	if err != nil {
		msg := xerrors.UserMessage(err, c.messages.Load)
		c.logger.Warn("collection load failed",
			zap.String("collection", c.name),
			zap.Int("page", q.Page),
			zap.String("sort", q.Sort.String()),
			zap.Error(err),
		)
		c.apply(func(s *State[T]) {
			s.Status = StatusFailed
			s.Page = nil
			s.Empty = false
			s.Error = msg
		})
		return xerrors.WithMessage(xerrors.Classify(err), msg, err)
	}
	if page == nil {
		page = SinglePage[T](nil)
	}
	page.normalize()

	c.apply(func(s *State[T]) {
		s.Status = StatusReady
		s.Page = page
		s.Empty = len(page.Items) == 0
		s.Error = ""
	})
	return nil
}

// ChangeSort toggles or replaces the sort field, returns to the first page
// and reloads.
func (c *Controller[T, D]) ChangeSort(ctx context.Context, field string) error {
	c.mu.Lock()
	c.state.Query.Sort = c.state.Query.Sort.Toggle(field)
	c.state.Query.Page = 0
	c.mu.Unlock()
	return c.Load(ctx)
}

// ChangePage moves to pageIndex and reloads. Bounds are not clamped.
func (c *Controller[T, D]) ChangePage(ctx context.Context, pageIndex int) error {
	c.mu.Lock()
	c.state.Query.Page = pageIndex
	c.mu.Unlock()
	return c.Load(ctx)
}

// SetFilter replaces the filter criteria, returns to the first page and
// reloads. A nil or empty filter clears it.
func (c *Controller[T, D]) SetFilter(ctx context.Context, filter url.Values) error {
	c.mu.Lock()
	if len(filter) == 0 {
		c.state.Query.Filter = nil
	} else {
		c.state.Query.Filter = Query{Filter: filter}.clone().Filter
	}
	c.state.Query.Page = 0
	c.mu.Unlock()
	return c.Load(ctx)
}

// Navigation is a set of query changes applied in one load. Nil fields keep
// their current value. A new sort or filter returns to the first page unless
// Page is also given; an empty non-nil Filter clears the criteria.
type Navigation struct {
	Page   *int
	Sort   *Sort
	Filter url.Values
}

// Navigate applies nav and reloads.
func (c *Controller[T, D]) Navigate(ctx context.Context, nav Navigation) error {
	c.mu.Lock()
	if nav.Sort != nil {
		c.state.Query.Sort = *nav.Sort
		c.state.Query.Page = 0
	}
	if nav.Filter != nil {
		if len(nav.Filter) == 0 {
			c.state.Query.Filter = nil
		} else {
			c.state.Query.Filter = Query{Filter: nav.Filter}.clone().Filter
		}
		c.state.Query.Page = 0
	}
	if nav.Page != nil {
		c.state.Query.Page = *nav.Page
	}
	c.mu.Unlock()
	return c.Load(ctx)
}

func (c *Controller[T, D]) Create(ctx context.Context, draft D) error {
	return c.mutate(ctx, "create", c.messages.Create, draft, func(m Mutator[D]) error {
		return m.Create(ctx, draft)
	})
}

func (c *Controller[T, D]) Update(ctx context.Context, id int64, draft D) error {
	return c.mutate(ctx, "update", c.messages.Update, draft, func(m Mutator[D]) error {
		return m.Update(ctx, id, draft)
	})
}

func (c *Controller[T, D]) Delete(ctx context.Context, id int64) error {
	return c.mutate(ctx, "delete", c.messages.Delete, nil, func(m Mutator[D]) error {
		return m.Delete(ctx, id)
	})
}

// mutate runs one write and, on success, a full reload. A failed write
// leaves the displayed page untouched and records the message.
func (c *Controller[T, D]) mutate(ctx context.Context, op, fallback string, draft Draft, call func(Mutator[D]) error) error {
	if c.mutator == nil {
		return xerrors.WithMessage(xerrors.ErrInternal, fallback, ErrReadOnly)
	}

	if draft != nil {
		if err := draft.Validate(); err != nil {
			c.fail(err.Error())
			return xerrors.WithMessage(xerrors.ErrValidation, err.Error(), err)
		}
	}

	if err := call(c.mutator); err != nil {
		msg := xerrors.UserMessage(err, fallback)
		c.logger.Warn("collection mutation failed",
			zap.String("collection", c.name),
			zap.String("op", op),
			zap.Error(err),
		)
		c.fail(msg)
		return xerrors.WithMessage(xerrors.Classify(err), msg, err)
	}

	return c.Load(ctx)
}

func (c *Controller[T, D]) fail(msg string) {
	c.apply(func(s *State[T]) { s.Error = msg })
}

func (c *Controller[T, D]) apply(fn func(*State[T])) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()
	if c.notify != nil {
		c.notify(c.name)
	}
}
