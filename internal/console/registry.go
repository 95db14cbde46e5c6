package console

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Registry keeps the most recently used workspaces in memory. Evicting a
// workspace drops only its view state; its session record stays in the
// session backend and is picked up again on the next request.
type Registry struct {
	opts  Options
	mu    sync.Mutex
	cache *lru.Cache[string, *Workspace]
}

func NewRegistry(size int, opts Options) (*Registry, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.BaseURL == nil || opts.Sessions == nil {
		return nil, fmt.Errorf("console registry: base url and session backend are required")
	}

	logger := opts.Logger
	cache, err := lru.NewWithEvict(size, func(id string, _ *Workspace) {
		logger.Debug("workspace evicted", zap.String("workspace", id))
	})
	if err != nil {
		return nil, fmt.Errorf("console registry: %w", err)
	}
	return &Registry{opts: opts, cache: cache}, nil
}

// Get returns the workspace for id, creating it on first use.
func (r *Registry) Get(id string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.cache.Get(id); ok {
		return w
	}
	w := newWorkspace(id, r.opts)
	r.cache.Add(id, w)
	return w
}

// Forget drops the in-memory state of a workspace.
func (r *Registry) Forget(id string) {
	r.cache.Remove(id)
}

func (r *Registry) Len() int {
	return r.cache.Len()
}
