package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// ErrExpired is returned by Save for a record whose expiry has passed.
var ErrExpired = errors.New("session already expired")

// Store persists the Record of a single workspace.
//
// Load returns (nil, nil) when nothing is stored, the record has expired or
// the stored value cannot be decoded; an error is only returned when the backend itself failed. Save
// replaces the record atomically: readers see either the old or the new value.
type Store interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, r *Record) error
	Clear(ctx context.Context) error
}

// Backend hands out the Store of a workspace.
type Backend interface {
	Scope(workspaceID string) Store
}

// decode treats malformed entries as absent.
func decode(data []byte) *Record {
	if len(data) == 0 {
		return nil
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil
	}
	if !r.valid() {
		return nil
	}
	return &r
}

// MemoryBackend keeps records in process memory. Used with SESSION_BACKEND=memory
// and in tests.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string][]byte)}
}

func (b *MemoryBackend) Scope(workspaceID string) Store {
	return &memoryStore{backend: b, key: workspaceID}
}

// Put stores raw bytes under a workspace, bypassing encoding.
func (b *MemoryBackend) Put(workspaceID string, raw []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[workspaceID] = append([]byte(nil), raw...)
}

type memoryStore struct {
	backend *MemoryBackend
	key     string
}

func (s *memoryStore) Load(ctx context.Context) (*Record, error) {
	s.backend.mu.RLock()
	data := s.backend.entries[s.key]
	s.backend.mu.RUnlock()

	r := decode(data)
	if r.Expired(time.Now()) {
		return nil, nil
	}
	return r, nil
}

func (s *memoryStore) Save(ctx context.Context, r *Record) error {
	if r == nil {
		return s.Clear(ctx)
	}
	if r.Expired(time.Now()) {
		return ErrExpired
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	s.backend.mu.Lock()
	s.backend.entries[s.key] = data
	s.backend.mu.Unlock()
	return nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.backend.mu.Lock()
	delete(s.backend.entries, s.key)
	s.backend.mu.Unlock()
	return nil
}
