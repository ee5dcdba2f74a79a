package store

import (
	"context"
	"sort"
	"sync"

	"github.com/storyflow/storyflow/pkg/errors"
	"github.com/storyflow/storyflow/pkg/flow"
)

// MemoryStore keeps flows in a map. It backs tests and the API server's
// --ephemeral mode; contents are lost on exit.
type MemoryStore struct {
	mu    sync.RWMutex
	flows map[string]*flow.Flow
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flows: make(map[string]*flow.Flow)}
}

// Name identifies the backend.
func (s *MemoryStore) Name() string { return "memory" }

// Load returns a deep copy so callers can't mutate stored state.
func (s *MemoryStore) Load(ctx context.Context, id string) (*flow.Flow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.flows[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeFlowNotFound, "flow %s not found", id)
	}
	return f.Clone(), nil
}

// Save validates and stores a deep copy of the flow.
func (s *MemoryStore) Save(ctx context.Context, f *flow.Flow) error {
	if err := errors.ValidateFlowID(f.ID); err != nil {
		return err
	}
	if err := flow.Validate(f); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flows[f.ID] = f.Clone()
	return nil
}

// Delete removes a flow.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.flows[id]; !ok {
		return errors.New(errors.ErrCodeFlowNotFound, "flow %s not found", id)
	}
	delete(s.flows, id)
	return nil
}

// List returns summaries sorted by id.
func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.flows))
	for _, f := range s.flows {
		out = append(out, summarize(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close does nothing for memory stores.
func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
