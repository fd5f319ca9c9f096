package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory SuggestionStore for the local CLI and web
// server, and for tests. Records are copied on the way in and out so
// callers cannot mutate stored state.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]map[string]*Suggestion
}

var _ SuggestionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]map[string]*Suggestion)}
}

func (m *MemoryStore) Put(ctx context.Context, sg *Suggestion) error {
	fill(sg)

	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.users[sg.UserID]
	if !ok {
		byID = make(map[string]*Suggestion)
		m.users[sg.UserID] = byID
	}
	byID[sg.ID] = copySuggestion(sg)
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, userID, id string) (*Suggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sg, ok := m.users[userID][id]
	if !ok {
		return nil, nil
	}
	return copySuggestion(sg), nil
}

func (m *MemoryStore) ListByUser(ctx context.Context, userID string) ([]*Suggestion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Suggestion
	for _, sg := range m.users[userID] {
		out = append(out, copySuggestion(sg))
	}
	return out, nil
}

func (m *MemoryStore) Update(ctx context.Context, userID, id, suggestion string, tags []string) (*Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sg, ok := m.users[userID][id]
	if !ok {
		return nil, nil
	}
	sg.Suggestion = suggestion
	sg.Tags = append([]string(nil), tags...)
	fill(sg)
	return copySuggestion(sg), nil
}

func (m *MemoryStore) UpdateTags(ctx context.Context, userID, id string, tags []string) (*Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sg, ok := m.users[userID][id]
	if !ok {
		return nil, nil
	}
	sg.Tags = append([]string(nil), tags...)
	fill(sg)
	return copySuggestion(sg), nil
}

func (m *MemoryStore) Delete(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users[userID], id)
	return nil
}

func copySuggestion(sg *Suggestion) *Suggestion {
	out := *sg
	out.Tags = append([]string(nil), sg.Tags...)
	return &out
}
