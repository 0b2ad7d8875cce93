package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process Store used by tests and ephemeral runs.
// All reads and writes deep-copy document data so callers never share state
// with the store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

// NewMemoryStore constructs an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string]map[string]map[string]any{}}
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	documents, ok := s.collections[collection]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyMap(data), nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	documents, ok := s.collections[collection]
	if !ok {
		documents = map[string]map[string]any{}
		s.collections[collection] = documents
	}
	documents[id] = copyMap(data)
	return nil
}

func (s *MemoryStore) Merge(_ context.Context, collection, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	documents, ok := s.collections[collection]
	if !ok {
		return ErrNotFound
	}
	existing, ok := documents[id]
	if !ok {
		return ErrNotFound
	}
	for field, value := range fields {
		existing[field] = copyValue(value)
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if documents, ok := s.collections[collection]; ok {
		delete(documents, id)
	}
	return nil
}

func (s *MemoryStore) Query(_ context.Context, collection string, query Query) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Document, 0)
	for id, data := range s.collections[collection] {
		if !matchesFilters(data, query.Filters) {
			continue
		}
		results = append(results, Document{ID: id, Data: copyMap(data)})
	}

	if query.OrderBy != "" {
		sort.SliceStable(results, func(i, j int) bool {
			ordering := compareValues(results[i].Data[query.OrderBy], results[j].Data[query.OrderBy])
			if query.Direction == Descending {
				return ordering > 0
			}
			return ordering < 0
		})
	}

	return results, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func matchesFilters(data map[string]any, filters []Filter) bool {
	for _, filter := range filters {
		value, ok := data[filter.Field]
		if !ok || !valuesEqual(value, filter.Value) {
			return false
		}
	}
	return true
}

func copyMap(source map[string]any) map[string]any {
	if source == nil {
		return nil
	}
	target := make(map[string]any, len(source))
	for field, value := range source {
		target[field] = copyValue(value)
	}
	return target
}

func copyValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return copyMap(typed)
	case []any:
		items := make([]any, len(typed))
		for i, item := range typed {
			items[i] = copyValue(item)
		}
		return items
	default:
		return value
	}
}
