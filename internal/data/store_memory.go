package data

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore implements DocumentStore with in-memory maps. It backs local
// development and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	// order keeps insertion order so Find is deterministic.
	order map[string][]string
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
		order:       make(map[string][]string),
	}
}

func (s *MemoryStore) Insert(ctx context.Context, collection, id string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]Document)
		s.collections[collection] = docs
	}
	if _, exists := docs[id]; exists {
		return ErrDuplicateRecord
	}
	docs[id] = cloneDocument(doc)
	s.order[collection] = append(s.order[collection], id)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrGeneralRecordNotFound
	}
	return cloneDocument(doc), nil
}

func (s *MemoryStore) Replace(ctx context.Context, collection, id string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return ErrGeneralRecordNotFound
	}
	s.collections[collection][id] = cloneDocument(doc)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return ErrGeneralRecordNotFound
	}
	delete(s.collections[collection], id)
	if idx := slices.Index(s.order[collection], id); idx >= 0 {
		s.order[collection] = slices.Delete(s.order[collection], idx, idx+1)
	}
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for _, id := range s.order[collection] {
		doc := s.collections[collection][id]
		if matches(doc, q) {
			out = append(out, cloneDocument(doc))
		}
	}
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
