// Package docstoremem is the in-memory docstore.Store used by tests and
// local development (DOCSTORE_PROVIDER=memory).
package docstoremem

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jelajahid/jelajah/pkg/docstore"
)

// MemoryStore implements docstore.Store on process-local maps. List returns
// records in insertion order, like the hosted store commonly (but not
// contractually) does.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]docstore.Document
	order       map[string][]string
}

// New creates an empty in-memory store.
func New() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]docstore.Document),
		order:       make(map[string][]string),
	}
}

// Add appends a document under a generated identifier.
func (s *MemoryStore) Add(_ context.Context, collection string, doc docstore.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]docstore.Document)
	}

	id := uuid.NewString()
	s.collections[collection][id] = copyDocument(doc)
	s.order[collection] = append(s.order[collection], id)
	return id, nil
}

// Get fetches one document.
func (s *MemoryStore) Get(_ context.Context, collection, id string) (docstore.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, docstore.ErrNotFound()
	}
	return copyDocument(doc), nil
}

// List returns every record in insertion order.
func (s *MemoryStore) List(_ context.Context, collection string) ([]docstore.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []docstore.Record{}
	for _, id := range s.order[collection] {
		doc, ok := s.collections[collection][id]
		if !ok {
			continue
		}
		records = append(records, docstore.Record{ID: id, Data: copyDocument(doc)})
	}
	return records, nil
}

// Update merges the given fields into an existing document.
func (s *MemoryStore) Update(_ context.Context, collection, id string, fields docstore.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return docstore.ErrNotFound()
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

// Delete removes a document; deleting a missing identifier succeeds.
func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return nil
	}
	delete(s.collections[collection], id)

	ids := s.order[collection]
	for i, existing := range ids {
		if existing == id {
			s.order[collection] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func copyDocument(doc docstore.Document) docstore.Document {
	out := make(docstore.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
