// Package store owns the only shared mutable state: the name→snapshot
// map of indices. Every mutation follows read-clone-mutate-publish over
// the whole target snapshot, so readers always observe a complete view
// and never block on writers.
package store

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/searchlite/searchlite/internal/domain"
	"github.com/searchlite/searchlite/internal/domain/document"
	"github.com/searchlite/searchlite/internal/domain/mapping"
)

// Snapshot is an immutable point-in-time view of one index: its mapping
// and its documents in insertion order. Published snapshots are never
// mutated in place.
type Snapshot struct {
	Mapping   mapping.Mapping
	Documents []document.Document
}

// slot holds the atomically-swappable snapshot of one index. The mutex
// serializes writers to this index only; readers load the pointer
// without locking.
type slot struct {
	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
}

func newSlot(snap *Snapshot) *slot {
	s := &slot{}
	s.snap.Store(snap)
	return s
}

// Store is the in-memory index registry. The outer RWMutex guards only
// the name→slot map itself; per-index writes contend solely on their
// own slot, so operations against distinct indices never interfere.
type Store struct {
	mu      sync.RWMutex
	indices map[string]*slot
}

// New creates an empty store.
func New() *Store {
	return &Store{indices: make(map[string]*slot)}
}

// CreateIndex publishes an empty snapshot under name, silently
// overwriting any existing index of the same name.
func (s *Store) CreateIndex(name string, m mapping.Mapping) {
	snap := &Snapshot{Mapping: m, Documents: nil}
	s.mu.Lock()
	s.indices[name] = newSlot(snap)
	s.mu.Unlock()
}

// GetIndex returns a shared immutable snapshot of the named index.
func (s *Store) GetIndex(name string) (*Snapshot, error) {
	sl, ok := s.lookup(name)
	if !ok {
		return nil, indexNotFound(name)
	}
	return sl.snap.Load(), nil
}

// DeleteIndex removes the named index entirely and reports whether it
// existed.
func (s *Store) DeleteIndex(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indices[name]; !ok {
		return false
	}
	delete(s.indices, name)
	return true
}

// Refresh is a structural no-op existence check: every write is already
// visible to subsequent reads, there is no buffer to flush.
func (s *Store) Refresh(name string) error {
	if _, ok := s.lookup(name); !ok {
		return indexNotFound(name)
	}
	return nil
}

// UpdateMapping merges newMapping into the index's mapping and
// atomically publishes the replacement snapshot.
func (s *Store) UpdateMapping(name string, newMapping mapping.Mapping) error {
	sl, ok := s.lookup(name)
	if !ok {
		return indexNotFound(name)
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	cur := sl.snap.Load()
	merged := cur.Mapping.Clone()
	merged.Update(newMapping)
	sl.snap.Store(&Snapshot{Mapping: merged, Documents: cur.Documents})
	return nil
}

// AddDocument validates doc against the index mapping, resolves its id
// (a supplied string "_id" wins, otherwise a fresh one is minted and
// injected), and upserts it: an existing document with the same id is
// replaced at its original position, otherwise the document is appended.
// Returns the resolved id.
func (s *Store) AddDocument(name string, doc document.Document) (string, error) {
	sl, ok := s.lookup(name)
	if !ok {
		return "", indexNotFound(name)
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	cur := sl.snap.Load()
	if err := cur.Mapping.Validate(doc); err != nil {
		return "", err
	}

	doc = doc.Clone()
	id := doc.ID()
	if id == "" {
		id = uuid.NewString()
		doc[document.IDField] = id
	}

	docs := make([]document.Document, len(cur.Documents), len(cur.Documents)+1)
	copy(docs, cur.Documents)
	if pos := position(docs, id); pos >= 0 {
		docs[pos] = doc
	} else {
		docs = append(docs, doc)
	}

	sl.snap.Store(&Snapshot{Mapping: cur.Mapping, Documents: docs})
	return id, nil
}

// PatchDocument shallow-merges partial's top-level keys over the stored
// document and routes the result back through AddDocument, so the merge
// is re-validated and keeps its id and position.
func (s *Store) PatchDocument(name, id string, partial document.Document) (string, error) {
	existing, err := s.GetDocument(name, id)
	if err != nil {
		return "", err
	}
	existing.Merge(partial)
	return s.AddDocument(name, existing)
}

// GetDocument returns a copy of the document with the given id.
func (s *Store) GetDocument(name, id string) (document.Document, error) {
	snap, err := s.GetIndex(name)
	if err != nil {
		return nil, err
	}
	if pos := position(snap.Documents, id); pos >= 0 {
		return snap.Documents[pos].Clone(), nil
	}
	return nil, fmt.Errorf("document [%s] not found: %w", id, domain.ErrDocumentMissing)
}

// DeleteDocument removes the matching document and reports whether a
// removal occurred.
func (s *Store) DeleteDocument(name, id string) bool {
	sl, ok := s.lookup(name)
	if !ok {
		return false
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	cur := sl.snap.Load()
	pos := position(cur.Documents, id)
	if pos < 0 {
		return false
	}

	docs := make([]document.Document, 0, len(cur.Documents)-1)
	docs = append(docs, cur.Documents[:pos]...)
	docs = append(docs, cur.Documents[pos+1:]...)
	sl.snap.Store(&Snapshot{Mapping: cur.Mapping, Documents: docs})
	return true
}

func (s *Store) lookup(name string) (*slot, bool) {
	s.mu.RLock()
	sl, ok := s.indices[name]
	s.mu.RUnlock()
	return sl, ok
}

func position(docs []document.Document, id string) int {
	for i, d := range docs {
		if d.ID() == id {
			return i
		}
	}
	return -1
}

func indexNotFound(name string) error {
	return fmt.Errorf("no such index [%s]: %w", name, domain.ErrIndexNotFound)
}
