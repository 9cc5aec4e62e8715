// Package index implements index lifecycle operations: create, schema
// inspection and merge, deletion and refresh.
package index

import (
	"fmt"

	"github.com/searchlite/searchlite/internal/domain/mapping"
)

// Service handles index lifecycle operations.
type Service struct {
	store Store
}

// New creates an index service.
func New(store Store) *Service {
	return &Service{store: store}
}

// Create publishes an empty index under name. A nil mapping falls back
// to the permissive default. An existing index of the same name is
// silently overwritten.
func (s *Service) Create(name string, m *mapping.Mapping) {
	if m == nil {
		def := mapping.Default()
		m = &def
	}
	s.store.CreateIndex(name, *m)
}

// Exists reports whether the named index is present.
func (s *Service) Exists(name string) bool {
	_, err := s.store.GetIndex(name)
	return err == nil
}

// Mapping returns the index's current schema.
func (s *Service) Mapping(name string) (mapping.Mapping, error) {
	snap, err := s.store.GetIndex(name)
	if err != nil {
		return mapping.Mapping{}, fmt.Errorf("get index: %w", err)
	}
	return snap.Mapping, nil
}

// UpdateMapping merges m into the index's schema: properties union with
// right bias, dynamic replaced.
func (s *Service) UpdateMapping(name string, m mapping.Mapping) error {
	if err := s.store.UpdateMapping(name, m); err != nil {
		return fmt.Errorf("update mapping: %w", err)
	}
	return nil
}

// Delete removes the index and reports whether it existed.
func (s *Service) Delete(name string) bool {
	return s.store.DeleteIndex(name)
}

// Refresh checks index existence. Writes are immediately visible, so
// there is nothing to flush.
func (s *Service) Refresh(name string) error {
	if err := s.store.Refresh(name); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}
