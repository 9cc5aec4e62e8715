// Package document implements document write and read operations:
// indexing with automatic or caller-supplied ids, partial updates and
// deletion.
package document

import (
	"fmt"

	"github.com/searchlite/searchlite/internal/domain"
	domdoc "github.com/searchlite/searchlite/internal/domain/document"
)

// Service handles document CRUD against one store.
type Service struct {
	store Store
}

// New creates a document service.
func New(store Store) *Service {
	return &Service{store: store}
}

// Index upserts doc into the named index. A string "_id" in the body is
// honored; otherwise a fresh id is minted. Returns the resolved id.
func (s *Service) Index(index string, doc domdoc.Document) (string, error) {
	id, err := s.store.AddDocument(index, doc)
	if err != nil {
		return "", fmt.Errorf("add document: %w", err)
	}
	return id, nil
}

// IndexWithID upserts doc under the given id, overriding any "_id" the
// body carries.
func (s *Service) IndexWithID(index, id string, doc domdoc.Document) (string, error) {
	doc = doc.Clone()
	if doc == nil {
		doc = domdoc.Document{}
	}
	doc[domdoc.IDField] = id
	return s.Index(index, doc)
}

// Get returns the document with the given id.
func (s *Service) Get(index, id string) (domdoc.Document, error) {
	doc, err := s.store.GetDocument(index, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Update applies the partial update carried under the body's "doc" key.
// A body without "doc" is a malformed action request.
func (s *Service) Update(index, id string, body map[string]any) (string, error) {
	raw, ok := body["doc"]
	if !ok {
		return "", fmt.Errorf("Validation Failed: 1: script or doc is missing;: %w", domain.ErrActionValidation)
	}
	partial, _ := raw.(map[string]any)

	savedID, err := s.store.PatchDocument(index, id, domdoc.Document(partial))
	if err != nil {
		return "", fmt.Errorf("patch document: %w", err)
	}
	return savedID, nil
}

// Delete removes the document and reports whether a removal occurred.
func (s *Service) Delete(index, id string) bool {
	return s.store.DeleteDocument(index, id)
}
