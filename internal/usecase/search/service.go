// Package search executes search and count requests: it parses the
// loosely-structured request body and applies the engine to a consistent
// index snapshot.
package search

import (
	"fmt"

	"github.com/searchlite/searchlite/internal/domain/document"
	"github.com/searchlite/searchlite/internal/domain/query"
	"github.com/searchlite/searchlite/internal/engine"
)

// Result is the outcome of one search request. Total counts every
// document in the index, not only the matching ones.
type Result struct {
	Total        int
	Hits         []document.Document
	Aggregations []engine.AggregationResult
}

// Service evaluates search and count requests over index snapshots.
type Service struct {
	store       SnapshotReader
	defaultSize int
}

// New creates a search service.
func New(store SnapshotReader) *Service {
	return &Service{store: store, defaultSize: query.DefaultSize}
}

// WithPagination overrides the default result window size.
func (s *Service) WithPagination(defaultSize int) *Service {
	if defaultSize > 0 {
		s.defaultSize = defaultSize
	}
	return s
}

// Search filters, sorts and paginates the index's documents per the
// request body, and computes any requested terms aggregations over the
// full (unpaginated) filtered set.
func (s *Service) Search(index string, body map[string]any) (Result, error) {
	snap, err := s.store.GetIndex(index)
	if err != nil {
		return Result{}, fmt.Errorf("get index: %w", err)
	}

	q := query.Parse(body)
	sortOpts := query.ParseSort(body)
	from, size := query.ParsePagination(body, s.defaultSize)

	res := Result{
		Total: len(snap.Documents),
		Hits:  engine.Search(snap.Documents, q, sortOpts, from, size),
	}

	if aggs := query.ParseAggregations(body); len(aggs) > 0 {
		filtered := engine.Filter(snap.Documents, q)
		res.Aggregations = engine.Aggregate(filtered, aggs)
	}

	return res, nil
}

// Count returns the number of documents matching the request's query.
func (s *Service) Count(index string, body map[string]any) (int, error) {
	snap, err := s.store.GetIndex(index)
	if err != nil {
		return 0, fmt.Errorf("get index: %w", err)
	}
	return len(engine.Filter(snap.Documents, query.Parse(body))), nil
}
