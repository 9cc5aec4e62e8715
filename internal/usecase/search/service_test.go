package search

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/searchlite/searchlite/internal/domain"
	"github.com/searchlite/searchlite/internal/domain/document"
	"github.com/searchlite/searchlite/internal/domain/mapping"
	"github.com/searchlite/searchlite/internal/store"
)

// --- Mocks ---

type mockReader struct {
	snap *store.Snapshot
	err  error
}

func (m *mockReader) GetIndex(_ string) (*store.Snapshot, error) {
	return m.snap, m.err
}

func readerWith(docs ...document.Document) *mockReader {
	return &mockReader{snap: &store.Snapshot{Mapping: mapping.Default(), Documents: docs}}
}

func body(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad test body: %v", err)
	}
	return m
}

// --- Tests ---

func TestSearch_MatchAllByDefault(t *testing.T) {
	svc := New(readerWith(
		document.Document{"_id": "1"},
		document.Document{"_id": "2"},
	))

	res, err := svc.Search("books", body(t, `{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Hits) != 2 {
		t.Errorf("len(hits) = %d, want 2", len(res.Hits))
	}
	if res.Total != 2 {
		t.Errorf("total = %d, want 2", res.Total)
	}
}

func TestSearch_TotalCountsWholeIndex(t *testing.T) {
	svc := New(readerWith(
		document.Document{"_id": "1", "lang": "rust"},
		document.Document{"_id": "2", "lang": "go"},
		document.Document{"_id": "3", "lang": "rust"},
	))

	res, err := svc.Search("books", body(t, `{"query": {"term": {"lang": "go"}}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Hits) != 1 {
		t.Errorf("len(hits) = %d, want 1", len(res.Hits))
	}
	// Total reflects the index size, not the filtered count.
	if res.Total != 3 {
		t.Errorf("total = %d, want 3", res.Total)
	}
}

func TestSearch_SortAndPaginate(t *testing.T) {
	svc := New(readerWith(
		document.Document{"_id": "a", "price": 3.0},
		document.Document{"_id": "b", "price": 1.0},
		document.Document{"_id": "c", "price": 2.0},
	))

	res, err := svc.Search("books", body(t, `{"sort": {"price": {"order": "asc"}}, "from": 1, "size": 2}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Hits) != 2 || res.Hits[0].ID() != "c" || res.Hits[1].ID() != "a" {
		ids := make([]string, len(res.Hits))
		for i, h := range res.Hits {
			ids[i] = h.ID()
		}
		t.Errorf("hits = %v, want [c a]", ids)
	}
}

func TestSearch_DefaultSizeApplies(t *testing.T) {
	docs := make([]document.Document, 15)
	for i := range docs {
		docs[i] = document.Document{"_id": string(rune('a' + i))}
	}
	svc := New(readerWith(docs...))

	res, err := svc.Search("books", body(t, `{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Hits) != 10 {
		t.Errorf("len(hits) = %d, want default 10", len(res.Hits))
	}
}

func TestSearch_WithPaginationOverride(t *testing.T) {
	docs := make([]document.Document, 15)
	for i := range docs {
		docs[i] = document.Document{"_id": string(rune('a' + i))}
	}
	svc := New(readerWith(docs...)).WithPagination(5)

	res, err := svc.Search("books", body(t, `{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Hits) != 5 {
		t.Errorf("len(hits) = %d, want 5", len(res.Hits))
	}
}

func TestSearch_AggregationsOverFullFilteredSet(t *testing.T) {
	svc := New(readerWith(
		document.Document{"_id": "1", "lang": "rust", "tier": "core"},
		document.Document{"_id": "2", "lang": "rust", "tier": "extra"},
		document.Document{"_id": "3", "lang": "go", "tier": "core"},
	))

	res, err := svc.Search("books", body(t, `{
		"query": {"term": {"lang": "rust"}},
		"size": 1,
		"aggs": {"by_tier": {"terms": {"field": "tier"}}}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Hits) != 1 {
		t.Errorf("len(hits) = %d, want 1 (size applied)", len(res.Hits))
	}
	if len(res.Aggregations) != 1 {
		t.Fatalf("len(aggregations) = %d, want 1", len(res.Aggregations))
	}
	// Both rust docs bucket, despite size=1 truncating the hits.
	total := 0
	for _, b := range res.Aggregations[0].Buckets {
		total += b.DocCount
	}
	if total != 2 {
		t.Errorf("aggregation covers %d docs, want 2", total)
	}
}

func TestSearch_IndexNotFound(t *testing.T) {
	svc := New(&mockReader{err: domain.ErrIndexNotFound})

	_, err := svc.Search("nope", body(t, `{}`))
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestCount(t *testing.T) {
	svc := New(readerWith(
		document.Document{"_id": "1", "lang": "rust"},
		document.Document{"_id": "2", "lang": "go"},
		document.Document{"_id": "3", "lang": "rust"},
	))

	count, err := svc.Count("books", body(t, `{"query": {"term": {"lang": "rust"}}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestCount_EmptyBodyCountsAll(t *testing.T) {
	svc := New(readerWith(
		document.Document{"_id": "1"},
		document.Document{"_id": "2"},
	))

	count, err := svc.Count("books", body(t, `{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}
