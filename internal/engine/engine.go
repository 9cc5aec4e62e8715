// Package engine applies predicates, comparator-based sorting,
// pagination windows and terms-aggregation bucketing to document
// collections. All functions are pure: inputs are never mutated.
package engine

import (
	"sort"
	"strings"

	"github.com/searchlite/searchlite/internal/domain/document"
	"github.com/searchlite/searchlite/internal/domain/query"
)

// Filter returns the documents matching q, in their original order.
func Filter(docs []document.Document, q query.Query) []document.Document {
	out := make([]document.Document, 0, len(docs))
	for _, doc := range docs {
		if q.Matches(doc) {
			out = append(out, doc)
		}
	}
	return out
}

// Search filters docs by q, stable-sorts by opts when given, and
// applies the skip(from)/take(size) window. A from beyond the result
// length yields an empty slice.
func Search(docs []document.Document, q query.Query, opts *query.SortOptions, from, size int) []document.Document {
	results := Filter(docs, q)

	if opts != nil {
		field := strings.TrimSuffix(opts.Field, ".keyword")
		sort.SliceStable(results, func(i, j int) bool {
			cmp := compareByField(results[i], results[j], field)
			if opts.Order == query.Desc {
				// Descending reverses the ascending comparator, so
				// missing-field documents lead instead of trailing.
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if from >= len(results) {
		return []document.Document{}
	}
	results = results[from:]
	if size < len(results) {
		results = results[:size]
	}
	return results
}

// compareByField orders two documents by the named field ascending.
// A document missing the field sorts after one that has it.
func compareByField(a, b document.Document, field string) int {
	va, oka := a.Field(field)
	vb, okb := b.Field(field)
	switch {
	case oka && okb:
		return compareValues(va, vb)
	case oka:
		return -1
	case okb:
		return 1
	default:
		return 0
	}
}

// compareValues compares two JSON scalars: numerically when both are
// numbers, then as strings, then as booleans (false < true). Mixed or
// non-scalar values compare as equal.
func compareValues(a, b any) int {
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb)
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case !ba && bb:
				return -1
			case ba && !bb:
				return 1
			}
			return 0
		}
	}
	return 0
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
