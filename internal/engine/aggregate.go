package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/searchlite/searchlite/internal/domain/document"
	"github.com/searchlite/searchlite/internal/domain/query"
)

// AggregationResult is the bucket list produced for one named
// aggregation.
type AggregationResult struct {
	Name    string
	Buckets []Bucket
}

// Bucket counts the documents sharing one distinct field value. Key
// retains the original JSON scalar.
type Bucket struct {
	Key      any `json:"key"`
	DocCount int `json:"doc_count"`
}

// Aggregate buckets an already-filtered document collection by the
// distinct scalar values of each aggregation's field (a ".keyword"
// suffix is stripped). Non-scalar values are skipped, not errors.
// Buckets are ordered by descending count, ties broken by ascending
// string key; non-string keys compare as the empty string in the
// tie-break.
func Aggregate(docs []document.Document, aggs []query.TermsAggregation) []AggregationResult {
	results := make([]AggregationResult, 0, len(aggs))

	for _, agg := range aggs {
		field := strings.TrimSuffix(agg.Field, ".keyword")
		counts := make(map[string]*Bucket)

		for _, doc := range docs {
			value, ok := doc.Field(field)
			if !ok {
				continue
			}
			key, ok := scalarKey(value)
			if !ok {
				continue
			}
			if b, ok := counts[key]; ok {
				b.DocCount++
			} else {
				counts[key] = &Bucket{Key: value, DocCount: 1}
			}
		}

		buckets := make([]Bucket, 0, len(counts))
		for _, b := range counts {
			buckets = append(buckets, *b)
		}
		sort.Slice(buckets, func(i, j int) bool {
			if buckets[i].DocCount != buckets[j].DocCount {
				return buckets[i].DocCount > buckets[j].DocCount
			}
			return stringKey(buckets[i].Key) < stringKey(buckets[j].Key)
		})

		results = append(results, AggregationResult{Name: agg.Name, Buckets: buckets})
	}

	return results
}

// scalarKey renders a scalar value's string form for counting.
// Strings, numbers and booleans bucket; anything else is excluded.
func scalarKey(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return formatNumber(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	}
	return "", false
}

// formatNumber renders integral floats without a decimal point so that
// a decoded JSON 3 and a literal 3 share a bucket.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprintf("%v", f)
}

// stringKey is the tie-break form: only string keys participate,
// numbers and booleans compare as empty.
func stringKey(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return ""
}
