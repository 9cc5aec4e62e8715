package query

import "math"

// DefaultSize is the pagination window applied when "size" is absent.
const DefaultSize = 10

// Parse builds a predicate from a search request body. Absence of a
// recognized "query" wrapper yields MatchAll; unsupported shapes inside
// the tree degrade to MatchAll rather than erroring.
func Parse(body map[string]any) Query {
	if q, ok := body["query"]; ok {
		return parseClause(q)
	}
	return MatchAll{}
}

func parseClause(v any) Query {
	obj, ok := v.(map[string]any)
	if !ok {
		return MatchAll{}
	}
	if b, ok := obj["bool"]; ok {
		return parseBool(b)
	}
	if t, ok := obj["term"]; ok {
		if fields, ok := t.(map[string]any); ok {
			for field, value := range fields {
				return Term{Field: field, Value: value}
			}
		}
	}
	return MatchAll{}
}

func parseBool(v any) Query {
	obj, ok := v.(map[string]any)
	if !ok {
		return Bool{}
	}
	var b Bool
	if m, ok := obj["must"]; ok {
		b.Must = parseClauses(m)
	}
	if s, ok := obj["should"]; ok {
		b.Should = parseClauses(s)
	}
	if mn, ok := obj["must_not"]; ok {
		b.MustNot = parseClauses(mn)
	}
	return b
}

// parseClauses accepts a single clause object or an array of them.
func parseClauses(v any) []Query {
	if arr, ok := v.([]any); ok {
		out := make([]Query, 0, len(arr))
		for _, item := range arr {
			out = append(out, parseClause(item))
		}
		return out
	}
	return []Query{parseClause(v)}
}

// ParseSort extracts a single-key sort directive, or nil when absent.
// A bare field name sorts ascending; an object {field: {order: ...}}
// carries its direction. Arrays use only their first element: multi-key
// sort is unsupported.
func ParseSort(body map[string]any) *SortOptions {
	v, ok := body["sort"]
	if !ok {
		return nil
	}
	if arr, ok := v.([]any); ok {
		if len(arr) == 0 {
			return nil
		}
		return parseSingleSort(arr[0])
	}
	return parseSingleSort(v)
}

func parseSingleSort(v any) *SortOptions {
	if field, ok := v.(string); ok {
		return &SortOptions{Field: field, Order: Asc}
	}
	if obj, ok := v.(map[string]any); ok {
		for field, spec := range obj {
			order := Asc
			if s, ok := spec.(map[string]any); ok {
				if o, _ := s["order"].(string); o == string(Desc) {
					order = Desc
				}
			}
			return &SortOptions{Field: field, Order: order}
		}
	}
	return nil
}

// ParsePagination reads the from/size window. Missing, negative or
// non-integral values fall back to the defaults (0 and defaultSize);
// out-of-range values are not rejected here, only clamped by the
// engine's skip/take behavior.
func ParsePagination(body map[string]any, defaultSize int) (from, size int) {
	from = nonNegativeInt(body["from"], 0)
	size = nonNegativeInt(body["size"], defaultSize)
	return from, size
}

func nonNegativeInt(v any, fallback int) int {
	f, ok := v.(float64)
	if !ok || f < 0 || f != math.Trunc(f) {
		return fallback
	}
	return int(f)
}

// ParseAggregations extracts terms aggregations from the "aggs" key
// (or its "aggregations" alias). Aggregation kinds other than "terms"
// are ignored.
func ParseAggregations(body map[string]any) []TermsAggregation {
	v, ok := body["aggs"]
	if !ok {
		v, ok = body["aggregations"]
	}
	if !ok {
		return nil
	}
	defs, ok := v.(map[string]any)
	if !ok {
		return nil
	}

	var aggs []TermsAggregation
	for name, def := range defs {
		obj, ok := def.(map[string]any)
		if !ok {
			continue
		}
		terms, ok := obj["terms"].(map[string]any)
		if !ok {
			continue
		}
		field, ok := terms["field"].(string)
		if !ok {
			continue
		}
		aggs = append(aggs, TermsAggregation{Name: name, Field: field})
	}
	return aggs
}
