package query

import (
	"encoding/json"
	"testing"
)

func body(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad test body: %v", err)
	}
	return m
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Query
	}{
		{"empty body", `{}`, MatchAll{}},
		{"explicit match_all", `{"query": {"match_all": {}}}`, MatchAll{}},
		{"term", `{"query": {"term": {"lang": "rust"}}}`, Term{Field: "lang", Value: "rust"}},
		{"unsupported clause degrades", `{"query": {"regexp": {"x": ".*"}}}`, MatchAll{}},
		{"non-object query degrades", `{"query": "oops"}`, MatchAll{}},
		{"empty term object degrades", `{"query": {"term": {}}}`, MatchAll{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(body(t, tt.raw))
			if gotTerm, ok := got.(Term); ok {
				wantTerm, ok := tt.want.(Term)
				if !ok || gotTerm != wantTerm {
					t.Errorf("Parse() = %#v, want %#v", got, tt.want)
				}
				return
			}
			if _, ok := got.(MatchAll); ok {
				if _, want := tt.want.(MatchAll); !want {
					t.Errorf("Parse() = MatchAll, want %#v", tt.want)
				}
				return
			}
			t.Errorf("unexpected query type %T", got)
		})
	}
}

func TestParse_Bool(t *testing.T) {
	q := Parse(body(t, `{"query": {"bool": {
		"must": [{"term": {"lang": "rust"}}, {"term": {"published": true}}],
		"must_not": {"term": {"archived": true}},
		"should": [{"term": {"tier": "core"}}]
	}}}`))

	b, ok := q.(Bool)
	if !ok {
		t.Fatalf("expected Bool, got %T", q)
	}
	if len(b.Must) != 2 {
		t.Errorf("len(Must) = %d, want 2", len(b.Must))
	}
	if len(b.MustNot) != 1 {
		t.Errorf("len(MustNot) = %d, want 1 (singleton clause)", len(b.MustNot))
	}
	if len(b.Should) != 1 {
		t.Errorf("len(Should) = %d, want 1", len(b.Should))
	}
	if term, ok := b.Must[0].(Term); !ok || term.Field != "lang" || term.Value != "rust" {
		t.Errorf("Must[0] = %#v, want term lang=rust", b.Must[0])
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *SortOptions
	}{
		{"absent", `{}`, nil},
		{"bare field string", `{"sort": "price"}`, &SortOptions{Field: "price", Order: Asc}},
		{"object with order", `{"sort": {"price": {"order": "desc"}}}`, &SortOptions{Field: "price", Order: Desc}},
		{"object without order", `{"sort": {"price": {}}}`, &SortOptions{Field: "price", Order: Asc}},
		{"array takes first", `{"sort": [{"price": {"order": "desc"}}, "name"]}`, &SortOptions{Field: "price", Order: Desc}},
		{"empty array", `{"sort": []}`, nil},
		{"unsupported shape", `{"sort": 42}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSort(body(t, tt.raw))
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseSort() = %#v, want nil", got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("ParseSort() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantFrom int
		wantSize int
	}{
		{"defaults", `{}`, 0, 10},
		{"explicit window", `{"from": 5, "size": 20}`, 5, 20},
		{"zero size honored", `{"size": 0}`, 0, 0},
		{"negative falls back", `{"from": -1, "size": -5}`, 0, 10},
		{"fractional falls back", `{"from": 1.5, "size": 2.5}`, 0, 10},
		{"non-numeric falls back", `{"from": "a", "size": true}`, 0, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, size := ParsePagination(body(t, tt.raw), DefaultSize)
			if from != tt.wantFrom || size != tt.wantSize {
				t.Errorf("ParsePagination() = (%d, %d), want (%d, %d)", from, size, tt.wantFrom, tt.wantSize)
			}
		})
	}
}

func TestParseAggregations(t *testing.T) {
	aggs := ParseAggregations(body(t, `{"aggs": {
		"by_lang": {"terms": {"field": "lang.keyword"}},
		"avg_price": {"avg": {"field": "price"}},
		"broken": {"terms": {"field": 42}}
	}}`))

	if len(aggs) != 1 {
		t.Fatalf("len(aggs) = %d, want 1 (only valid terms aggs)", len(aggs))
	}
	if aggs[0].Name != "by_lang" || aggs[0].Field != "lang.keyword" {
		t.Errorf("aggs[0] = %#v", aggs[0])
	}
}

func TestParseAggregations_Alias(t *testing.T) {
	aggs := ParseAggregations(body(t, `{"aggregations": {"by_tag": {"terms": {"field": "tag"}}}}`))
	if len(aggs) != 1 || aggs[0].Name != "by_tag" {
		t.Fatalf("aggregations alias not honored: %#v", aggs)
	}
}

func TestParseAggregations_Absent(t *testing.T) {
	if aggs := ParseAggregations(body(t, `{}`)); aggs != nil {
		t.Errorf("expected nil for absent aggs, got %#v", aggs)
	}
}
