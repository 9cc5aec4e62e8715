// Package query defines the boolean predicate tree evaluated against
// documents, and the lenient parsers that build predicates, sort
// options, pagination windows and aggregation definitions from a
// loosely-structured search request body.
package query

import (
	"reflect"
	"strings"

	"github.com/searchlite/searchlite/internal/domain/document"
)

// Query is a predicate over a single document.
type Query interface {
	Matches(doc document.Document) bool
}

// MatchAll accepts every document.
type MatchAll struct{}

// Matches always reports true.
func (MatchAll) Matches(document.Document) bool { return true }

// Term is an exact-equality predicate on one field. A trailing
// ".keyword" suffix on Field is stripped before lookup.
type Term struct {
	Field string
	Value any
}

// Matches reports whether the document holds Field with a value
// structurally equal to Value.
func (t Term) Matches(doc document.Document) bool {
	field := strings.TrimSuffix(t.Field, ".keyword")
	v, ok := doc.Field(field)
	return ok && reflect.DeepEqual(v, t.Value)
}

// Bool combines nested predicates: every Must clause must match, no
// MustNot clause may match, and when Should clauses exist at least one
// must match.
type Bool struct {
	Must    []Query
	Should  []Query
	MustNot []Query
}

// Matches evaluates the boolean combinator.
func (b Bool) Matches(doc document.Document) bool {
	for _, q := range b.Must {
		if !q.Matches(doc) {
			return false
		}
	}
	for _, q := range b.MustNot {
		if q.Matches(doc) {
			return false
		}
	}
	if len(b.Should) == 0 {
		return true
	}
	for _, q := range b.Should {
		if q.Matches(doc) {
			return true
		}
	}
	return false
}

// Order is a sort direction.
type Order string

// Sort directions. Anything other than "desc" parses as ascending.
const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// SortOptions is a single-key sort directive.
type SortOptions struct {
	Field string
	Order Order
}

// TermsAggregation groups documents by the distinct scalar values of
// one field.
type TermsAggregation struct {
	Name  string
	Field string
}
