// Package document models a stored document: a free-form JSON object
// identified by its string "_id" field.
package document

import "maps"

// IDField is the reserved identifier field injected by the store.
const IDField = "_id"

// Document is a decoded JSON object. Values follow encoding/json
// conventions: string, float64, bool, nil, []any, map[string]any.
type Document map[string]any

// ID returns the document identifier, or "" if absent or not a string.
func (d Document) ID() string {
	if s, ok := d[IDField].(string); ok {
		return s
	}
	return ""
}

// Field returns the value at name and whether it is present.
func (d Document) Field(name string) (any, bool) {
	v, ok := d[name]
	return v, ok
}

// Clone returns a copy of the document. Top-level keys are copied;
// nested values stay shared and must be treated as read-only.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return Document(maps.Clone(map[string]any(d)))
}

// Merge overwrites or adds every top-level key of partial into d.
// Keys absent from partial are untouched.
func (d Document) Merge(partial Document) {
	for k, v := range partial {
		d[k] = v
	}
}
