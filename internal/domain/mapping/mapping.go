// Package mapping describes an index schema and validates documents
// against it.
package mapping

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/searchlite/searchlite/internal/domain"
	"github.com/searchlite/searchlite/internal/domain/document"
)

// FieldType is the declared type of a mapped property.
type FieldType string

// Supported field types. Text and Keyword both require strings; the
// distinction only matters for the ".keyword" sub-field convention.
const (
	Text    FieldType = "text"
	Keyword FieldType = "keyword"
	Integer FieldType = "integer"
	Long    FieldType = "long"
	Double  FieldType = "double"
	Boolean FieldType = "boolean"
	Date    FieldType = "date"
)

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	switch t {
	case Text, Keyword, Integer, Long, Double, Boolean, Date:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown field types at parse time.
func (t *FieldType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("field type must be a string: %w", err)
	}
	ft := FieldType(s)
	if !ft.Valid() {
		return fmt.Errorf("unknown field type %q", s)
	}
	*t = ft
	return nil
}

// Property declares the expected type of one document field.
type Property struct {
	Type FieldType `json:"type"`
}

// Mapping is an index schema. Dynamic controls whether fields outside
// Properties are tolerated.
type Mapping struct {
	Dynamic    bool                `json:"dynamic"`
	Properties map[string]Property `json:"properties"`
}

// Default returns an empty mapping that accepts any document.
func Default() Mapping {
	return Mapping{Dynamic: true, Properties: map[string]Property{}}
}

// UnmarshalJSON applies the dynamic=true default when the key is absent.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	var raw struct {
		Dynamic    *bool               `json:"dynamic"`
		Properties map[string]Property `json:"properties"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Dynamic = raw.Dynamic == nil || *raw.Dynamic
	m.Properties = raw.Properties
	if m.Properties == nil {
		m.Properties = map[string]Property{}
	}
	return nil
}

// Clone returns a deep copy of the mapping.
func (m Mapping) Clone() Mapping {
	return Mapping{Dynamic: m.Dynamic, Properties: maps.Clone(m.Properties)}
}

// Update merges other into m: every property in other overwrites or
// adds into m.Properties, and Dynamic is replaced unconditionally.
func (m *Mapping) Update(other Mapping) {
	if m.Properties == nil {
		m.Properties = map[string]Property{}
	}
	for name, prop := range other.Properties {
		m.Properties[name] = prop
	}
	m.Dynamic = other.Dynamic
}

// Validate checks a document against the mapping and returns the first
// violation found. Declared properties must be present and well-typed;
// with Dynamic=false any undeclared field other than "_id" is rejected.
// Property iteration order is unspecified, so which of several
// simultaneous violations is reported is not deterministic.
func (m Mapping) Validate(doc document.Document) error {
	for name, prop := range m.Properties {
		value, ok := doc[name]
		if !ok {
			return &ValidationError{Kind: MissingField, Field: name}
		}
		if !typeMatches(value, prop.Type) {
			return &ValidationError{Kind: InvalidType, Field: name, Expected: prop.Type}
		}
	}

	if !m.Dynamic {
		for key := range doc {
			if key == document.IDField {
				continue
			}
			if _, ok := m.Properties[key]; !ok {
				return &ValidationError{Kind: UnknownField, Field: key}
			}
		}
	}

	return nil
}

func typeMatches(value any, expected FieldType) bool {
	switch expected {
	case Text, Keyword, Date:
		_, ok := value.(string)
		return ok
	case Integer, Long:
		f, ok := asFloat(value)
		return ok && f == float64(int64(f))
	case Double:
		_, ok := asFloat(value)
		return ok
	case Boolean:
		_, ok := value.(bool)
		return ok
	}
	return false
}

// asFloat normalizes JSON numbers. Decoded JSON always yields float64,
// but documents built in code may carry native ints.
func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// ViolationKind classifies a mapping violation.
type ViolationKind string

// Violation kinds reported by Validate.
const (
	MissingField ViolationKind = "missing_field"
	InvalidType  ViolationKind = "invalid_type"
	UnknownField ViolationKind = "unknown_field"
)

// ValidationError wraps domain.ErrValidation with the violated field.
type ValidationError struct {
	Kind     ViolationKind
	Field    string
	Expected FieldType // set for InvalidType only
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case MissingField:
		return fmt.Sprintf("%s: missing required field [%s]", domain.ErrValidation, e.Field)
	case InvalidType:
		return fmt.Sprintf("%s: field [%s] is not of type [%s]", domain.ErrValidation, e.Field, e.Expected)
	case UnknownField:
		return fmt.Sprintf("%s: unknown field [%s] not permitted by strict mapping", domain.ErrValidation, e.Field)
	}
	return domain.ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error { return domain.ErrValidation }
