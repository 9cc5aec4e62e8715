package index

import (
	"github.com/searchlite/searchlite/internal/domain/mapping"
	"github.com/searchlite/searchlite/internal/store"
)

// Store is the index-lifecycle surface the service consumes.
type Store interface {
	CreateIndex(name string, m mapping.Mapping)
	GetIndex(name string) (*store.Snapshot, error)
	UpdateMapping(name string, m mapping.Mapping) error
	DeleteIndex(name string) bool
	Refresh(name string) error
}
