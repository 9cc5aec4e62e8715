package search

import "github.com/searchlite/searchlite/internal/store"

// SnapshotReader is the read-only store surface the service consumes.
type SnapshotReader interface {
	GetIndex(name string) (*store.Snapshot, error)
}
