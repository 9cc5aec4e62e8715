package bulk

import domdoc "github.com/searchlite/searchlite/internal/domain/document"

// Store is the write surface bulk actions are executed against.
type Store interface {
	AddDocument(index string, doc domdoc.Document) (string, error)
	PatchDocument(index, id string, partial domdoc.Document) (string, error)
	DeleteDocument(index, id string) bool
}
