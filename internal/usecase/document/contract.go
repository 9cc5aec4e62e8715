package document

import domdoc "github.com/searchlite/searchlite/internal/domain/document"

// Store is the document CRUD surface the service consumes.
type Store interface {
	AddDocument(index string, doc domdoc.Document) (string, error)
	GetDocument(index, id string) (domdoc.Document, error)
	PatchDocument(index, id string, partial domdoc.Document) (string, error)
	DeleteDocument(index, id string) bool
}
