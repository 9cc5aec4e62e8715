// Package bulk executes newline-delimited JSON action streams: an
// action line (index, create, update or delete) optionally followed by
// its payload line. Malformed lines are skipped, not errors; each
// executed action yields its own per-item status.
package bulk

import (
	"encoding/json"
	"net/http"
	"strings"

	domdoc "github.com/searchlite/searchlite/internal/domain/document"
)

// FallbackIndex is reported for actions that name no index when the
// request URL does not carry one either.
const FallbackIndex = "unknown"

// ItemResult is the outcome of one bulk action.
type ItemResult struct {
	Action string
	Index  string
	ID     string
	Status int
	Result string
}

// Service executes bulk action streams against one store.
type Service struct {
	store Store
}

// New creates a bulk service.
func New(store Store) *Service {
	return &Service{store: store}
}

// Execute runs every recognized action in body. defaultIndex applies to
// actions whose metadata names no index; pass "" for the index-less
// endpoint form.
func (s *Service) Execute(defaultIndex string, body string) []ItemResult {
	if defaultIndex == "" {
		defaultIndex = FallbackIndex
	}

	var results []ItemResult
	lines := strings.Split(body, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}

		var action map[string]any
		if err := json.Unmarshal([]byte(line), &action); err != nil {
			continue
		}

		kind, meta := actionKind(action)
		index := metaString(meta, "_index", defaultIndex)
		id := metaString(meta, "_id", "")

		switch kind {
		case "index", "create":
			i++
			doc, ok := payload(lines, i)
			if !ok {
				continue
			}
			results = append(results, s.index(index, id, doc))
		case "update":
			i++
			body, ok := payload(lines, i)
			if !ok {
				continue
			}
			results = append(results, s.update(index, id, body))
		case "delete":
			results = append(results, s.delete(index, id))
		}
	}
	return results
}

func (s *Service) index(index, id string, doc map[string]any) ItemResult {
	d := domdoc.Document(doc)
	if id != "" {
		d = d.Clone()
		d[domdoc.IDField] = id
	}

	savedID, err := s.store.AddDocument(index, d)
	if err != nil {
		return ItemResult{Action: "index", Index: index, ID: id, Status: http.StatusBadRequest, Result: "error"}
	}
	return ItemResult{Action: "index", Index: index, ID: savedID, Status: http.StatusCreated, Result: "created"}
}

func (s *Service) update(index, id string, body map[string]any) ItemResult {
	// The partial update lives under "doc"; a bare payload is applied
	// as-is.
	partial := body
	if d, ok := body["doc"].(map[string]any); ok {
		partial = d
	}

	if _, err := s.store.PatchDocument(index, id, domdoc.Document(partial)); err != nil {
		return ItemResult{Action: "update", Index: index, ID: id, Status: http.StatusNotFound, Result: "error"}
	}
	return ItemResult{Action: "update", Index: index, ID: id, Status: http.StatusOK, Result: "updated"}
}

func (s *Service) delete(index, id string) ItemResult {
	if s.store.DeleteDocument(index, id) {
		return ItemResult{Action: "delete", Index: index, ID: id, Status: http.StatusOK, Result: "deleted"}
	}
	return ItemResult{Action: "delete", Index: index, ID: id, Status: http.StatusNotFound, Result: "not_found"}
}

// actionKind picks the recognized action key and its metadata object.
func actionKind(action map[string]any) (string, map[string]any) {
	for _, kind := range []string{"index", "create", "update", "delete"} {
		if raw, ok := action[kind]; ok {
			meta, _ := raw.(map[string]any)
			return kind, meta
		}
	}
	return "", nil
}

func payload(lines []string, i int) (map[string]any, bool) {
	if i >= len(lines) {
		return nil, false
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(lines[i])), &doc); err != nil {
		return nil, false
	}
	return doc, true
}

func metaString(meta map[string]any, key, fallback string) string {
	if s, ok := meta[key].(string); ok && s != "" {
		return s
	}
	return fallback
}
