// Package chi exposes the Elasticsearch-compatible REST surface over a
// chi router. It is a thin translation layer: request bodies become
// store/engine calls, domain errors become the ES error envelope.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/searchlite/searchlite/internal/domain"
	domdoc "github.com/searchlite/searchlite/internal/domain/document"
	"github.com/searchlite/searchlite/internal/domain/mapping"
	bulkuc "github.com/searchlite/searchlite/internal/usecase/bulk"
	documentuc "github.com/searchlite/searchlite/internal/usecase/document"
	indexuc "github.com/searchlite/searchlite/internal/usecase/index"
	searchuc "github.com/searchlite/searchlite/internal/usecase/search"
	"github.com/searchlite/searchlite/internal/version"
)

// ClusterInfo identifies the node in / and /_cluster/health responses.
type ClusterInfo struct {
	NodeName    string
	ClusterName string
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the use case services behind the REST routes.
type Server struct {
	indices       *indexuc.Service
	documents     *documentuc.Service
	search        *searchuc.Service
	bulk          *bulkuc.Service
	cluster       ClusterInfo
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	indices *indexuc.Service,
	documents *documentuc.Service,
	search *searchuc.Service,
	bulk *bulkuc.Service,
	cluster ClusterInfo,
	logger *zap.Logger,
) *Server {
	s := &Server{
		indices:   indices,
		documents: documents,
		search:    search,
		bulk:      bulk,
		cluster:   cluster,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, "index_not_found_exception"),
		sentinelHandler(domain.ErrDocumentMissing, http.StatusNotFound, "document_missing_exception"),
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, "mapper_parsing_exception"),
		sentinelHandler(domain.ErrActionValidation, http.StatusBadRequest, "action_request_validation_exception"),
	}
	return s
}

// Routes mounts every API route on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Info)
	r.Get("/_cluster/health", s.ClusterHealth)
	r.Post("/_bulk", s.Bulk)

	r.Route("/{index}", func(r chi.Router) {
		r.Put("/", s.CreateIndex)
		r.Head("/", s.CheckIndex)
		r.Delete("/", s.DeleteIndex)

		r.Post("/_bulk", s.Bulk)
		r.Post("/_refresh", s.Refresh)
		r.Get("/_mapping", s.GetMapping)
		r.Put("/_mapping", s.PutMapping)
		r.Get("/_mappings", s.GetMapping)
		r.Get("/_settings", s.GetSettings)

		r.Post("/_doc", s.IndexDocument)
		r.Get("/_doc/{id}", s.GetDocument)
		r.Put("/_doc/{id}", s.IndexDocumentWithID)
		r.Post("/_doc/{id}", s.IndexDocumentWithID)
		r.Delete("/_doc/{id}", s.DeleteDocument)
		r.Post("/_update/{id}", s.UpdateDocument)

		r.Post("/_search", s.Search)
		r.Get("/_search", s.Search)
		r.Post("/_count", s.Count)
		r.Get("/_count", s.Count)
	})
}

// Info handles GET /.
func (s *Server) Info(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, InfoResponse{
		Name:        s.cluster.NodeName,
		ClusterName: s.cluster.ClusterName,
		Version: VersionInfo{
			Number:      version.Version,
			BuildFlavor: "default",
		},
		Tagline: "You Know, for Search",
	})
}

// ClusterHealth handles GET /_cluster/health.
func (s *Server) ClusterHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ClusterHealthResponse{
		ClusterName:         s.cluster.ClusterName,
		Status:              "green",
		NumberOfNodes:       1,
		NumberOfDataNodes:   1,
		ActivePrimaryShards: 1,
		ActiveShards:        1,
		ActiveShardsPercent: 100.0,
	})
}

// CreateIndex handles PUT /{index}. An empty body creates a permissive
// default mapping; an existing index is silently replaced.
func (s *Server) CreateIndex(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "parse_exception", "unreadable request body")
		return
	}

	var m *mapping.Mapping
	if len(body) > 0 {
		var parsed mapping.Mapping
		if err := json.Unmarshal(body, &parsed); err != nil {
			writeError(w, http.StatusBadRequest, "mapper_parsing_exception", err.Error())
			return
		}
		m = &parsed
	}

	s.indices.Create(index, m)
	writeJSON(w, http.StatusOK, map[string]any{
		"acknowledged":        true,
		"shards_acknowledged": true,
		"index":               index,
	})
}

// CheckIndex handles HEAD /{index}.
func (s *Server) CheckIndex(w http.ResponseWriter, r *http.Request) {
	if s.indices.Exists(chi.URLParam(r, "index")) {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

// DeleteIndex handles DELETE /{index}.
func (s *Server) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")
	if !s.indices.Delete(index) {
		writeError(w, http.StatusNotFound, "index_not_found_exception",
			fmt.Sprintf("no such index [%s]", index))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true})
}

// Refresh handles POST /{index}/_refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := s.indices.Refresh(chi.URLParam(r, "index")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RefreshResponse{Shards: defaultShards()})
}

// GetMapping handles GET /{index}/_mapping and /_mappings.
func (s *Server) GetMapping(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")
	m, err := s.indices.Mapping(index)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		index: map[string]any{"mappings": m},
	})
}

// PutMapping handles PUT /{index}/_mapping.
func (s *Server) PutMapping(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")

	var m mapping.Mapping
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "mapper_parsing_exception", err.Error())
		return
	}

	if err := s.indices.UpdateMapping(index, m); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true})
}

// GetSettings handles GET /{index}/_settings with static single-shard
// settings.
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")
	if !s.indices.Exists(index) {
		writeError(w, http.StatusNotFound, "index_not_found_exception",
			fmt.Sprintf("no such index [%s]", index))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		index: map[string]any{
			"settings": map[string]any{
				"index": map[string]any{
					"number_of_shards":   "1",
					"number_of_replicas": "0",
					"provided_name":      index,
				},
			},
		},
	})
}

// IndexDocument handles POST /{index}/_doc.
func (s *Server) IndexDocument(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")

	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	id, err := s.documents.Index(index, doc)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, indexResponse(index, id, "created"))
}

// IndexDocumentWithID handles PUT|POST /{index}/_doc/{id}. The path id
// overrides any "_id" in the body.
func (s *Server) IndexDocumentWithID(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")
	id := chi.URLParam(r, "id")

	doc, ok := decodeDocument(w, r)
	if !ok {
		return
	}

	savedID, err := s.documents.IndexWithID(index, id, doc)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, indexResponse(index, savedID, "updated"))
}

// UpdateDocument handles POST /{index}/_update/{id}.
func (s *Server) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")
	id := chi.URLParam(r, "id")

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "parse_exception", err.Error())
		return
	}

	savedID, err := s.documents.Update(index, id, body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, indexResponse(index, savedID, "updated"))
}

// GetDocument handles GET /{index}/_doc/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")
	id := chi.URLParam(r, "id")

	doc, err := s.documents.Get(index, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"_index":  index,
		"_id":     id,
		"_source": doc,
	})
}

// DeleteDocument handles DELETE /{index}/_doc/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")
	id := chi.URLParam(r, "id")

	if !s.documents.Delete(index, id) {
		writeError(w, http.StatusNotFound, "document_missing_exception", "document not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Search handles POST|GET /{index}/_search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	index := chi.URLParam(r, "index")

	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	res, err := s.search.Search(index, body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	hits := make([]SearchHit, len(res.Hits))
	for i, doc := range res.Hits {
		id := doc.ID()
		if id == "" {
			id = "unknown"
		}
		hits[i] = SearchHit{Index: index, ID: id, Score: 1.0, Source: doc}
	}

	var maxScore *float64
	if len(hits) > 0 {
		score := 1.0
		maxScore = &score
	}

	var aggregations map[string]AggregationBuckets
	if len(res.Aggregations) > 0 {
		aggregations = make(map[string]AggregationBuckets, len(res.Aggregations))
		for _, agg := range res.Aggregations {
			aggregations[agg.Name] = AggregationBuckets{Buckets: agg.Buckets}
		}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Took:   time.Since(start).Milliseconds(),
		Shards: defaultShards(),
		Hits: HitsMetadata{
			Total:    TotalHits{Value: res.Total, Relation: "eq"},
			MaxScore: maxScore,
			Hits:     hits,
		},
		Aggregations: aggregations,
	})
}

// Count handles POST|GET /{index}/_count.
func (s *Server) Count(w http.ResponseWriter, r *http.Request) {
	index := chi.URLParam(r, "index")

	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	count, err := s.search.Count(index, body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CountResponse{Count: count, Shards: defaultShards()})
}

// Bulk handles POST /_bulk and POST /{index}/_bulk.
func (s *Server) Bulk(w http.ResponseWriter, r *http.Request) {
	defaultIndex := chi.URLParam(r, "index")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "parse_exception", "unreadable request body")
		return
	}

	results := s.bulk.Execute(defaultIndex, string(body))

	items := make([]map[string]BulkItem, len(results))
	for i, res := range results {
		items[i] = map[string]BulkItem{
			res.Action: {Index: res.Index, ID: res.ID, Status: res.Status, Result: res.Result},
		}
	}
	writeJSON(w, http.StatusOK, BulkResponse{Took: 1, Errors: false, Items: items})
}

func indexResponse(index, id, result string) IndexResponse {
	return IndexResponse{
		Index:   index,
		ID:      id,
		Result:  result,
		Version: 1,
		Shards:  defaultShards(),
	}
}

// decodeDocument reads a request body as a document. Reports false
// after writing the error response.
func decodeDocument(w http.ResponseWriter, r *http.Request) (domdoc.Document, bool) {
	var doc domdoc.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "parse_exception", err.Error())
		return nil, false
	}
	return doc, true
}

// decodeBody reads an optional JSON object body; an empty body yields
// an empty map (GET _search and _count carry no body).
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "parse_exception", "unreadable request body")
		return nil, false
	}
	if len(raw) == 0 {
		return map[string]any{}, true
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		writeError(w, http.StatusBadRequest, "parse_exception", err.Error())
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errorType, reason string) {
	writeJSON(w, status, newErrorResponse(status, errorType, reason))
}

// sentinelHandler returns an errorHandler that matches a single
// sentinel error and writes the ES error envelope for it.
func sentinelHandler(sentinel error, status int, errorType string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, errorType, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_server_error", "internal error")
}
