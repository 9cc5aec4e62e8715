package chi

import (
	"github.com/searchlite/searchlite/internal/domain/document"
	"github.com/searchlite/searchlite/internal/engine"
)

// Wire shapes follow the Elasticsearch 8.x JSON envelopes so existing
// clients keep working against this server.

// InfoResponse answers GET /.
type InfoResponse struct {
	Name        string      `json:"name"`
	ClusterName string      `json:"cluster_name"`
	Version     VersionInfo `json:"version"`
	Tagline     string      `json:"tagline"`
}

// VersionInfo is the advertised engine version block.
type VersionInfo struct {
	Number      string `json:"number"`
	BuildFlavor string `json:"build_flavor"`
}

// ShardsInfo is the constant single-shard accounting block.
type ShardsInfo struct {
	Total      int  `json:"total"`
	Successful int  `json:"successful"`
	Failed     int  `json:"failed"`
	Skipped    *int `json:"skipped"`
}

func defaultShards() ShardsInfo {
	skipped := 0
	return ShardsInfo{Total: 1, Successful: 1, Failed: 0, Skipped: &skipped}
}

// IndexResponse answers document write operations.
type IndexResponse struct {
	Index   string     `json:"_index"`
	ID      string     `json:"_id"`
	Result  string     `json:"result"`
	Version int        `json:"_version"`
	Shards  ShardsInfo `json:"_shards"`
}

// SearchResponse answers POST|GET /{index}/_search.
type SearchResponse struct {
	Took         int64                         `json:"took"`
	TimedOut     bool                          `json:"timed_out"`
	Shards       ShardsInfo                    `json:"_shards"`
	Hits         HitsMetadata                  `json:"hits"`
	Aggregations map[string]AggregationBuckets `json:"aggregations,omitempty"`
}

// HitsMetadata carries the hit list and its totals.
type HitsMetadata struct {
	Total    TotalHits   `json:"total"`
	MaxScore *float64    `json:"max_score"`
	Hits     []SearchHit `json:"hits"`
}

// TotalHits reports the index-wide document count.
type TotalHits struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

// SearchHit wraps one matching document.
type SearchHit struct {
	Index  string            `json:"_index"`
	ID     string            `json:"_id"`
	Score  float64           `json:"_score"`
	Source document.Document `json:"_source"`
}

// AggregationBuckets carries one aggregation's buckets.
type AggregationBuckets struct {
	Buckets []engine.Bucket `json:"buckets"`
}

// CountResponse answers POST|GET /{index}/_count.
type CountResponse struct {
	Count  int        `json:"count"`
	Shards ShardsInfo `json:"_shards"`
}

// RefreshResponse answers POST /{index}/_refresh.
type RefreshResponse struct {
	Shards ShardsInfo `json:"_shards"`
}

// ClusterHealthResponse answers GET /_cluster/health with a static
// green single-node report.
type ClusterHealthResponse struct {
	ClusterName                 string  `json:"cluster_name"`
	Status                      string  `json:"status"`
	TimedOut                    bool    `json:"timed_out"`
	NumberOfNodes               int     `json:"number_of_nodes"`
	NumberOfDataNodes           int     `json:"number_of_data_nodes"`
	ActivePrimaryShards         int     `json:"active_primary_shards"`
	ActiveShards                int     `json:"active_shards"`
	RelocatingShards            int     `json:"relocating_shards"`
	InitializingShards          int     `json:"initializing_shards"`
	UnassignedShards            int     `json:"unassigned_shards"`
	DelayedUnassignedShards     int     `json:"delayed_unassigned_shards"`
	NumberOfPendingTasks        int     `json:"number_of_pending_tasks"`
	NumberOfInFlightFetch       int     `json:"number_of_in_flight_fetch"`
	TaskMaxWaitingInQueueMillis int     `json:"task_max_waiting_in_queue_millis"`
	ActiveShardsPercent         float64 `json:"active_shards_percent_as_number"`
}

// BulkResponse answers POST /_bulk and POST /{index}/_bulk.
type BulkResponse struct {
	Took   int                   `json:"took"`
	Errors bool                  `json:"errors"`
	Items  []map[string]BulkItem `json:"items"`
}

// BulkItem is one action's outcome, keyed by its action name.
type BulkItem struct {
	Index  string `json:"_index"`
	ID     string `json:"_id,omitempty"`
	Status int    `json:"status"`
	Result string `json:"result"`
}

// ErrorResponse is the Elasticsearch error envelope.
type ErrorResponse struct {
	Error  ErrorDetails `json:"error"`
	Status int          `json:"status"`
}

// ErrorDetails carries the error type, reason and root cause chain.
type ErrorDetails struct {
	RootCause []ErrorCause `json:"root_cause"`
	Type      string       `json:"type"`
	Reason    string       `json:"reason"`
	IndexUUID *string      `json:"index_uuid"`
	Index     *string      `json:"index"`
}

// ErrorCause is one entry of the root cause chain.
type ErrorCause struct {
	Type      string  `json:"type"`
	Reason    string  `json:"reason"`
	IndexUUID *string `json:"index_uuid"`
	Index     *string `json:"index"`
}

func newErrorResponse(status int, errorType, reason string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetails{
			RootCause: []ErrorCause{{Type: errorType, Reason: reason}},
			Type:      errorType,
			Reason:    reason,
		},
		Status: status,
	}
}
