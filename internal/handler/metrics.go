package handler

import (
	"fmt"
	"net/http"

	"github.com/catsfront/catsfront/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "catsfront_list_refreshes_total{outcome=\"%s\"} %d\n", metrics.ListApplied, snap.ListsApplied)
	writeMetric(w, "catsfront_list_refreshes_total{outcome=\"%s\"} %d\n", metrics.ListStale, snap.ListsStale)
	writeMetric(w, "catsfront_list_refreshes_total{outcome=\"%s\"} %d\n", metrics.ListFailed, snap.ListsFailed)

	for _, m := range snap.Mutations {
		writeMetric(w, "catsfront_mutations_total{op=\"%s\",status=\"%s\"} %d\n", m.Op, m.Status, m.Value)
	}

	for _, req := range snap.APIRequests {
		writeMetric(w, "catsfront_api_request_duration_seconds_count{op=\"%s\"} %d\n", req.Op, req.Count)
		writeMetric(w, "catsfront_api_request_duration_seconds_sum{op=\"%s\"} %.6f\n", req.Op, float64(req.TotalNs)/1e9)
	}

	writeMetric(w, "catsfront_cat_cache_hits_total %d\n", snap.CatCacheHits)
	writeMetric(w, "catsfront_cat_cache_misses_total %d\n", snap.CatCacheMisses)

	writeMetric(w, "catsfront_cats_created_total %d\n", snap.CatsCreated)
	writeMetric(w, "catsfront_cats_updated_total %d\n", snap.CatsUpdated)
	writeMetric(w, "catsfront_cats_deleted_total %d\n", snap.CatsDeleted)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
