// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// List refresh outcomes.
const (
	ListApplied = "applied"
	ListStale   = "stale"
	ListFailed  = "failed"
)

// Mutation outcomes.
const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusDeclined = "declined"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Front end sync metrics
	IncListRefresh(outcome string) // outcome: "applied", "stale", "failed"
	IncMutation(op, status string) // op: "create", "update", "delete"
	ObserveAPIRequest(op string, duration time.Duration)

	// Collection API metrics
	IncCatCacheHit()
	IncCatCacheMiss()
	IncCatCreated()
	IncCatUpdated()
	IncCatDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
