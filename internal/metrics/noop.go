package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncListRefresh is a no-op.
func (n *NoopRecorder) IncListRefresh(outcome string) {}

// IncMutation is a no-op.
func (n *NoopRecorder) IncMutation(op, status string) {}

// ObserveAPIRequest is a no-op.
func (n *NoopRecorder) ObserveAPIRequest(op string, duration time.Duration) {}

// IncCatCacheHit is a no-op.
func (n *NoopRecorder) IncCatCacheHit() {}

// IncCatCacheMiss is a no-op.
func (n *NoopRecorder) IncCatCacheMiss() {}

// IncCatCreated is a no-op.
func (n *NoopRecorder) IncCatCreated() {}

// IncCatUpdated is a no-op.
func (n *NoopRecorder) IncCatUpdated() {}

// IncCatDeleted is a no-op.
func (n *NoopRecorder) IncCatDeleted() {}
