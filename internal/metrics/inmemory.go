package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// LabeledCount is a counter value with its label pair.
type LabeledCount struct {
	Op     string
	Status string
	Value  uint64
}

// DurationSummary is a count/sum pair for one operation.
type DurationSummary struct {
	Op      string
	Count   uint64
	TotalNs int64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	ListsApplied uint64
	ListsStale   uint64
	ListsFailed  uint64
	Mutations    []LabeledCount
	APIRequests  []DurationSummary

	CatCacheHits   uint64
	CatCacheMisses uint64
	CatsCreated    uint64
	CatsUpdated    uint64
	CatsDeleted    uint64
}

// InMemoryRecorder stores metrics in memory for tests and the /metrics endpoint.
type InMemoryRecorder struct {
	listsApplied   uint64
	listsStale     uint64
	listsFailed    uint64
	catCacheHits   uint64
	catCacheMisses uint64
	catsCreated    uint64
	catsUpdated    uint64
	catsDeleted    uint64

	mu        sync.Mutex
	mutations map[[2]string]uint64
	requests  map[string]*DurationSummary
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		mutations: make(map[[2]string]uint64),
		requests:  make(map[string]*DurationSummary),
	}
}

// Snapshot returns a copy of the counters. Labeled series are sorted.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	snap := Snapshot{
		ListsApplied:   atomic.LoadUint64(&m.listsApplied),
		ListsStale:     atomic.LoadUint64(&m.listsStale),
		ListsFailed:    atomic.LoadUint64(&m.listsFailed),
		CatCacheHits:   atomic.LoadUint64(&m.catCacheHits),
		CatCacheMisses: atomic.LoadUint64(&m.catCacheMisses),
		CatsCreated:    atomic.LoadUint64(&m.catsCreated),
		CatsUpdated:    atomic.LoadUint64(&m.catsUpdated),
		CatsDeleted:    atomic.LoadUint64(&m.catsDeleted),
	}

	m.mu.Lock()
	for k, v := range m.mutations {
		snap.Mutations = append(snap.Mutations, LabeledCount{Op: k[0], Status: k[1], Value: v})
	}
	for _, s := range m.requests {
		snap.APIRequests = append(snap.APIRequests, *s)
	}
	m.mu.Unlock()

	sort.Slice(snap.Mutations, func(i, j int) bool {
		if snap.Mutations[i].Op != snap.Mutations[j].Op {
			return snap.Mutations[i].Op < snap.Mutations[j].Op
		}
		return snap.Mutations[i].Status < snap.Mutations[j].Status
	})
	sort.Slice(snap.APIRequests, func(i, j int) bool {
		return snap.APIRequests[i].Op < snap.APIRequests[j].Op
	})

	return snap
}

// IncListRefresh increments the list refresh counter for an outcome.
func (m *InMemoryRecorder) IncListRefresh(outcome string) {
	switch outcome {
	case ListApplied:
		atomic.AddUint64(&m.listsApplied, 1)
	case ListStale:
		atomic.AddUint64(&m.listsStale, 1)
	case ListFailed:
		atomic.AddUint64(&m.listsFailed, 1)
	}
}

// IncMutation increments the mutation counter for an op/status pair.
func (m *InMemoryRecorder) IncMutation(op, status string) {
	m.mu.Lock()
	m.mutations[[2]string{op, status}]++
	m.mu.Unlock()
}

// ObserveAPIRequest records the duration of a request to the collection API.
func (m *InMemoryRecorder) ObserveAPIRequest(op string, duration time.Duration) {
	m.mu.Lock()
	s, ok := m.requests[op]
	if !ok {
		s = &DurationSummary{Op: op}
		m.requests[op] = s
	}
	s.Count++
	s.TotalNs += duration.Nanoseconds()
	m.mu.Unlock()
}

// IncCatCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncCatCacheHit() {
	atomic.AddUint64(&m.catCacheHits, 1)
}

// IncCatCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncCatCacheMiss() {
	atomic.AddUint64(&m.catCacheMisses, 1)
}

// IncCatCreated increments cat created counter.
func (m *InMemoryRecorder) IncCatCreated() {
	atomic.AddUint64(&m.catsCreated, 1)
}

// IncCatUpdated increments cat updated counter.
func (m *InMemoryRecorder) IncCatUpdated() {
	atomic.AddUint64(&m.catsUpdated, 1)
}

// IncCatDeleted increments cat deleted counter.
func (m *InMemoryRecorder) IncCatDeleted() {
	atomic.AddUint64(&m.catsDeleted, 1)
}

// Count returns the mutation counter for an op/status pair.
func (s Snapshot) Count(op, status string) uint64 {
	for _, c := range s.Mutations {
		if c.Op == op && c.Status == status {
			return c.Value
		}
	}
	return 0
}
