package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics keeps in-memory counters for the HTTP surface and gauges for the
// persisted collection sizes. All methods are nil-safe so wiring stays
// optional in tests.
type Metrics struct {
	mu              sync.Mutex
	requestCount    map[string]int64
	errorCount      map[string]int64
	collectionSizes map[string]int
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:    make(map[string]int64),
		errorCount:      make(map[string]int64),
		collectionSizes: make(map[string]int),
	}
}

// RecordRequest counts a completed request by path, method, and final status.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError counts a request that ended in an error envelope.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// SetCollectionSize records the current size of a persisted collection. The
// store refreshes these after every snapshot write.
func (m *Metrics) SetCollectionSize(name string, size int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collectionSizes[name] = size
}

// Snapshot is a point-in-time copy of the aggregate counters.
type Snapshot struct {
	Requests    int64
	Errors      int64
	Collections map[string]int
}

// Snapshot totals the counters and copies the gauges.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{Collections: map[string]int{}}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{Collections: make(map[string]int, len(m.collectionSizes))}
	for _, count := range m.requestCount {
		snap.Requests += count
	}
	for _, count := range m.errorCount {
		snap.Errors += count
	}
	for name, size := range m.collectionSizes {
		snap.Collections[name] = size
	}
	return snap
}
