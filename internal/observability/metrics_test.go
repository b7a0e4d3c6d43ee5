package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshotTotals(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/tickets", "GET", 200, time.Millisecond)
	m.RecordRequest("/api/tickets", "GET", 200, time.Millisecond)
	m.RecordRequest("/api/tickets", "POST", 400, time.Millisecond)
	m.RecordError("/api/tickets", "POST", "VALIDATION_FAILED")

	m.SetCollectionSize("tickets", 7)
	m.SetCollectionSize("tickets", 8)

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.Requests)
	assert.Equal(t, int64(1), snap.Errors)
	assert.Equal(t, 8, snap.Collections["tickets"])
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "INTERNAL_ERROR")
	m.SetCollectionSize("users", 1)
	assert.Empty(t, m.Snapshot().Collections)
}
