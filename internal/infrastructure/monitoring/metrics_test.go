package monitoring

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsAdapter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	adapter := NewMetricsAdapter(m)

	adapter.RecordKeyLookup(true)
	adapter.RecordKeyLookup(false)
	adapter.RecordKeyLookup(false)
	adapter.RecordKeyGeneration(true, 300*time.Millisecond)
	adapter.RecordKeyGeneration(false, time.Millisecond)
	adapter.RecordDocumentServed("actor")
	adapter.RecordSignature(true)
	adapter.RecordDelivery(202, 50*time.Millisecond)
	adapter.RecordDelivery(0, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.KeyLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.KeyLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KeyGenerations.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KeyGenerations.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsServed.WithLabelValues("actor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Signatures.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deliveries.WithLabelValues("202")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deliveries.WithLabelValues("error")))
}

func TestMetrics_HTTP(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ActiveRequestsInc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPActiveRequest))
	m.ObserveRequest("/users/:username", "GET", 200, 10*time.Millisecond)
	m.ActiveRequestsDec()

	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPActiveRequest))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/users/:username", "GET", "200")))
}
