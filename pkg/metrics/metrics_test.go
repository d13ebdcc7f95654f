package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry("availability-test", reg)

	m.BookingResult("created")
	m.BookingResult("created")
	m.BookingResult("slot_full")
	m.ConflictDetected("overlap")
	m.SlotsCreated("recurring", 4)
	m.ObserveHTTP("GET", "/api/v1/slots/{slotId}", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues("slot_full")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.conflicts.WithLabelValues("overlap")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.slotsCreated.WithLabelValues("recurring")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/slots/{slotId}", "200")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingResult("created")
		m.ObserveLockWait(time.Millisecond)
		m.SetPoolStats(1, 1, 0)
	})
}
