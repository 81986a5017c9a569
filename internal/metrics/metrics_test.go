package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counts(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.TurnHandled("cart", time.Millisecond)
	m.TurnHandled("cart", time.Millisecond)
	m.SessionRestarted("panic")
	m.OrderPlaced("Pickup")
	m.StaffNotifyFailed()
	m.Relayed("sent")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turns.WithLabelValues("cart")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.restarts.WithLabelValues("panic")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orders.WithLabelValues("Pickup")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifyFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.relayed.WithLabelValues("sent")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TurnHandled("cart", time.Second)
		m.SessionRestarted("error")
		m.OrderPlaced("Delivery")
		m.StaffNotifyFailed()
		m.Relayed("dropped")
	})
}
