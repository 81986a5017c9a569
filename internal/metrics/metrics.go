package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the bot's Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	turns          *prometheus.CounterVec
	restarts       *prometheus.CounterVec
	orders         *prometheus.CounterVec
	notifyFailures prometheus.Counter
	relayed        *prometheus.CounterVec
	turnDuration   prometheus.Histogram
}

// New creates the collectors and registers them on reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cafebot_dialogue_turns_total",
				Help: "Dialogue turns handled, by the step the turn started at",
			},
			[]string{"step"},
		),
		restarts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cafebot_session_restarts_total",
				Help: "Sessions restarted by the error recovery path",
			},
			[]string{"reason"},
		),
		orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cafebot_orders_placed_total",
				Help: "Orders persisted, by fulfillment method",
			},
			[]string{"fulfillment"},
		),
		notifyFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cafebot_staff_notify_failures_total",
				Help: "Failed deliveries of an order summary to a staff recipient",
			},
		),
		relayed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cafebot_relay_deliveries_total",
				Help: "Queued staff notifications processed by the relay, by result",
			},
			[]string{"result"},
		),
		turnDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cafebot_dialogue_turn_duration_seconds",
				Help:    "Time spent handling one dialogue turn, including storage",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(m.turns, m.restarts, m.orders, m.notifyFailures, m.relayed, m.turnDuration)
	return m
}

func (m *Metrics) TurnHandled(step string, took time.Duration) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(step).Inc()
	m.turnDuration.Observe(took.Seconds())
}

func (m *Metrics) SessionRestarted(reason string) {
	if m == nil {
		return
	}
	m.restarts.WithLabelValues(reason).Inc()
}

func (m *Metrics) OrderPlaced(fulfillment string) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(fulfillment).Inc()
}

func (m *Metrics) StaffNotifyFailed() {
	if m == nil {
		return
	}
	m.notifyFailures.Inc()
}

// Relayed counts one relay delivery; result is "sent", "requeued" or "dropped"
func (m *Metrics) Relayed(result string) {
	if m == nil {
		return
	}
	m.relayed.WithLabelValues(result).Inc()
}
