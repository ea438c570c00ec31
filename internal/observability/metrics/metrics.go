package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking and chat flows.
type BookingMetrics struct {
	bookingsTotal      *prometheus.CounterVec
	cancellationsTotal *prometheus.CounterVec
	chatTurnsTotal     *prometheus.CounterVec
	mxLookupLatency    prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medichat",
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Booking attempts by flow and outcome",
		}, []string{"flow", "outcome"}),
		cancellationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medichat",
			Subsystem: "appointments",
			Name:      "cancellations_total",
			Help:      "Cancellation attempts by outcome",
		}, []string{"outcome"}),
		chatTurnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medichat",
			Subsystem: "chat",
			Name:      "turns_total",
			Help:      "Chat turns by detected intent",
		}, []string{"intent"}),
		mxLookupLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medichat",
			Subsystem: "validation",
			Name:      "mx_lookup_seconds",
			Help:      "Latency of email domain MX lookups",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.cancellationsTotal, m.chatTurnsTotal, m.mxLookupLatency)
	return m
}

func (m *BookingMetrics) ObserveBooking(flow, outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(flow, outcome).Inc()
}

func (m *BookingMetrics) ObserveCancellation(outcome string) {
	if m == nil {
		return
	}
	m.cancellationsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveChatTurn(intent string) {
	if m == nil {
		return
	}
	m.chatTurnsTotal.WithLabelValues(intent).Inc()
}

func (m *BookingMetrics) ObserveMXLookup(seconds float64) {
	if m == nil {
		return
	}
	m.mxLookupLatency.Observe(seconds)
}
