package metrics

import "github.com/prometheus/client_golang/prometheus"

// FunnelMetrics exposes counters for the trial booking funnel.
type FunnelMetrics struct {
	stepTotal    *prometheus.CounterVec
	outcomeTotal *prometheus.CounterVec
}

func NewFunnelMetrics(reg prometheus.Registerer) *FunnelMetrics {
	m := &FunnelMetrics{
		stepTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auka",
			Subsystem: "funnel",
			Name:      "step_transitions_total",
			Help:      "Total funnel step transitions",
		}, []string{"from", "to"}),
		outcomeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auka",
			Subsystem: "funnel",
			Name:      "outcomes_total",
			Help:      "Total funnel submission outcomes",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.stepTotal, m.outcomeTotal)
	return m
}

func (m *FunnelMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.stepTotal.WithLabelValues(from, to).Inc()
}

func (m *FunnelMetrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomeTotal.WithLabelValues(outcome).Inc()
}

// TrackingMetrics counts conversion event deliveries per sink.
type TrackingMetrics struct {
	deliveryTotal *prometheus.CounterVec
}

func NewTrackingMetrics(reg prometheus.Registerer) *TrackingMetrics {
	m := &TrackingMetrics{
		deliveryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auka",
			Subsystem: "tracking",
			Name:      "deliveries_total",
			Help:      "Total conversion event deliveries",
		}, []string{"sink", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.deliveryTotal)
	return m
}

func (m *TrackingMetrics) ObserveDelivery(sink, status string) {
	if m == nil {
		return
	}
	m.deliveryTotal.WithLabelValues(sink, status).Inc()
}

// BookingMetrics exposes counters/histograms for booking submissions.
type BookingMetrics struct {
	submissionTotal *prometheus.CounterVec
	submitLatency   *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		submissionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auka",
			Subsystem: "bookings",
			Name:      "submissions_total",
			Help:      "Total trial booking submissions",
		}, []string{"outcome"}),
		submitLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "auka",
			Subsystem: "bookings",
			Name:      "submit_latency_seconds",
			Help:      "Latency of booking submission handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionTotal, m.submitLatency)
	return m
}

func (m *BookingMetrics) ObserveSubmission(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionTotal.WithLabelValues(outcome).Inc()
	m.submitLatency.WithLabelValues(outcome).Observe(seconds)
}
