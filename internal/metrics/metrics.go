package metrics

import "github.com/prometheus/client_golang/prometheus"

// ClinicMetrics counts booking, lifecycle and billing outcomes.
type ClinicMetrics struct {
	transitions     *prometheus.CounterVec
	bookings        *prometheus.CounterVec
	invoicesCreated prometheus.Counter
	staleRetries    prometheus.Counter
}

func NewClinicMetrics(reg prometheus.Registerer) *ClinicMetrics {
	m := &ClinicMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "transitions_total",
			Help:      "Appointment status transitions by action and result",
		}, []string{"action", "result"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Booking attempts by result",
		}, []string{"result"}),
		invoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "billing",
			Name:      "invoices_created_total",
			Help:      "Invoices persisted",
		}),
		staleRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "stale_retries_total",
			Help:      "Transition writes retried after a concurrent modification",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitions, m.bookings, m.invoicesCreated, m.staleRetries)
	return m
}

func (m *ClinicMetrics) ObserveTransition(action, result string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action, result).Inc()
}

func (m *ClinicMetrics) ObserveBooking(result string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(result).Inc()
}

func (m *ClinicMetrics) ObserveInvoiceCreated() {
	if m == nil {
		return
	}
	m.invoicesCreated.Inc()
}

func (m *ClinicMetrics) ObserveStaleRetry() {
	if m == nil {
		return
	}
	m.staleRetries.Inc()
}
