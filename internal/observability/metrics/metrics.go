package metrics

import "github.com/prometheus/client_golang/prometheus"

// MessagingMetrics exposes counters for the notification and workflow flows.
// A nil *MessagingMetrics is valid and records nothing.
type MessagingMetrics struct {
	outboundTotal    *prometheus.CounterVec
	inboundTotal     *prometheus.CounterVec
	workflowTotal    *prometheus.CounterVec
	callbackTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
}

func NewMessagingMetrics(reg prometheus.Registerer) *MessagingMetrics {
	m := &MessagingMetrics{
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pharmacy",
			Subsystem: "messaging",
			Name:      "outbound_total",
			Help:      "Total outbound customer messages",
		}, []string{"status"}),
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pharmacy",
			Subsystem: "messaging",
			Name:      "inbound_total",
			Help:      "Total inbound customer messages by classified action",
		}, []string{"action"}),
		workflowTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pharmacy",
			Subsystem: "workflow",
			Name:      "publish_total",
			Help:      "Total domain events published to the workflow endpoint",
		}, []string{"event", "status"}),
		callbackTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pharmacy",
			Subsystem: "workflow",
			Name:      "inbound_events_total",
			Help:      "Total events received from the workflow endpoint",
		}, []string{"event_type", "status"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pharmacy",
			Subsystem: "bookings",
			Name:      "transitions_total",
			Help:      "Total applied booking status transitions",
		}, []string{"from", "to"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.outboundTotal, m.inboundTotal, m.workflowTotal, m.callbackTotal, m.transitionsTotal)
	return m
}

func (m *MessagingMetrics) ObserveOutbound(status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(status).Inc()
}

func (m *MessagingMetrics) ObserveInbound(action string) {
	if m == nil {
		return
	}
	if action == "" {
		action = "none"
	}
	m.inboundTotal.WithLabelValues(action).Inc()
}

func (m *MessagingMetrics) ObserveWorkflowPublish(event, status string) {
	if m == nil {
		return
	}
	m.workflowTotal.WithLabelValues(event, status).Inc()
}

func (m *MessagingMetrics) ObserveWorkflowCallback(eventType, status string) {
	if m == nil {
		return
	}
	m.callbackTotal.WithLabelValues(eventType, status).Inc()
}

func (m *MessagingMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(from, to).Inc()
}
