package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMessagingMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMessagingMetrics(reg)

	m.ObserveOutbound("sent")
	m.ObserveOutbound("sent")
	m.ObserveOutbound("failed")
	m.ObserveInbound("")
	m.ObserveWorkflowPublish("booking_updated", "delivered")
	m.ObserveWorkflowCallback("reminder_scheduled", "accepted")
	m.ObserveTransition("pending", "confirmed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.outboundTotal.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outboundTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inboundTotal.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitionsTotal.WithLabelValues("pending", "confirmed")))
}

func TestMessagingMetricsNilSafe(t *testing.T) {
	var m *MessagingMetrics
	m.ObserveOutbound("sent")
	m.ObserveInbound("status_check")
	m.ObserveWorkflowPublish("booking_updated", "skipped")
	m.ObserveWorkflowCallback("unknown", "rejected")
	m.ObserveTransition("ready", "delivered")
}
