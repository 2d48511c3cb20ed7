package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	leadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total number of leads captured, by source and whether they were duplicates",
		},
		[]string{"source", "duplicate"},
	)

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_status_transitions_total",
			Help: "Total number of lead status transitions",
		},
		[]string{"from", "to"},
	)

	leadsConverted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_converted_total",
			Help: "Total number of leads converted into organizations",
		},
		[]string{"segment"},
	)

	notificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Total number of best-effort notifications that failed",
		},
		[]string{"channel"},
	)

	leadsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "leads_by_status",
			Help: "Current number of leads per status",
		},
		[]string{"status"},
	)
)

func RecordLeadCaptured(source string, duplicate bool) {
	d := "false"
	if duplicate {
		d = "true"
	}
	leadsCaptured.WithLabelValues(source, d).Inc()
}

func RecordStatusTransition(from, to string) {
	statusTransitions.WithLabelValues(from, to).Inc()
}

func RecordConversion(segment string) {
	leadsConverted.WithLabelValues(segment).Inc()
}

// RecordNotificationFailure counts soft failures: channel is "email", "queue" or "crm".
func RecordNotificationFailure(channel string) {
	notificationFailures.WithLabelValues(channel).Inc()
}

func SetLeadsByStatus(status string, count float64) {
	leadsByStatus.WithLabelValues(status).Set(count)
}
