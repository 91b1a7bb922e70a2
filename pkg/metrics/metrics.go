package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "karma"

var HistogramBuckets = []float64{
	// --- Fast responses (0 - 500ms) ---
	25, 50, 75, 100, 150, 200, 300, 400, 500,

	// --- Medium responses (500ms - 2s) ---
	750, 1000, 1500, 2000,

	// --- Slow responses, mostly AI calls (2s - 60s) ---
	3000, 5000, 10000, 20000, 30000, 60000,
}

// Business collectors.
var (
	ReminderSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminder_sent_total",
		Help:      "Reminder deliveries partitioned by channel, kind and result.",
	}, []string{"channel", "kind", "result"})

	ReminderBatchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reminder_batch_dur_ms",
		Help:      "Reminder batch latency in milliseconds.",
		Buckets:   HistogramBuckets,
	}, []string{"kind"})

	AICost = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_cost_usd_total",
		Help:      "Recorded AI spend in USD.",
	}, []string{"model"})

	EntriesCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "journal_entries_created_total",
		Help:      "Journal entries created partitioned by source.",
	}, []string{"source"})

	PaymentNotifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_notifications_total",
		Help:      "Payment webhook notifications partitioned by transaction status and response.",
	}, []string{"transaction_status", "response"})
)

func init() {
	prometheus.MustRegister(ReminderSent, ReminderBatchDuration, AICost, EntriesCreated, PaymentNotifications)
}
