package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_payment_requests_total",
			Help: "Total number of pending payments created by clients",
		},
		[]string{"kind"},
	)

	PaymentDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_payment_decisions_total",
			Help: "Total number of operator decisions on pending payments",
		},
		[]string{"kind", "outcome"},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"plan_kind"},
	)

	SubscriptionsExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymflow_subscriptions_expired_total",
			Help: "Total number of subscriptions flipped to expired by the sweeper",
		},
	)

	AdmissionDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_admission_decisions_total",
			Help: "Total number of admission gate decisions",
		},
		[]string{"result"},
	)

	NotificationsDispatchedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymflow_notifications_dispatched_total",
			Help: "Total number of outbox notifications handed to the email queue",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymflow_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPaymentRequest(kind string) {
	PaymentRequestsTotal.WithLabelValues(kind).Inc()
}

func RecordPaymentDecision(kind, outcome string) {
	PaymentDecisionsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordSubscription(planKind string) {
	SubscriptionsCreatedTotal.WithLabelValues(planKind).Inc()
}

func RecordExpired(n int64) {
	if n > 0 {
		SubscriptionsExpiredTotal.Add(float64(n))
	}
}

func RecordAdmission(result string) {
	AdmissionDecisionsTotal.WithLabelValues(result).Inc()
}

func RecordNotificationsDispatched(n int) {
	if n > 0 {
		NotificationsDispatchedTotal.Add(float64(n))
	}
}

func RecordEmail(status string) {
	EmailsSentTotal.WithLabelValues(status).Inc()
}

func SetEmailQueueLength(n int64) {
	EmailQueueLength.Set(float64(n))
}
