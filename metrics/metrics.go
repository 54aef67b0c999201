package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	// Overrun alerts raised, one per budget item at most.
	BudgetAlertCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "budget_overrun_alert_count",
			Help: "Total number of budget overrun alerts raised",
		},
	)

	NotificationDeliveryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_delivery_count",
			Help: "Notification deliveries per channel and outcome",
		},
		[]string{"channel", "type", "status"}, // status: success, failed
	)

	FeatureUsageCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feature_usage_recorded_count",
			Help: "Feature usage rows recorded, at most one per account per day",
		},
		[]string{"feature"},
	)
)

func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func RecordBudgetAlert() {
	BudgetAlertCount.Inc()
}

func RecordNotificationDelivery(channel, notificationType string, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}
	NotificationDeliveryCount.WithLabelValues(channel, notificationType, status).Inc()
}

func RecordFeatureUsage(feature string) {
	FeatureUsageCount.WithLabelValues(feature).Inc()
}
