// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Skip and rejection reasons
const (
	ReasonMissingField = "missing_field"
	ReasonPersistence  = "persistence"
	ReasonParse        = "parse"
	ReasonShape        = "shape"
)

var (
	NotificationsReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eventkit_notifications_received_total",
			Help: "Total number of notifications received in accepted batches",
		},
	)

	NotificationsAcceptedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "eventkit_notifications_accepted_total",
			Help: "Total number of notifications mapped and written",
		},
	)

	NotificationsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventkit_notifications_skipped_total",
			Help: "Total number of notifications skipped, by reason",
		},
		[]string{"reason"},
	)

	BatchesRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventkit_batches_rejected_total",
			Help: "Total number of ingestion batches rejected as a whole, by reason",
		},
		[]string{"reason"},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventkit_queries_total",
			Help: "Total number of search queries, by mode",
		},
		[]string{"mode"},
	)

	ConsumerMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventkit_consumer_messages_total",
			Help: "Total number of queued rows handled by the consumer, by result",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"handler", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
)

// Register registers every collector with reg
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		NotificationsReceivedTotal,
		NotificationsAcceptedTotal,
		NotificationsSkippedTotal,
		BatchesRejectedTotal,
		QueriesTotal,
		ConsumerMessagesTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Instrument records request count and duration per matched route
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
