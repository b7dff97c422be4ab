package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Mutation outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_mutations_total",
		Help: "Create, update and delete requests by entity and outcome",
	}, []string{"entity", "action", "outcome"})

	OrderLinesAddedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_lines_added_total",
		Help: "Total number of order lines committed",
	})

	OrderLineValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_line_value",
		Help:    "Price of committed order lines",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	OrderTotalDriftTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_total_drift_total",
		Help: "Orders found with a stored total different from the sum of their lines",
	})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_events_published_total",
		Help: "Order events handed to the broker by type and outcome",
	}, []string{"type", "outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
