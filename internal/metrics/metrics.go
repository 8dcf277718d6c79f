// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DemoPartsSeeded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "visionedge",
		Name:      "demo_parts_seeded_total",
		Help:      "Demo parts upserted at startup, by outcome.",
	}, []string{"result"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "visionedge",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
