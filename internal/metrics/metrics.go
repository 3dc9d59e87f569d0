// Package metrics exposes Prometheus metrics for calls to the indexer and the wallet service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "midnight_hello"

// Submission results
const (
	SubmissionSucceeded      = "success"
	SubmissionFailed         = "failed"
	SubmissionInvalid        = "invalid"
	SubmissionNotConnected   = "not_connected"
	SubmissionNotImplemented = "not_implemented"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Requests sent to the indexer and the wallet service.",
	}, []string{"service", "operation", "outcome"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of requests sent to the indexer and the wallet service.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "operation"})

	submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "message_submissions_total",
		Help:      "Message submissions by result.",
	}, []string{"result"})
)

// ObserveUpstream records one upstream call started at start
func ObserveUpstream(service, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamRequests.WithLabelValues(service, operation, outcome).Inc()
	upstreamDuration.WithLabelValues(service, operation).Observe(time.Since(start).Seconds())
}

// ObserveSubmission counts a message submission attempt
func ObserveSubmission(result string) {
	submissions.WithLabelValues(result).Inc()
}
