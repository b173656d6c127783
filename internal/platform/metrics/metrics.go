// Package metrics declares the Prometheus collectors exported by the API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Namespace = "debitcard"

	NameCardOperations      = "card_operations_total"
	NameHTTPRequests        = "http_requests_total"
	NameHTTPRequestDuration = "http_request_duration_seconds"

	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelMethod    = "method"
	LabelRoute     = "route"
	LabelStatus    = "status"
)

// Outcome label values.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"
	OutcomeNotFound  = "not_found"
	OutcomeForbidden = "forbidden"
	OutcomeConflict  = "conflict"
	OutcomeError     = "error"
)

var CardOperations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameCardOperations,
		Help:      "Debit card service operations by outcome",
		Namespace: Namespace,
	},
	[]string{LabelOperation, LabelOutcome},
)

var HTTPRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name:      NameHTTPRequests,
		Help:      "HTTP requests by route and status code",
		Namespace: Namespace,
	},
	[]string{LabelMethod, LabelRoute, LabelStatus},
)

var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:      NameHTTPRequestDuration,
		Help:      "HTTP request latency",
		Namespace: Namespace,
		Buckets:   prometheus.DefBuckets,
	},
	[]string{LabelMethod, LabelRoute},
)

// RecordCardOperation increments the outcome counter for a service operation.
func RecordCardOperation(operation, outcome string) {
	CardOperations.WithLabelValues(operation, outcome).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
