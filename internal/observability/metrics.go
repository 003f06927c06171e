package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests served, by route pattern,
	// method, and status code.
	//
	// Example usage:
	// observability.HTTPRequestsTotal.WithLabelValues("/todos", "GET", "200").Inc()
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_api_http_requests_total",
			Help: "Number of HTTP requests served.",
		},
		[]string{"route", "method", "code"},
	)

	// HTTPRequestDuration is a histogram of request latency by route
	// pattern and method.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "todo_api_http_request_duration_seconds",
			Help:    "A histogram of HTTP request latency.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"route", "method"},
	)

	// AuthOutcomesTotal counts authentication gate outcomes: "ok",
	// "missing_token", or "invalid_token".
	//
	// Example usage:
	// observability.AuthOutcomesTotal.WithLabelValues("ok").Inc()
	AuthOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_api_auth_outcomes_total",
			Help: "Number of authentication gate decisions by outcome.",
		},
		[]string{"outcome"},
	)

	// JWKSRefreshTotal counts JWKS endpoint fetches by result
	// ("success" or "error").
	JWKSRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_api_jwks_refresh_total",
			Help: "Number of JWKS fetch attempts by result.",
		},
		[]string{"result"},
	)

	// CognitoCallsTotal counts identity provider calls by operation
	// and result.
	//
	// Example usage:
	// observability.CognitoCallsTotal.WithLabelValues("InitiateAuth", "success").Inc()
	CognitoCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_api_cognito_calls_total",
			Help: "Number of identity provider calls by operation and result.",
		},
		[]string{"operation", "result"},
	)
)
