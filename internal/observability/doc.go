// Package observability provides structured logging and metrics for
// the todo API.
//
// This package implements:
//   - The process-wide zap logger builder
//   - Prometheus counters and histograms for HTTP traffic, the
//     authentication gate, JWKS refreshes, and identity provider calls
package observability
