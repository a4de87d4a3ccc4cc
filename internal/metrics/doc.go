// Package metrics defines the Prometheus collectors exposed on /metrics.
//
// Collectors are registered on an explicit registry so tests can create
// isolated instances without touching the global default registry.
package metrics
