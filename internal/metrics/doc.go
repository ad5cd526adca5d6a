// Package metrics defines the Prometheus collectors exported on the
// optional /metrics endpoint.
//
// Collectors are registered with the default registry at init time and
// are safe to update whether or not the endpoint is served.
package metrics
