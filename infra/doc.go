// Package infra holds the technical adapters behind the core interfaces:
// the zerolog logger, the Prometheus and InfluxDB metric sinks and the
// Sentry monitor.
package infra
