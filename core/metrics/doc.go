// Package metrics defines the sinks allocation runs report to. Sinks like
// PromSink and InfluxSink live in infra/metrics and register themselves by
// type name; NewMetricsSink builds the configured set and fans out through a
// MultiSink when more than one is configured.
package metrics
