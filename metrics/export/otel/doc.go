// Package otel publishes merchantauth Engine metrics through an
// OpenTelemetry meter.
//
// Counters become Int64ObservableCounter instruments. The latency histogram
// is flattened into one cumulative gauge per bucket plus _count and _sum
// gauges, since the OTel API has no asynchronous histogram.
package otel
