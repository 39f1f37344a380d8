// Package internaldefs holds the metric names and bucket layout shared by
// the Prometheus and OpenTelemetry exporters.
//
// Both exporters read from the same tables so that a rename here changes
// every exporter at once. The package performs no I/O.
package internaldefs
