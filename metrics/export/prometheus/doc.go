// Package prometheus exposes merchantauth Engine metrics as a Prometheus
// collector.
//
// [NewCollector] returns a [Collector] that can be registered on any
// registry; [Handler] mounts it alone on a private registry. Counter names
// are merchantauth_*_total and the single histogram is
// merchantauth_authenticate_latency_seconds.
//
// The collector never registers itself on the global registry and never
// mutates engine state.
package prometheus
