// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - WebSocket connection state and message rates
//   - Recorder batch throughput and queue overflow counts
//   - Redis fanout throughput and failures
//
// Counters sourced from component Stats snapshots are exposed through
// CounterFunc/GaugeFunc collectors, so scraping never touches component
// internals directly.
package metrics
