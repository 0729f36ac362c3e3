// Package metrics provides job execution metrics for worker pools.
//
// Metrics counts submitted, rejected, completed and panicked jobs, tracks the
// number of live workers, and samples execution latency for average and P99
// reporting. It is thread-safe and uses atomic counters on the hot path.
//
// # Basic Usage
//
//	m := metrics.New()
//
//	m.RecordSubmit()
//	start := time.Now()
//	// ... run job ...
//	m.RecordCompletion(time.Since(start))
//
//	snap := m.Snapshot()
//	fmt.Printf("completed=%d p99=%v\n", snap.Completed, snap.P99Latency)
//
// # Prometheus
//
// Collector exposes a Metrics value through client_golang:
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewCollector("threadpool", m, prometheus.Labels{"pool": id}))
//
// # Configuration
//
// Use NewWithConfig to change how many latency samples are kept for P99:
//
//	m := metrics.NewWithConfig(metrics.Config{MaxLatencySamples: 5000})
package metrics
