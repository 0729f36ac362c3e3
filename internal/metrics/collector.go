package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports a Metrics value as Prometheus metrics.
// Values are read at scrape time, so the pool's hot path only touches atomics.
type Collector struct {
	m *Metrics

	submitted   *prometheus.Desc
	rejected    *prometheus.Desc
	completed   *prometheus.Desc
	panicked    *prometheus.Desc
	respawns    *prometheus.Desc
	pending     *prometheus.Desc
	liveWorkers *prometheus.Desc
	avgLatency  *prometheus.Desc
	p99Latency  *prometheus.Desc
}

// NewCollector creates a collector for m. constLabels are attached to every
// series, typically the pool id.
func NewCollector(namespace string, m *Metrics, constLabels prometheus.Labels) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, nil, constLabels)
	}
	return &Collector{
		m:           m,
		submitted:   desc("jobs_submitted_total", "Total number of jobs enqueued."),
		rejected:    desc("jobs_rejected_total", "Total number of jobs rejected because the pool was closed."),
		completed:   desc("jobs_completed_total", "Total number of jobs that returned normally."),
		panicked:    desc("jobs_panicked_total", "Total number of jobs that panicked and stopped their worker."),
		respawns:    desc("worker_respawns_total", "Total number of faulted workers replaced."),
		pending:     desc("jobs_pending", "Jobs enqueued but not yet executed."),
		liveWorkers: desc("live_workers", "Worker goroutines currently running."),
		avgLatency:  desc("job_latency_average_seconds", "Average job execution time."),
		p99Latency:  desc("job_latency_p99_seconds", "Sampled 99th percentile job execution time."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.submitted
	ch <- c.rejected
	ch <- c.completed
	ch <- c.panicked
	ch <- c.respawns
	ch <- c.pending
	ch <- c.liveWorkers
	ch <- c.avgLatency
	ch <- c.p99Latency
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.m.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.submitted, prometheus.CounterValue, float64(s.Submitted))
	ch <- prometheus.MustNewConstMetric(c.rejected, prometheus.CounterValue, float64(s.Rejected))
	ch <- prometheus.MustNewConstMetric(c.completed, prometheus.CounterValue, float64(s.Completed))
	ch <- prometheus.MustNewConstMetric(c.panicked, prometheus.CounterValue, float64(s.Panicked))
	ch <- prometheus.MustNewConstMetric(c.respawns, prometheus.CounterValue, float64(s.Respawns))
	ch <- prometheus.MustNewConstMetric(c.pending, prometheus.GaugeValue, float64(s.Pending))
	ch <- prometheus.MustNewConstMetric(c.liveWorkers, prometheus.GaugeValue, float64(s.LiveWorkers))
	ch <- prometheus.MustNewConstMetric(c.avgLatency, prometheus.GaugeValue, s.AverageLatency.Seconds())
	ch <- prometheus.MustNewConstMetric(c.p99Latency, prometheus.GaugeValue, s.P99Latency.Seconds())
}
