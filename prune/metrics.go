package prune

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "rotation"

// Metrics tracks prune runs.
//
// Metrics:
//   - rotation_prune_runs_total: Prune runs by outcome ("ok", "failure", "dry_run")
//   - rotation_prune_snapshots_total: Snapshots by action ("kept", "deleted", "failed")
//   - rotation_prune_reclaimed_bytes_total: Bytes released by deleted snapshots
//   - rotation_prune_duration_seconds: Prune run duration
//   - rotation_prune_last_run_timestamp_seconds: Completion time of the last run
type Metrics struct {
	runsTotal      *prometheus.CounterVec
	snapshotsTotal *prometheus.CounterVec
	reclaimedBytes prometheus.Counter
	duration       prometheus.Histogram
	lastRun        prometheus.Gauge
}

// NewMetrics creates and registers the prune metrics with the provided
// registerer.
func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "prune",
				Name:      "runs_total",
				Help:      "Total number of prune runs",
			},
			[]string{"outcome"},
		),
		snapshotsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "prune",
				Name:      "snapshots_total",
				Help:      "Total number of evaluated snapshots",
			},
			[]string{"action"},
		),
		reclaimedBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "prune",
				Name:      "reclaimed_bytes_total",
				Help:      "Total size of deleted snapshots in bytes",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "prune",
				Name:      "duration_seconds",
				Help:      "Duration of prune runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "prune",
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last completed prune run",
			},
		),
	}

	for _, collector := range []prometheus.Collector{
		m.runsTotal,
		m.snapshotsTotal,
		m.reclaimedBytes,
		m.duration,
		m.lastRun,
	} {
		if err := registerer.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordRun(result *Result, failed bool, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	switch {
	case failed:
		outcome = "failure"
	case result.DryRun:
		outcome = "dry_run"
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.duration.Observe(duration.Seconds())
	m.lastRun.SetToCurrentTime()

	m.snapshotsTotal.WithLabelValues("kept").Add(float64(len(result.Kept)))
	m.snapshotsTotal.WithLabelValues("failed").Add(float64(len(result.Failed)))
	if !result.DryRun {
		m.snapshotsTotal.WithLabelValues("deleted").Add(float64(len(result.Deleted)))
		m.reclaimedBytes.Add(float64(result.Reclaimed))
	}
}
