// SPDX-License-Identifier: MIT

// Package metrics provides Prometheus metrics for the playlist pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RefreshTotal counts refresh runs by result.
	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_refresh_total",
		Help: "Total number of playlist refresh runs, by result.",
	}, []string{"result"})

	// RefreshDuration observes refresh run latency.
	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "iptv_refresh_duration_seconds",
		Help:    "Duration of playlist refresh runs.",
		Buckets: prometheus.DefBuckets,
	})

	// LastRefreshTimestamp records when a refresh last succeeded.
	LastRefreshTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "iptv_last_refresh_timestamp_seconds",
		Help: "Unix time of the last successful refresh.",
	})

	// Channels tracks channel counts per pipeline stage for the last run.
	Channels = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "iptv_channels",
		Help: "Channel counts from the last refresh, by pipeline stage.",
	}, []string{"stage"})

	// FileRequestDenied counts rejected playlist file requests.
	FileRequestDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "iptv_file_request_denied_total",
		Help: "Total number of denied playlist file requests, by reason.",
	}, []string{"reason"})
)

// Channel stage label values.
const (
	StageParsed      = "parsed"
	StageSkipped     = "skipped"
	StageBlacklisted = "blacklisted"
	StageUnmatched   = "unmatched"
	StageWritten     = "written"
)

// RecordRefresh updates the per-stage channel gauges after a run.
func RecordRefresh(parsed, skipped, blacklisted, unmatched, written int) {
	Channels.WithLabelValues(StageParsed).Set(float64(parsed))
	Channels.WithLabelValues(StageSkipped).Set(float64(skipped))
	Channels.WithLabelValues(StageBlacklisted).Set(float64(blacklisted))
	Channels.WithLabelValues(StageUnmatched).Set(float64(unmatched))
	Channels.WithLabelValues(StageWritten).Set(float64(written))
}
