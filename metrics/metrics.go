// Package metrics exposes the reader's prometheus instrumentation. Collectors
// are registered on a caller supplied registry so that one-shot tools and
// tests do not share global state.
package metrics

import (
	"io"
	"math"
	"time"

	"github.com/NethermindEth/snapreader/db"
	"github.com/NethermindEth/snapreader/statereader"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"
)

// NewRegistry returns a registry preloaded with the go runtime collectors
func NewRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewBuildInfoCollector())
	registry.MustRegister(collectors.NewGoCollector())
	return registry
}

// NewDBMetrics returns a listener recording read and write latencies in
// microseconds.
func NewDBMetrics(reg prometheus.Registerer) db.EventListener {
	latencyBuckets := []float64{
		25,
		50,
		75,
		100,
		250,
		500,
		1000, // 1ms
		2000,
		3000,
		4000,
		5000,
		10000,
		50000,
		500000,
		math.Inf(0),
	}
	readLatencyHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "db",
		Name:      "read_latency",
		Buckets:   latencyBuckets,
	})
	writeLatencyHistogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "db",
		Name:      "write_latency",
		Buckets:   latencyBuckets,
	})

	reg.MustRegister(readLatencyHistogram, writeLatencyHistogram)
	return &db.SelectiveListener{
		OnIOCb: func(write bool, duration time.Duration) {
			if write {
				writeLatencyHistogram.Observe(float64(duration.Microseconds()))
			} else {
				readLatencyHistogram.Observe(float64(duration.Microseconds()))
			}
		},
	}
}

// NewClassMetrics returns a listener counting class resolutions by outcome
func NewClassMetrics(reg prometheus.Registerer) statereader.EventListener {
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statereader",
		Subsystem: "class",
		Name:      "resolutions",
	}, []string{"outcome"})
	reg.MustRegister(resolutions)

	return &statereader.SelectiveListener{
		OnClassResolvedCb: func(outcome statereader.ClassOutcome) {
			resolutions.WithLabelValues(outcome.String()).Inc()
		},
	}
}

// Dump writes every metric family gathered from g in the text exposition
// format.
func Dump(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return err
		}
	}
	return nil
}
