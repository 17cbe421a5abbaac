// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package instance

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a discovery attempt, used as the "outcome" label.
const (
	outcomeSuccess          = "success"
	outcomeNotInValidList   = "not_in_valid_list"
	outcomeValidationFailed = "validation_failed"
	outcomeIgnored          = "ignored"
	outcomeTransportError   = "transport_error"
)

type metrics struct {
	lookups     *prometheus.CounterVec
	discoveries *prometheus.CounterVec
	duration    prometheus.Histogram
	entries     prometheus.GaugeFunc
}

func newMetrics(cache *Cache) *metrics {
	return &metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "instance_discovery",
			Name:      "lookups_total",
			Help:      "Metadata entry lookups by result (hit, miss).",
		}, []string{"result"}),
		discoveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "instance_discovery",
			Name:      "discoveries_total",
			Help:      "Network discovery attempts by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "instance_discovery",
			Name:      "discovery_duration_seconds",
			Help:      "Duration of network discovery calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		entries: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "instance_discovery",
			Name:      "cache_entries",
			Help:      "Number of hosts in the metadata cache.",
		}, func() float64 { return float64(cache.Len()) }),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.lookups, m.discoveries, m.duration, m.entries} {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("could not register discovery metrics: %w", err)
		}
	}
	return nil
}
