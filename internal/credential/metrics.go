// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package credential

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opHash   = "hash"
	opVerify = "verify"
)

// HashDuration is the histogram for hash and verify durations.
// Use RegisterMetrics to register this with a Prometheus registry.
var HashDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "parkspot_credential_operation_duration_seconds",
		Help:    "Duration of password hash and verify operations in seconds",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	},
	[]string{"scheme", "operation"},
)

// RegisterMetrics registers credential metrics with the given registry.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(HashDuration)
}

func observeDuration(scheme Scheme, op string, start time.Time) {
	HashDuration.WithLabelValues(string(scheme), op).Observe(time.Since(start).Seconds())
}
