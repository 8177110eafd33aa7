// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package token

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Validation outcomes.
const (
	OutcomeValid            = "valid"
	OutcomeMalformed        = "malformed"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeExpired          = "expired"
)

// ValidationsTotal counts token validations by outcome.
var ValidationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "parkspot_token_validations_total",
		Help: "Total bearer token validations by outcome",
	},
	[]string{"outcome"},
)

// RegisterMetrics registers token metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(ValidationsTotal)
}

// Outcome returns the metric label for a Validate result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeValid
	case errors.Is(err, ErrExpiredToken):
		return OutcomeExpired
	case errors.Is(err, ErrInvalidSignature):
		return OutcomeInvalidSignature
	default:
		return OutcomeMalformed
	}
}

func observeValidation(err error) {
	ValidationsTotal.WithLabelValues(Outcome(err)).Inc()
}
