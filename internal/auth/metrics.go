// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package auth

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opRegister     = "register"
	opAuthenticate = "authenticate"
	opLogin        = "login"
	opResolve      = "resolve_identity"
)

// Operation outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid_input"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
)

// OperationsTotal counts service operations by outcome.
var OperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "parkspot_auth_operations_total",
		Help: "Total authentication service operations by operation and outcome",
	},
	[]string{"operation", "outcome"},
)

// RegisterMetrics registers auth metrics with reg.
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(OperationsTotal)
}

func recordOperation(op string, err error) {
	OperationsTotal.WithLabelValues(op, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrDuplicateIdentity):
		return OutcomeDuplicate
	case errors.Is(err, ErrValidation):
		return OutcomeInvalid
	case errors.Is(err, ErrAuthenticationFailed), errors.Is(err, ErrUnauthorized):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
