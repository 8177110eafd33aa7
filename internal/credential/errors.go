// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package credential

import "errors"

// ErrValidation is wrapped by every error caused by the caller's input: an
// empty or oversized secret, or a stored hash that cannot be parsed.
var ErrValidation = errors.New("credential validation failed")

// Error codes attached to returned oops errors.
const (
	CodeSecretEmpty   = "CREDENTIAL_SECRET_EMPTY"
	CodeSecretTooLong = "CREDENTIAL_SECRET_TOO_LONG"
	CodeInvalidHash   = "CREDENTIAL_INVALID_HASH"
	CodeHashFailed    = "CREDENTIAL_HASH_FAILED"
)
