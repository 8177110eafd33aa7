// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package config

import "errors"

// ErrConfiguration marks a fatal startup problem: a missing or placeholder
// secret key, an unusable hashing backend, or an invalid setting. The process
// must not serve traffic when it sees one.
var ErrConfiguration = errors.New("invalid configuration")

// Error codes attached to configuration errors.
const (
	CodeInvalid       = "CONFIG_INVALID"
	CodeMissingSecret = "CONFIG_MISSING_SECRET"
	CodeWeakSecret    = "CONFIG_WEAK_SECRET"
	CodeNoHashBackend = "CONFIG_NO_HASH_BACKEND"
	CodeLoadFailed    = "CONFIG_LOAD_FAILED"
	CodeSchemaInvalid = "CONFIG_SCHEMA_INVALID"
)
