// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package token

import "errors"

// Validation failure kinds.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpiredToken     = errors.New("token expired")
)

// Error codes.
const (
	CodeMalformed        = "TOKEN_MALFORMED"
	CodeInvalidSignature = "TOKEN_INVALID_SIGNATURE"
	CodeExpired          = "TOKEN_EXPIRED"
	CodeInvalidSubject   = "TOKEN_INVALID_SUBJECT"
	CodeSignFailed       = "TOKEN_SIGN_FAILED"
)
