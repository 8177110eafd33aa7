// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

// Package token issues and validates signed bearer tokens.
//
// Tokens are compact HS256 JWTs carrying only sub, exp and iat. A Codec is
// immutable once built and safe for concurrent use. Validation reports one of
// three distinct failures (ErrMalformedToken, ErrInvalidSignature,
// ErrExpiredToken) so callers can log or count them, but callers facing the
// network should collapse them into a single unauthorized answer.
//
// There is no revocation: a token stays valid until its exp, and rotating the
// secret key invalidates every outstanding token at once.
package token
