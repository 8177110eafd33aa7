// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package auth

import (
	"errors"

	"github.com/parkspot/parkspot/internal/credential"
)

var (
	// ErrNotFound is returned by a UserDirectory when no credential matches.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateIdentity is returned when the identity key is already taken.
	ErrDuplicateIdentity = errors.New("identity already registered")

	// ErrAuthenticationFailed covers both unknown identity and wrong secret.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrUnauthorized is returned for any bearer token that does not resolve.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation is a client-side input problem. It is the same sentinel
	// the hasher uses, so an oversize secret matches it too.
	ErrValidation = credential.ErrValidation
)

// Error codes.
const (
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeUnauthorized       = "AUTH_UNAUTHORIZED"
	CodeDuplicateIdentity  = "AUTH_DUPLICATE_IDENTITY"
	CodeInvalidInput       = "AUTH_INVALID_INPUT"
	CodeIdentityNotAllowed = "AUTH_IDENTITY_NOT_ALLOWED"
	CodeRegisterFailed     = "AUTH_REGISTER_FAILED"
	CodeLoginFailed        = "AUTH_LOGIN_FAILED"
	CodeResolveFailed      = "AUTH_RESOLVE_FAILED"
)
