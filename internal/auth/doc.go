// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

// Package auth registers and authenticates ParkSpot accounts.
//
// # Domain Types
//
// A Credential is the stored record for one account. An Identity is the
// per-call view handed back to callers once a secret or token checks out;
// it never carries the secret hash.
//
// # Service
//
// Service orchestrates a UserDirectory, a hasher and a token codec:
//   - Register - validate input, reject duplicates, hash and insert
//   - Authenticate - verify an identity key and secret
//   - Login - Authenticate, then issue a bearer token
//   - ResolveIdentity - validate a bearer token and reload its subject
//
// Authentication failures are uniform: an unknown identity and a wrong
// secret both return ErrAuthenticationFailed, and every token problem
// surfaces as ErrUnauthorized.
package auth
