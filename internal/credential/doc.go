// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

// Package credential turns raw secrets into stored hashes and checks secrets
// against stored hashes.
//
// # Hashing policy
//
// The active scheme is chosen once at startup by Probe, which runs a
// hash-then-verify self test for each candidate scheme and returns an
// immutable Policy. Argon2id (no input length limit) is preferred; bcrypt
// (72-byte input limit) is the fallback. Secrets that exceed the bcrypt limit
// are rejected, never truncated.
//
// # Stored hash format
//
// Hashes are PHC-style strings whose prefix identifies the scheme:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
//	$2b$12$<salt+hash>
//
// Verify dispatches on that prefix, so hashes produced under either scheme
// keep verifying after the active scheme changes between deployments.
// Stored cost parameters are checked against fixed ceilings rather than the
// active policy, so lowering the configured cost does not invalidate them.
//
// # Concurrency
//
// Hasher bounds the number of concurrent hash and verify calls with a
// weighted semaphore. Waiting callers give up when their context ends.
package credential
