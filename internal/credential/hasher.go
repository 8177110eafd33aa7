// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package credential

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/oops"
	"golang.org/x/sync/semaphore"

	"github.com/parkspot/parkspot/internal/config"
)

// Hasher hashes and verifies secrets under a fixed Policy. It is safe for
// concurrent use; at most Policy.MaxConcurrency operations run at once.
type Hasher struct {
	policy Policy
	sem    *semaphore.Weighted
}

// NewHasher creates a Hasher for a policy returned by Probe.
func NewHasher(policy Policy) (*Hasher, error) {
	if policy.IsZero() {
		return nil, oops.Code(config.CodeNoHashBackend).
			Wrap(fmt.Errorf("%w: hashing policy was not probed", config.ErrConfiguration))
	}
	return &Hasher{
		policy: policy,
		sem:    semaphore.NewWeighted(int64(policy.maxConcurrency)),
	}, nil
}

// Policy returns the policy the hasher was built with.
func (h *Hasher) Policy() Policy {
	return h.policy
}

// Hash hashes secret under the active scheme.
func (h *Hasher) Hash(ctx context.Context, secret string) (string, error) {
	if secret == "" {
		return "", oops.Code(CodeSecretEmpty).
			Public("password is required").
			Wrap(fmt.Errorf("%w: secret cannot be empty", ErrValidation))
	}
	if limit := h.policy.MaxSecretBytes(); limit > 0 && len(secret) > limit {
		return "", oops.Code(CodeSecretTooLong).
			With("scheme", string(h.policy.scheme)).
			With("max_bytes", limit).
			Public(fmt.Sprintf("password cannot be longer than %d bytes", limit)).
			Wrap(fmt.Errorf("%w: secret cannot be longer than %d bytes", ErrValidation, limit))
	}

	release, err := h.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	start := time.Now()
	defer func() { observeDuration(h.policy.scheme, opHash, start) }()

	switch h.policy.scheme {
	case SchemeArgon2id:
		return hashArgon2id(h.policy.argon2id, secret)
	default:
		return hashBcrypt(h.policy.bcryptCost, secret)
	}
}

// Verify reports whether secret produced encoded. A mismatch is (false, nil);
// an error means encoded is malformed or the context ended while waiting.
func (h *Hasher) Verify(ctx context.Context, secret, encoded string) (bool, error) {
	scheme, err := schemeOf(encoded)
	if err != nil {
		return false, err
	}

	release, err := h.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer release()

	start := time.Now()
	defer func() { observeDuration(scheme, opVerify, start) }()

	return verifyEncoded(h.policy, secret, encoded)
}

func (h *Hasher) acquire(ctx context.Context) (func(), error) {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return nil, oops.Code(CodeHashFailed).
			With("operation", "wait for hashing slot").
			Wrap(err)
	}
	return func() { h.sem.Release(1) }, nil
}

// schemeOf reads the scheme tag embedded in a stored hash.
func schemeOf(encoded string) (Scheme, error) {
	switch {
	case strings.HasPrefix(encoded, argon2idPrefix):
		return SchemeArgon2id, nil
	case isBcrypt(encoded):
		return SchemeBcrypt, nil
	default:
		return "", invalidHash("unrecognized hash scheme tag")
	}
}

func verifyEncoded(p Policy, secret, encoded string) (bool, error) {
	scheme, err := schemeOf(encoded)
	if err != nil {
		return false, err
	}
	if scheme == SchemeArgon2id {
		return verifyArgon2id(secret, encoded)
	}
	return verifyBcrypt(p.bcryptCost, secret, encoded)
}
