// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package credential

import (
	"fmt"
	"runtime"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"

	"github.com/parkspot/parkspot/internal/config"
)

// Scheme identifies a password hashing scheme.
type Scheme string

// Supported schemes. SchemeAuto is only valid as a probe preference.
const (
	SchemeAuto     Scheme = "auto"
	SchemeArgon2id Scheme = "argon2id"
	SchemeBcrypt   Scheme = "bcrypt"
)

// MaxBcryptSecretBytes is the bcrypt input limit. Longer secrets are rejected.
const MaxBcryptSecretBytes = 72

// Argon2idParams controls Argon2id hashing cost.
// MemoryKiB is in KiB as required by argon2.IDKey.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2idParams returns the OWASP-recommended baseline.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		MemoryKiB:   64 * 1024,
		Iterations:  1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// ProbeConfig is the input to Probe.
type ProbeConfig struct {
	// Preferred is auto, argon2id, or bcrypt. Auto tries argon2id first.
	Preferred Scheme
	Argon2id  Argon2idParams
	// BcryptCost must be within [bcrypt.MinCost, bcrypt.MaxCost].
	BcryptCost int
	// MaxConcurrency bounds concurrent hash/verify calls. Zero means NumCPU.
	MaxConcurrency int
}

// DefaultProbeConfig returns auto selection with default costs.
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{
		Preferred:  SchemeAuto,
		Argon2id:   DefaultArgon2idParams(),
		BcryptCost: 12,
	}
}

// Policy is the process-wide hashing policy. It is immutable; the only way to
// obtain a usable one is Probe.
type Policy struct {
	scheme         Scheme
	argon2id       Argon2idParams
	bcryptCost     int
	maxConcurrency int
	fallback       string
}

// Scheme returns the scheme used for new hashes.
func (p Policy) Scheme() Scheme { return p.scheme }

// Argon2id returns the Argon2id parameters.
func (p Policy) Argon2id() Argon2idParams { return p.argon2id }

// BcryptCost returns the bcrypt cost factor.
func (p Policy) BcryptCost() int { return p.bcryptCost }

// MaxConcurrency returns the bound on concurrent hash/verify calls.
func (p Policy) MaxConcurrency() int { return p.maxConcurrency }

// Fallback describes why the preferred scheme was skipped, or "" if it was not.
func (p Policy) Fallback() string { return p.fallback }

// IsZero reports whether p was not produced by Probe.
func (p Policy) IsZero() bool { return p.scheme == "" }

// MaxSecretBytes returns the input limit of the active scheme, 0 for none.
func (p Policy) MaxSecretBytes() int {
	if p.scheme == SchemeBcrypt {
		return MaxBcryptSecretBytes
	}
	return 0
}

const (
	probeSecret   = "parkspot-probe-secret"
	probeMismatch = "parkspot-probe-mismatch"
)

// Probe selects the hashing scheme for this process. Each candidate is
// checked by hashing a fixed probe secret and verifying it, with panics from
// the backend treated as "unusable". The first candidate that passes wins.
func Probe(cfg ProbeConfig) (Policy, error) {
	candidates, err := candidatesFor(cfg.Preferred)
	if err != nil {
		return Policy{}, err
	}

	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	var skipped []string
	for _, scheme := range candidates {
		p := Policy{
			scheme:         scheme,
			argon2id:       cfg.Argon2id,
			bcryptCost:     cfg.BcryptCost,
			maxConcurrency: concurrency,
		}
		if err := selfTest(p); err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", scheme, err))
			continue
		}
		if len(skipped) > 0 {
			p.fallback = skipped[0]
		}
		return p, nil
	}

	return Policy{}, oops.Code(config.CodeNoHashBackend).
		With("preferred", string(cfg.Preferred)).
		With("skipped", skipped).
		Wrap(fmt.Errorf("%w: no usable password hashing backend", config.ErrConfiguration))
}

func candidatesFor(preferred Scheme) ([]Scheme, error) {
	switch preferred {
	case "", SchemeAuto:
		return []Scheme{SchemeArgon2id, SchemeBcrypt}, nil
	case SchemeArgon2id, SchemeBcrypt:
		return []Scheme{preferred}, nil
	default:
		return nil, oops.Code(config.CodeInvalid).
			With("scheme", string(preferred)).
			Wrap(fmt.Errorf("%w: unknown hashing scheme %q", config.ErrConfiguration, preferred))
	}
}

// selfTest runs one hash and two verifies under p.
func selfTest(p Policy) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panicked: %v", r)
		}
	}()

	if err := checkParams(p); err != nil {
		return err
	}

	var encoded string
	switch p.scheme {
	case SchemeArgon2id:
		encoded, err = hashArgon2id(p.argon2id, probeSecret)
	case SchemeBcrypt:
		encoded, err = hashBcrypt(p.bcryptCost, probeSecret)
	}
	if err != nil {
		return err
	}

	ok, err := verifyEncoded(p, probeSecret, encoded)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("probe secret did not verify")
	}
	ok, err = verifyEncoded(p, probeMismatch, encoded)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("mismatched probe secret verified")
	}
	return nil
}

func checkParams(p Policy) error {
	switch p.scheme {
	case SchemeArgon2id:
		a := p.argon2id
		if a.Iterations == 0 || a.Parallelism == 0 {
			return fmt.Errorf("iterations and parallelism must be positive")
		}
		if a.MemoryKiB < 8*uint32(a.Parallelism) {
			return fmt.Errorf("memory %d KiB below 8*parallelism", a.MemoryKiB)
		}
		if a.SaltLength < 8 || a.SaltLength > 64 {
			return fmt.Errorf("salt length %d out of range [8..64]", a.SaltLength)
		}
		if a.KeyLength < 16 || a.KeyLength > 128 {
			return fmt.Errorf("key length %d out of range [16..128]", a.KeyLength)
		}
	case SchemeBcrypt:
		if p.bcryptCost < bcrypt.MinCost || p.bcryptCost > bcrypt.MaxCost {
			return fmt.Errorf("bcrypt cost %d out of range [%d..%d]", p.bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	}
	return nil
}
