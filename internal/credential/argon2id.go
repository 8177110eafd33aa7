// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
)

const argon2idPrefix = "$argon2id$"

// hashArgon2id produces
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>
func hashArgon2id(params Argon2idParams, secret string) (string, error) {
	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code(CodeHashFailed).With("operation", "generate salt").Wrap(err)
	}

	key := argon2.IDKey([]byte(secret), salt, params.Iterations, params.MemoryKiB, params.Parallelism, params.KeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		params.MemoryKiB,
		params.Iterations,
		params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Ceilings on stored argon2id parameters. They do not follow the active
// policy, so lowering the configured cost never orphans existing hashes.
const (
	maxStoredArgon2MemoryKiB   = 1024 * 1024
	maxStoredArgon2Iterations  = 32
	maxStoredArgon2Parallelism = 64
)

// verifyArgon2id recomputes the key with the stored parameters. Stored
// parameters above the fixed ceilings are refused so a planted hash cannot
// make verification arbitrarily expensive.
func verifyArgon2id(secret, encoded string) (bool, error) {
	params, salt, expected, err := decodeArgon2id(encoded)
	if err != nil {
		return false, err
	}

	if params.MemoryKiB > maxStoredArgon2MemoryKiB ||
		params.Iterations > maxStoredArgon2Iterations ||
		params.Parallelism > maxStoredArgon2Parallelism {
		return false, invalidHash("argon2id parameters exceed verification bounds")
	}

	computed := argon2.IDKey([]byte(secret), salt, params.Iterations, params.MemoryKiB, params.Parallelism, params.KeyLength)

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

func decodeArgon2id(encoded string) (Argon2idParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2idParams{}, nil, nil, invalidHash("invalid argon2id hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Argon2idParams{}, nil, nil, invalidHash("invalid argon2id version field")
	}
	if version != argon2.Version {
		return Argon2idParams{}, nil, nil, invalidHash(fmt.Sprintf("unsupported argon2id version %d", version))
	}

	var memory, iterations, parallelism uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return Argon2idParams{}, nil, nil, invalidHash("invalid argon2id parameters")
	}
	if memory == 0 || iterations == 0 || parallelism == 0 {
		return Argon2idParams{}, nil, nil, invalidHash("argon2id parameters must be positive")
	}
	if parallelism > 255 {
		return Argon2idParams{}, nil, nil, invalidHash(fmt.Sprintf("threads value %d exceeds uint8 max", parallelism))
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2idParams{}, nil, nil, invalidHash("invalid argon2id salt encoding")
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return Argon2idParams{}, nil, nil, invalidHash("invalid argon2id key encoding")
	}
	if len(salt) < 8 || len(salt) > 64 || len(key) < 16 || len(key) > 128 {
		return Argon2idParams{}, nil, nil, invalidHash("argon2id salt or key length out of range")
	}

	return Argon2idParams{
		MemoryKiB:   memory,
		Iterations:  iterations,
		Parallelism: uint8(parallelism),
		SaltLength:  uint32(len(salt)), // #nosec G115 -- bounded above
		KeyLength:   uint32(len(key)),  // #nosec G115 -- bounded above
	}, salt, key, nil
}

func invalidHash(reason string) error {
	return oops.Code(CodeInvalidHash).
		Wrap(fmt.Errorf("%w: %s", ErrValidation, reason))
}
