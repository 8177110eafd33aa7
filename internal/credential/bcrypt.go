// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package credential

import (
	"errors"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt hashes carry one of these version tags.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// bcryptCostHeadroom is how far above the policy cost a stored hash may be.
const bcryptCostHeadroom = 2

func isBcrypt(encoded string) bool {
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(encoded, prefix) {
			return true
		}
	}
	return false
}

// hashBcrypt expects the caller to have enforced MaxBcryptSecretBytes.
func hashBcrypt(cost int, secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", oops.Code(CodeHashFailed).With("operation", "bcrypt generate").Wrap(err)
	}
	return string(hash), nil
}

// verifyBcrypt never hands bcrypt a secret longer than its input limit:
// such a secret cannot have produced a bcrypt hash, and bcrypt would
// otherwise compare only its first 72 bytes.
func verifyBcrypt(policyCost int, secret, encoded string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encoded))
	if err != nil {
		return false, invalidHash("invalid bcrypt hash: " + err.Error())
	}
	if cost > policyCost+bcryptCostHeadroom && cost > bcrypt.DefaultCost+bcryptCostHeadroom {
		return false, invalidHash("bcrypt cost exceeds policy bounds")
	}
	if len(secret) > MaxBcryptSecretBytes {
		return false, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(encoded), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, invalidHash("invalid bcrypt hash: " + err.Error())
	}
}
