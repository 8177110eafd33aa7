// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime used when neither the caller nor the
// Config sets one.
const DefaultTTL = 7 * 24 * time.Hour

// Config configures a Codec.
type Config struct {
	// SecretKey is the HS256 signing key. Required.
	SecretKey []byte
	// DefaultTTL applies when Issue is called with ttl <= 0.
	DefaultTTL time.Duration
}

// Claims is the token payload.
type Claims struct {
	jwt.RegisteredClaims
}

// Expiry returns the exp claim, or the zero time if absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock sets the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}
