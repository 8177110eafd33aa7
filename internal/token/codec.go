// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"

	"github.com/parkspot/parkspot/internal/config"
)

var signingMethod = jwt.SigningMethodHS256

// Codec issues and validates tokens with a single HMAC key.
type Codec struct {
	key        []byte
	defaultTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// NewCodec creates a Codec. An empty secret key is a configuration error.
func NewCodec(cfg Config, opts ...Option) (*Codec, error) {
	if len(cfg.SecretKey) == 0 {
		return nil, oops.Code(config.CodeMissingSecret).
			Wrap(fmt.Errorf("%w: token secret key is required", config.ErrConfiguration))
	}

	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Codec{
		key:        append([]byte(nil), cfg.SecretKey...),
		defaultTTL: ttl,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	return c, nil
}

// DefaultTTL returns the lifetime used when Issue gets ttl <= 0.
func (c *Codec) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Issue signs a token for subject valid for ttl (DefaultTTL when ttl <= 0).
// It returns the token and its expiry, truncated to whole seconds.
func (c *Codec) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, oops.Code(CodeInvalidSubject).Errorf("token subject cannot be empty")
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	now := c.now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.key)
	if err != nil {
		return "", time.Time{}, oops.Code(CodeSignFailed).Wrap(err)
	}
	return signed, expiresAt, nil
}

// Validate checks the signature and expiry of raw and returns its claims.
// Expiry is strict: a token is expired once now >= exp.
func (c *Codec) Validate(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := c.parser.ParseWithClaims(raw, claims, c.keyFunc)
	if err != nil {
		if c.badSignatureSegment(raw, err) {
			err = oops.Code(CodeInvalidSignature).
				Wrap(fmt.Errorf("%w: %s", ErrInvalidSignature, err.Error()))
		} else {
			err = classify(err)
		}
		observeValidation(err)
		return nil, err
	}

	if claims.Subject == "" {
		err := oops.Code(CodeMalformed).
			Wrap(fmt.Errorf("%w: missing sub claim", ErrMalformedToken))
		observeValidation(err)
		return nil, err
	}

	observeValidation(nil)
	return claims, nil
}

func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != signingMethod.Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
	}
	return c.key, nil
}

// badSignatureSegment reports whether a malformed-token error came from the
// signature segment alone, with header and claims decoding cleanly.
func (c *Codec) badSignatureSegment(raw string, err error) bool {
	if !errors.Is(err, jwt.ErrTokenMalformed) {
		return false
	}
	_, _, uerr := c.parser.ParseUnverified(raw, &Claims{})
	return uerr == nil
}

// classify maps jwt parse errors onto the three failure kinds. Signature
// problems are checked first since the library reports them before claims.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return oops.Code(CodeInvalidSignature).
			Wrap(fmt.Errorf("%w: %s", ErrInvalidSignature, err.Error()))
	case errors.Is(err, jwt.ErrTokenExpired):
		return oops.Code(CodeExpired).
			Wrap(fmt.Errorf("%w: %s", ErrExpiredToken, err.Error()))
	default:
		return oops.Code(CodeMalformed).
			Wrap(fmt.Errorf("%w: %s", ErrMalformedToken, err.Error()))
	}
}
