// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package auth

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Credential is the stored record for one account.
type Credential struct {
	ID          ulid.ULID
	IdentityKey string
	SecretHash  string
	Profile     Profile
	IsActive    bool
	CreatedAt   time.Time
}

// Profile holds the non-secret attributes supplied at registration.
type Profile struct {
	Name string
}

// Identity returns the caller-facing view of c.
func (c *Credential) Identity() *Identity {
	return &Identity{
		ID:          c.ID,
		IdentityKey: c.IdentityKey,
		Name:        c.Profile.Name,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

// Identity is an authenticated account. It is built per call and never stored.
type Identity struct {
	ID          ulid.ULID
	IdentityKey string
	Name        string
	IsActive    bool
	CreatedAt   time.Time
}

// IssuedToken is a bearer token handed out by Login.
type IssuedToken struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// RegisterRequest is the input to Service.Register.
type RegisterRequest struct {
	IdentityKey string
	Secret      string
	Name        string
}

// NormalizeIdentityKey trims and lower-cases an identity key. Directories
// store and look up keys in this form.
func NormalizeIdentityKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// UserDirectory persists credentials.
type UserDirectory interface {
	// FindByIdentityKey returns the credential for key, or ErrNotFound.
	FindByIdentityKey(ctx context.Context, key string) (*Credential, error)

	// Insert stores a new credential. It returns ErrDuplicateIdentity when
	// the identity key is already present.
	Insert(ctx context.Context, cred *Credential) error
}

// SecretHasher hashes and verifies secrets. *credential.Hasher satisfies it.
type SecretHasher interface {
	Hash(ctx context.Context, secret string) (string, error)
	Verify(ctx context.Context, secret, encoded string) (bool, error)
}
