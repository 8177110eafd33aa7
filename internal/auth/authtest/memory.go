// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

// Package authtest provides UserDirectory implementations for tests.
package authtest

import (
	"context"
	"sync"

	"github.com/parkspot/parkspot/internal/auth"
)

// MemoryDirectory is an in-memory auth.UserDirectory.
type MemoryDirectory struct {
	mu    sync.RWMutex
	byKey map[string]auth.Credential
}

// NewMemoryDirectory creates an empty MemoryDirectory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{byKey: make(map[string]auth.Credential)}
}

// FindByIdentityKey implements auth.UserDirectory.
func (d *MemoryDirectory) FindByIdentityKey(_ context.Context, key string) (*auth.Credential, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	cred, ok := d.byKey[auth.NormalizeIdentityKey(key)]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return &cred, nil
}

// Insert implements auth.UserDirectory.
func (d *MemoryDirectory) Insert(_ context.Context, cred *auth.Credential) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := auth.NormalizeIdentityKey(cred.IdentityKey)
	if _, exists := d.byKey[key]; exists {
		return auth.ErrDuplicateIdentity
	}
	d.byKey[key] = *cred
	return nil
}

// Delete removes key, simulating an account removed after a token was issued.
func (d *MemoryDirectory) Delete(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.byKey, auth.NormalizeIdentityKey(key))
}

// Len returns the number of stored credentials.
func (d *MemoryDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byKey)
}
