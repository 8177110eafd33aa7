// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package credential

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_WaitingCallerHonoursContext(t *testing.T) {
	policy, err := Probe(ProbeConfig{Preferred: SchemeBcrypt, BcryptCost: bcrypt.MinCost, MaxConcurrency: 1})
	require.NoError(t, err)
	h, err := NewHasher(policy)
	require.NoError(t, err)

	// Occupy the only slot.
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = h.Hash(ctx, "secret123")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSchemeOf(t *testing.T) {
	tests := []struct {
		hash    string
		want    Scheme
		wantErr bool
	}{
		{hash: "$argon2id$v=19$m=1,t=1,p=1$a$b", want: SchemeArgon2id},
		{hash: "$2a$10$abc", want: SchemeBcrypt},
		{hash: "$2b$10$abc", want: SchemeBcrypt},
		{hash: "$2y$10$abc", want: SchemeBcrypt},
		{hash: "$scrypt$abc", wantErr: true},
		{hash: "secret123", wantErr: true},
	}
	for _, tt := range tests {
		got, err := schemeOf(tt.hash)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrValidation, tt.hash)
			continue
		}
		require.NoError(t, err, tt.hash)
		assert.Equal(t, tt.want, got)
	}
}
