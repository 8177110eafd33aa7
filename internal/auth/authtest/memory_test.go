// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package authtest_test

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkspot/parkspot/internal/auth"
	"github.com/parkspot/parkspot/internal/auth/authtest"
)

var _ auth.UserDirectory = (*authtest.MemoryDirectory)(nil)
var _ auth.UserDirectory = (*authtest.MockUserDirectory)(nil)

func TestMemoryDirectory(t *testing.T) {
	ctx := context.Background()
	dir := authtest.NewMemoryDirectory()

	_, err := dir.FindByIdentityKey(ctx, "a@test.com")
	assert.ErrorIs(t, err, auth.ErrNotFound)

	cred := &auth.Credential{ID: ulid.Make(), IdentityKey: "a@test.com", SecretHash: "h"}
	require.NoError(t, dir.Insert(ctx, cred))
	assert.ErrorIs(t, dir.Insert(ctx, &auth.Credential{ID: ulid.Make(), IdentityKey: "A@Test.com"}), auth.ErrDuplicateIdentity)
	assert.Equal(t, 1, dir.Len())

	got, err := dir.FindByIdentityKey(ctx, "a@test.com")
	require.NoError(t, err)
	assert.Equal(t, cred.ID, got.ID)

	got.SecretHash = "mutated"
	again, err := dir.FindByIdentityKey(ctx, "a@test.com")
	require.NoError(t, err)
	assert.Equal(t, "h", again.SecretHash, "returned credentials must be copies")

	dir.Delete("a@test.com")
	_, err = dir.FindByIdentityKey(ctx, "a@test.com")
	assert.ErrorIs(t, err, auth.ErrNotFound)
}
