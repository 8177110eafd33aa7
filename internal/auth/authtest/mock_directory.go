// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package authtest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/parkspot/parkspot/internal/auth"
)

// MockUserDirectory is a testify mock of auth.UserDirectory.
type MockUserDirectory struct {
	mock.Mock
}

// NewMockUserDirectory creates a mock that asserts its expectations when t
// finishes.
func NewMockUserDirectory(t interface {
	mock.TestingT
	Cleanup(func())
},
) *MockUserDirectory {
	m := &MockUserDirectory{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// FindByIdentityKey implements auth.UserDirectory.
func (m *MockUserDirectory) FindByIdentityKey(ctx context.Context, key string) (*auth.Credential, error) {
	args := m.Called(ctx, key)
	var cred *auth.Credential
	if v := args.Get(0); v != nil {
		cred = v.(*auth.Credential)
	}
	return cred, args.Error(1)
}

// Insert implements auth.UserDirectory.
func (m *MockUserDirectory) Insert(ctx context.Context, cred *auth.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}
