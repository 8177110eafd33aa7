// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

// Package postgres implements auth.UserDirectory on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/parkspot/parkspot/internal/auth"
	"github.com/parkspot/parkspot/internal/store"
)

// Directory implements auth.UserDirectory using the users table.
type Directory struct {
	pool store.Pool
}

// NewDirectory creates a Directory.
func NewDirectory(pool store.Pool) *Directory {
	return &Directory{pool: pool}
}

const selectByIdentityKey = `
	SELECT id, identity_key, name, secret_hash, is_active, created_at
	FROM users
	WHERE identity_key = $1
`

// FindByIdentityKey returns the credential for key, or auth.ErrNotFound.
func (d *Directory) FindByIdentityKey(ctx context.Context, key string) (*auth.Credential, error) {
	key = auth.NormalizeIdentityKey(key)

	var (
		id        string
		cred      auth.Credential
		createdAt time.Time
	)
	err := d.pool.QueryRow(ctx, selectByIdentityKey, key).Scan(
		&id,
		&cred.IdentityKey,
		&cred.Profile.Name,
		&cred.SecretHash,
		&cred.IsActive,
		&createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("identity_key", key).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_QUERY_FAILED").
			With("operation", "find by identity key").
			Wrap(err)
	}

	cred.ID, err = ulid.Parse(id)
	if err != nil {
		return nil, oops.Code("USER_QUERY_FAILED").
			With("operation", "parse user id").
			With("id", id).
			Wrap(err)
	}
	cred.CreatedAt = createdAt.UTC()
	return &cred, nil
}

// Insert stores cred. A unique violation on identity_key is
// auth.ErrDuplicateIdentity.
func (d *Directory) Insert(ctx context.Context, cred *auth.Credential) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO users (id, identity_key, name, secret_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		cred.ID.String(),
		auth.NormalizeIdentityKey(cred.IdentityKey),
		cred.Profile.Name,
		cred.SecretHash,
		cred.IsActive,
		cred.CreatedAt,
	)
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return oops.Code("USER_DUPLICATE").
			With("identity_key", cred.IdentityKey).
			With("constraint", pgErr.ConstraintName).
			Wrap(auth.ErrDuplicateIdentity)
	}
	return oops.Code("USER_INSERT_FAILED").
		With("operation", "insert user").
		Wrap(err)
}
