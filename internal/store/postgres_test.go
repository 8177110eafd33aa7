// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkspot/parkspot/pkg/errutil"
)

func fastConnectOptions(retries uint64) ConnectOptions {
	return ConnectOptions{MaxRetries: retries, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestWaitForDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds on first ping", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectPing()

		require.NoError(t, waitForDatabase(ctx, mock, fastConnectOptions(3)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries until the database answers", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		mock.ExpectPing()

		require.NoError(t, waitForDatabase(ctx, mock, fastConnectOptions(3)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		for range 3 {
			mock.ExpectPing().WillReturnError(errors.New("connection refused"))
		}

		err = waitForDatabase(ctx, mock, fastConnectOptions(2))
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "STORE_CONNECT_FAILED")
		errutil.AssertErrorContext(t, err, "attempts", 3)
		assert.Contains(t, err.Error(), "connection refused")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err = waitForDatabase(cctx, mock, ConnectOptions{MaxRetries: 100, BaseDelay: time.Hour})
		require.Error(t, err)
	})
}

func TestOpen_InvalidURL(t *testing.T) {
	_, err := Open(context.Background(), "://not a url", fastConnectOptions(0))
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "STORE_INVALID_URL")
}
