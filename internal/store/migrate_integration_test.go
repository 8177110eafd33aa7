// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

//go:build integration

package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/parkspot/parkspot/internal/store"
)

var _ = Describe("Migrator", Ordered, func() {
	var migrator *store.Migrator

	BeforeAll(func() {
		var err error
		migrator, err = store.NewMigrator(connStr)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = migrator.Close() })
	})

	It("starts at version zero", func() {
		version, dirty, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
		Expect(dirty).To(BeFalse())
	})

	It("applies every migration", func() {
		Expect(migrator.Up()).To(Succeed())

		st, err := migrator.Status()
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Pending).To(BeEmpty())
		Expect(st.Current).To(BeNumerically(">=", 2))
		Expect(st.Dirty).To(BeFalse())
	})

	It("is idempotent", func() {
		Expect(migrator.Up()).To(Succeed())
	})

	It("rolls back and reapplies one step", func() {
		before, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())

		Expect(migrator.Steps(-1)).To(Succeed())
		v, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(before - 1))

		Expect(migrator.Steps(1)).To(Succeed())
		v, _, err = migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(before))
	})

	It("rejects identity keys that are not normalized", func() {
		pool, err := store.Open(context.Background(), connStr, store.DefaultConnectOptions())
		Expect(err).NotTo(HaveOccurred())
		defer pool.Close()

		_, err = pool.Exec(context.Background(),
			`INSERT INTO users (id, identity_key, name, secret_hash) VALUES ('x', 'Upper@Test.com', 'n', 'h')`)
		Expect(err).To(HaveOccurred())
	})

	It("drops everything on Down", func() {
		Expect(migrator.Down()).To(Succeed())
		version, _, err := migrator.Version()
		Expect(err).NotTo(HaveOccurred())
		Expect(version).To(BeZero())
	})
})
