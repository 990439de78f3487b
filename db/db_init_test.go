// SPDX-FileCopyrightText: 2025 Humaid Alqasimi
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"errors"
	"os"
	"testing"

	"github.com/humaidq/nutrimark/nutrient"
)

func TestInitRequiresDatabaseURL(t *testing.T) {
	if err := Init(testContext(), ""); !errors.Is(err, ErrDatabaseURLRequired) {
		t.Fatalf("expected ErrDatabaseURLRequired, got %v", err)
	}
}

func TestInitRequiresDatabaseName(t *testing.T) {
	if err := Init(testContext(), "postgres://localhost:1"); err == nil {
		t.Fatalf("expected error for database url without a name")
	}
}

func TestGetPoolAndClose(t *testing.T) {
	if GetPool() == nil {
		t.Fatalf("expected pool to be initialized")
	}

	url := databaseURL

	Close()

	if GetPool() != nil {
		t.Fatalf("expected pool to be cleared")
	}

	if err := SyncSchema(testContext(), nutrient.DefaultTable()); !errors.Is(err, ErrDatabaseConnectionNotInitialized) {
		t.Fatalf("expected ErrDatabaseConnectionNotInitialized, got %v", err)
	}

	if err := initTestPool(testContext(), url, testSchemaName); err != nil {
		t.Fatalf("failed to re-init pool: %v", err)
	}
}

func TestSyncSchemaIsIdempotent(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Fatalf("DATABASE_URL not set")
	}

	if err := SyncSchema(testContext(), nutrient.DefaultTable()); err != nil {
		t.Fatalf("SyncSchema failed: %v", err)
	}
}
