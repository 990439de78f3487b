/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	// Register pgx with database/sql for goose migrations.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/humaidq/nutrimark/nutrient"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// MigrationsDir is the directory of the embedded migrations.
const MigrationsDir = "migrations"

// GetEmbeddedMigrations returns the embedded migrations filesystem for use by CLI commands
func GetEmbeddedMigrations() embed.FS {
	return embedMigrations
}

// OpenMigrationDB opens a database/sql handle for goose and points goose at
// the embedded migrations.
func OpenMigrationDB(url string) (*sql.DB, error) {
	sqlDB, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database for migrations: %w", err)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}

	return sqlDB, nil
}

// SyncSchema applies pending migrations and then syncs the nutrient catalog
// with table.
func SyncSchema(ctx context.Context, table *nutrient.Table) error {
	if pool == nil {
		return ErrDatabaseConnectionNotInitialized
	}

	if err := migrateUp(ctx, databaseURL); err != nil {
		return err
	}

	if err := SyncNutrientCatalog(ctx, table); err != nil {
		return fmt.Errorf("failed to sync nutrient catalog: %w", err)
	}

	return nil
}

func migrateUp(ctx context.Context, url string) error {
	sqlDB, err := OpenMigrationDB(url)
	if err != nil {
		return err
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close migration connection", "error", err)
		}
	}()

	if err := goose.UpContext(ctx, sqlDB, MigrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
