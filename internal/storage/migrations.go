package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT NOT NULL,
					country TEXT NOT NULL,
					label TEXT NOT NULL,
					scope TEXT NOT NULL,
					unit TEXT NOT NULL,
					factor_kg_co2e REAL NOT NULL,
					source TEXT,
					description TEXT,
					keywords TEXT,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (id, country)
				)`,

				`CREATE TABLE IF NOT EXISTS classification_rules (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					keyword TEXT NOT NULL UNIQUE,
					category TEXT NOT NULL,
					scope TEXT NOT NULL,
					confidence REAL NOT NULL DEFAULT 0,
					country TEXT NOT NULL DEFAULT 'ALL',
					supplier_name TEXT,
					min_amount REAL,
					max_amount REAL,
					is_learned INTEGER NOT NULL DEFAULT 0,
					usage_count INTEGER NOT NULL DEFAULT 0,
					last_used_at DATETIME
				)`,

				`CREATE TABLE IF NOT EXISTS corrections (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					organization_id TEXT NOT NULL,
					transaction_label TEXT NOT NULL,
					suggested_category TEXT,
					corrected_category TEXT NOT NULL,
					amount REAL NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS entries (
					id TEXT PRIMARY KEY,
					organization_id TEXT NOT NULL,
					date DATETIME NOT NULL,
					transaction_label TEXT NOT NULL,
					supplier_name TEXT,
					category TEXT,
					scope TEXT,
					amount REAL NOT NULL,
					original_amount REAL NOT NULL,
					original_currency TEXT,
					exchange_rate REAL NOT NULL DEFAULT 1,
					unit TEXT,
					factor_kg_co2e REAL NOT NULL DEFAULT 0,
					factor_source TEXT,
					kg_co2e REAL NOT NULL DEFAULT 0,
					carbon_intensity REAL NOT NULL DEFAULT 0,
					confidence REAL NOT NULL DEFAULT 0,
					provenance TEXT,
					note TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS exchange_rates (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					from_currency TEXT NOT NULL,
					to_currency TEXT NOT NULL,
					rate REAL NOT NULL,
					rate_date DATETIME NOT NULL,
					source TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS organizations (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					sector TEXT NOT NULL,
					country TEXT NOT NULL,
					currency TEXT NOT NULL,
					employees INTEGER NOT NULL DEFAULT 0,
					annual_revenue REAL NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS reports (
					id TEXT PRIMARY KEY,
					organization_id TEXT NOT NULL,
					period_start DATETIME NOT NULL,
					period_end DATETIME NOT NULL,
					generated_at DATETIME NOT NULL,
					status TEXT NOT NULL,
					total_kg_co2e REAL NOT NULL DEFAULT 0,
					scope1_kg REAL NOT NULL DEFAULT 0,
					scope2_kg REAL NOT NULL DEFAULT 0,
					scope3_kg REAL NOT NULL DEFAULT 0,
					total_spending REAL NOT NULL DEFAULT 0,
					carbon_intensity REAL NOT NULL DEFAULT 0,
					avg_ratio_by_scope TEXT,
					top_categories TEXT,
					top_suppliers TEXT,
					reduction_plan TEXT,
					FOREIGN KEY (organization_id) REFERENCES organizations(id)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add lookup indexes",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_entries_org_date ON entries(organization_id, date)`,
				`CREATE INDEX IF NOT EXISTS idx_entries_confidence ON entries(organization_id, confidence)`,
				`CREATE INDEX IF NOT EXISTS idx_corrections_org ON corrections(organization_id, created_at)`,
				`CREATE INDEX IF NOT EXISTS idx_rates_pair_date ON exchange_rates(from_currency, to_currency, rate_date)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index reports by organization for latest-report lookups",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_reports_org_generated ON reports(organization_id, generated_at)`)
			return err
		},
	},
}

// Migrate applies all pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
