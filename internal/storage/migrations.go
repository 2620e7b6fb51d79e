package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Merchant directory",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				// The global scope is stored as family_id = '' so the unique
				// constraint is not defeated by NULL distinctness.
				`CREATE TABLE IF NOT EXISTS merchant_directory (
					id TEXT PRIMARY KEY,
					scope TEXT NOT NULL CHECK (scope IN ('global', 'family')),
					family_id TEXT NOT NULL DEFAULT '',
					normalized_key TEXT NOT NULL,
					display_name TEXT NOT NULL,
					legal_name TEXT NOT NULL DEFAULT '',
					cnpj TEXT NOT NULL DEFAULT '',
					category_id TEXT NOT NULL DEFAULT '',
					subcategory_id TEXT NOT NULL DEFAULT '',
					confidence_default REAL NOT NULL DEFAULT 0
						CHECK (confidence_default >= 0 AND confidence_default <= 1),
					evidence_summary TEXT NOT NULL DEFAULT '',
					source TEXT NOT NULL,
					detected_platform TEXT NOT NULL DEFAULT '',
					is_intermediary BOOLEAN NOT NULL DEFAULT 0,
					sample_descriptors TEXT NOT NULL DEFAULT '[]',
					match_count INTEGER NOT NULL DEFAULT 0,
					last_matched_at DATETIME,
					created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
					UNIQUE (scope, family_id, normalized_key)
				)`,
				`CREATE INDEX IF NOT EXISTS idx_merchant_directory_key ON merchant_directory(normalized_key)`,
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
		Description: "Index directory by family for listings",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_merchant_directory_family
				ON merchant_directory(scope, family_id, confidence_default)`)
			return err
		},
	},
}

// Migrate applies pending migrations tracked through PRAGMA user_version.
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
