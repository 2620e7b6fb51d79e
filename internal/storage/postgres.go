package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Veraticus/spice-merchant/internal/common"
	"github.com/Veraticus/spice-merchant/internal/model"
	"github.com/Veraticus/spice-merchant/internal/service"
)

// PostgresDirectory implements service.DirectoryAdmin using PostgreSQL.
// Concurrent writers are serialized by ON CONFLICT on the natural key.
type PostgresDirectory struct {
	db *sql.DB
}

var _ service.DirectoryAdmin = (*PostgresDirectory)(nil)

// NewPostgresDirectory wraps an open database handle.
func NewPostgresDirectory(db *sql.DB) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// OpenPostgres connects to the database at url.
func OpenPostgres(url string) (*PostgresDirectory, error) {
	if err := validateString(url, "url"); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewPostgresDirectory(db), nil
}

// Close closes the database connection.
func (p *PostgresDirectory) Close() error {
	return p.db.Close()
}

// Migrate creates the directory table when missing.
func (p *PostgresDirectory) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	queries := []string{
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
			confidence_default DOUBLE PRECISION NOT NULL DEFAULT 0
				CHECK (confidence_default >= 0 AND confidence_default <= 1),
			evidence_summary TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			detected_platform TEXT NOT NULL DEFAULT '',
			is_intermediary BOOLEAN NOT NULL DEFAULT FALSE,
			sample_descriptors TEXT[] NOT NULL DEFAULT '{}',
			match_count INTEGER NOT NULL DEFAULT 0,
			last_matched_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (scope, family_id, normalized_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_merchant_directory_key ON merchant_directory(normalized_key)`,
		`CREATE INDEX IF NOT EXISTS idx_merchant_directory_family ON merchant_directory(scope, family_id, confidence_default)`,
	}

	for _, query := range queries {
		if _, err := p.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to migrate postgres directory: %w", err)
		}
	}

	slog.Info("Postgres directory schema ready")
	return nil
}

// FindByKeys returns entries matching any of keys that are visible to familyID.
func (p *PostgresDirectory) FindByKeys(ctx context.Context, keys []string, familyID string) ([]model.MerchantEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	return p.queryEntries(ctx, `SELECT `+entryColumns+`
		FROM merchant_directory
		WHERE normalized_key = ANY($1)
		  AND (scope = 'global' OR (scope = 'family' AND family_id = $2))
		ORDER BY confidence_default DESC,
			CASE scope WHEN 'family' THEN 0 ELSE 1 END,
			updated_at DESC`,
		pq.Array(keys), familyID)
}

// UpsertByNaturalKey inserts or updates the entry identified by its scope and key.
// A USER_CONFIRMED row is only overwritten by another USER_CONFIRMED write.
func (p *PostgresDirectory) UpsertByNaturalKey(ctx context.Context, entry *model.MerchantEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	// The entry is only touched once the write is known to have happened.
	now := time.Now().UTC()
	newID := entry.ID
	if newID == "" {
		newID = uuid.NewString()
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	samples := entry.SampleDescriptors
	if samples == nil {
		samples = []string{}
	}

	var id string
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO merchant_directory (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (scope, family_id, normalized_key) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			legal_name = EXCLUDED.legal_name,
			cnpj = EXCLUDED.cnpj,
			category_id = EXCLUDED.category_id,
			subcategory_id = EXCLUDED.subcategory_id,
			confidence_default = EXCLUDED.confidence_default,
			evidence_summary = EXCLUDED.evidence_summary,
			source = EXCLUDED.source,
			detected_platform = EXCLUDED.detected_platform,
			is_intermediary = EXCLUDED.is_intermediary,
			sample_descriptors = EXCLUDED.sample_descriptors,
			match_count = EXCLUDED.match_count,
			last_matched_at = EXCLUDED.last_matched_at,
			updated_at = EXCLUDED.updated_at
		WHERE merchant_directory.source <> 'USER_CONFIRMED'
		   OR EXCLUDED.source = 'USER_CONFIRMED'
		RETURNING id
	`,
		newID,
		string(entry.Scope.Kind()),
		entry.Scope.FamilyID(),
		entry.NormalizedKey,
		entry.DisplayName,
		entry.LegalName,
		entry.CNPJ,
		entry.CategoryID,
		entry.SubcategoryID,
		entry.ConfidenceDefault,
		entry.EvidenceSummary,
		string(entry.Source),
		entry.DetectedPlatform,
		entry.IsIntermediary,
		pq.Array(samples),
		entry.MatchCount,
		nullTime(entry.LastMatchedAt),
		createdAt,
		now,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to upsert merchant entry: %w", err)
	}

	entry.ID = id
	entry.CreatedAt = createdAt
	entry.UpdatedAt = now
	return nil
}

// RecordMatch increments the match counter of an entry and remembers the descriptor.
func (p *PostgresDirectory) RecordMatch(ctx context.Context, scope model.Scope, normalizedKey, descriptor string, at time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(normalizedKey, "normalizedKey"); err != nil {
		return err
	}

	result, err := p.db.ExecContext(ctx, `
		UPDATE merchant_directory
		SET match_count = match_count + 1,
		    last_matched_at = $1,
		    sample_descriptors = CASE
				WHEN $2::text = '' OR $2::text = ANY(sample_descriptors)
				  OR cardinality(sample_descriptors) >= $3
				THEN sample_descriptors
				ELSE array_append(sample_descriptors, $2::text)
			END
		WHERE scope = $4 AND family_id = $5 AND normalized_key = $6
	`, at.UTC(), descriptor, MaxSampleDescriptors, string(scope.Kind()), scope.FamilyID(), normalizedKey)
	if err != nil {
		return fmt.Errorf("failed to record match: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// GetEntry retrieves a single entry by its natural key.
func (p *PostgresDirectory) GetEntry(ctx context.Context, scope model.Scope, normalizedKey string) (*model.MerchantEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(normalizedKey, "normalizedKey"); err != nil {
		return nil, err
	}

	row := p.db.QueryRowContext(ctx, `SELECT `+entryColumns+`
		FROM merchant_directory
		WHERE scope = $1 AND family_id = $2 AND normalized_key = $3`,
		string(scope.Kind()), scope.FamilyID(), normalizedKey)

	entry, err := scanPostgresEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant entry: %w", err)
	}
	return entry, nil
}

// ListEntries lists directory entries, most confident first.
func (p *PostgresDirectory) ListEntries(ctx context.Context, filter service.EntryFilter) ([]model.MerchantEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + entryColumns + ` FROM merchant_directory`
	var args []any
	switch {
	case filter.GlobalOnly:
		query += ` WHERE scope = 'global'`
	case filter.FamilyID != "":
		args = append(args, filter.FamilyID)
		query += fmt.Sprintf(` WHERE scope = 'family' AND family_id = $%d`, len(args))
	}
	query += ` ORDER BY confidence_default DESC, normalized_key`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
		if filter.Offset > 0 {
			args = append(args, filter.Offset)
			query += fmt.Sprintf(` OFFSET $%d`, len(args))
		}
	}

	return p.queryEntries(ctx, query, args...)
}

// DeleteEntry removes an entry by its natural key.
func (p *PostgresDirectory) DeleteEntry(ctx context.Context, scope model.Scope, normalizedKey string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(normalizedKey, "normalizedKey"); err != nil {
		return err
	}

	result, err := p.db.ExecContext(ctx,
		`DELETE FROM merchant_directory WHERE scope = $1 AND family_id = $2 AND normalized_key = $3`,
		string(scope.Kind()), scope.FamilyID(), normalizedKey)
	if err != nil {
		return fmt.Errorf("failed to delete merchant entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (p *PostgresDirectory) queryEntries(ctx context.Context, query string, args ...any) ([]model.MerchantEntry, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.MerchantEntry
	for rows.Next() {
		entry, scanErr := scanPostgresEntry(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan merchant entry: %w", scanErr)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate merchant entries: %w", err)
	}
	return entries, nil
}

func scanPostgresEntry(row rowScanner) (*model.MerchantEntry, error) {
	var (
		entry         model.MerchantEntry
		kind          string
		familyID      string
		source        string
		samples       pq.StringArray
		lastMatchedAt sql.NullTime
	)

	err := row.Scan(
		&entry.ID,
		&kind,
		&familyID,
		&entry.NormalizedKey,
		&entry.DisplayName,
		&entry.LegalName,
		&entry.CNPJ,
		&entry.CategoryID,
		&entry.SubcategoryID,
		&entry.ConfidenceDefault,
		&entry.EvidenceSummary,
		&source,
		&entry.DetectedPlatform,
		&entry.IsIntermediary,
		&samples,
		&entry.MatchCount,
		&lastMatchedAt,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Scope = model.ScopeFromStorage(model.ScopeKind(kind), familyID)
	entry.Source = model.EntrySource(source)
	entry.SampleDescriptors = []string(samples)
	if lastMatchedAt.Valid {
		entry.LastMatchedAt = lastMatchedAt.Time
	}
	return &entry, nil
}
