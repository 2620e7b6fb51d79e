package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/spice-merchant/internal/common"
	"github.com/Veraticus/spice-merchant/internal/model"
	"github.com/Veraticus/spice-merchant/internal/service"
)

// MaxSampleDescriptors caps how many raw descriptors an entry remembers.
const MaxSampleDescriptors = 5

const entryColumns = `id, scope, family_id, normalized_key, display_name, legal_name, cnpj,
	category_id, subcategory_id, confidence_default, evidence_summary, source,
	detected_platform, is_intermediary, sample_descriptors, match_count,
	last_matched_at, created_at, updated_at`

// Compile-time interface check.
var _ service.DirectoryAdmin = (*SQLiteStorage)(nil)

type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

// FindByKeys returns entries matching any of keys that are visible to familyID.
func (s *SQLiteStorage) FindByKeys(ctx context.Context, keys []string, familyID string) ([]model.MerchantEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(keys))
	args := make([]any, 0, len(keys)+1)
	for i, key := range keys {
		placeholders[i] = "?"
		args = append(args, key)
	}
	args = append(args, familyID)

	query := `SELECT ` + entryColumns + `
		FROM merchant_directory
		WHERE normalized_key IN (` + strings.Join(placeholders, ", ") + `)
		  AND (scope = 'global' OR (scope = 'family' AND family_id = ?))
		ORDER BY confidence_default DESC,
			CASE scope WHEN 'family' THEN 0 ELSE 1 END,
			updated_at DESC`

	return s.queryEntries(ctx, s.db, query, args...)
}

// UpsertByNaturalKey inserts or updates the entry identified by its scope and key.
// A USER_CONFIRMED row is only overwritten by another USER_CONFIRMED write.
func (s *SQLiteStorage) UpsertByNaturalKey(ctx context.Context, entry *model.MerchantEntry) error {
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

	samples, err := encodeSamples(entry.SampleDescriptors)
	if err != nil {
		return err
	}

	var id string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO merchant_directory (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(scope, family_id, normalized_key) DO UPDATE SET
			display_name = excluded.display_name,
			legal_name = excluded.legal_name,
			cnpj = excluded.cnpj,
			category_id = excluded.category_id,
			subcategory_id = excluded.subcategory_id,
			confidence_default = excluded.confidence_default,
			evidence_summary = excluded.evidence_summary,
			source = excluded.source,
			detected_platform = excluded.detected_platform,
			is_intermediary = excluded.is_intermediary,
			sample_descriptors = excluded.sample_descriptors,
			match_count = excluded.match_count,
			last_matched_at = excluded.last_matched_at,
			updated_at = excluded.updated_at
		WHERE merchant_directory.source <> 'USER_CONFIRMED'
		   OR excluded.source = 'USER_CONFIRMED'
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
		samples,
		entry.MatchCount,
		nullTime(entry.LastMatchedAt),
		createdAt,
		now,
	).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		// Conflict with a confirmed row; the automatic write is dropped.
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
func (s *SQLiteStorage) RecordMatch(ctx context.Context, scope model.Scope, normalizedKey, descriptor string, at time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(normalizedKey, "normalizedKey"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var raw string
		err := tx.QueryRowContext(ctx, `
			SELECT sample_descriptors FROM merchant_directory
			WHERE scope = ? AND family_id = ? AND normalized_key = ?
		`, string(scope.Kind()), scope.FamilyID(), normalizedKey).Scan(&raw)
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load merchant entry: %w", err)
		}

		samples, err := decodeSamples(raw)
		if err != nil {
			return err
		}
		encoded, err := encodeSamples(appendSample(samples, descriptor))
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE merchant_directory
			SET match_count = match_count + 1,
			    last_matched_at = ?,
			    sample_descriptors = ?
			WHERE scope = ? AND family_id = ? AND normalized_key = ?
		`, at.UTC(), encoded, string(scope.Kind()), scope.FamilyID(), normalizedKey)
		if err != nil {
			return fmt.Errorf("failed to record match: %w", err)
		}
		return nil
	})
}

// GetEntry retrieves a single entry by its natural key.
func (s *SQLiteStorage) GetEntry(ctx context.Context, scope model.Scope, normalizedKey string) (*model.MerchantEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(normalizedKey, "normalizedKey"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+`
		FROM merchant_directory
		WHERE scope = ? AND family_id = ? AND normalized_key = ?`,
		string(scope.Kind()), scope.FamilyID(), normalizedKey)

	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant entry: %w", err)
	}
	return entry, nil
}

// ListEntries lists directory entries, most confident first.
func (s *SQLiteStorage) ListEntries(ctx context.Context, filter service.EntryFilter) ([]model.MerchantEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + entryColumns + ` FROM merchant_directory`
	var args []any
	switch {
	case filter.GlobalOnly:
		query += ` WHERE scope = 'global'`
	case filter.FamilyID != "":
		query += ` WHERE scope = 'family' AND family_id = ?`
		args = append(args, filter.FamilyID)
	}
	query += ` ORDER BY confidence_default DESC, normalized_key`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	return s.queryEntries(ctx, s.db, query, args...)
}

// DeleteEntry removes an entry by its natural key.
func (s *SQLiteStorage) DeleteEntry(ctx context.Context, scope model.Scope, normalizedKey string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(normalizedKey, "normalizedKey"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM merchant_directory
		WHERE scope = ? AND family_id = ? AND normalized_key = ?
	`, string(scope.Kind()), scope.FamilyID(), normalizedKey)
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

func (s *SQLiteStorage) queryEntries(ctx context.Context, q queryable, query string, args ...any) ([]model.MerchantEntry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.MerchantEntry
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
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

func scanEntry(row rowScanner) (*model.MerchantEntry, error) {
	var (
		entry         model.MerchantEntry
		kind          string
		familyID      string
		source        string
		samples       string
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
	if lastMatchedAt.Valid {
		entry.LastMatchedAt = lastMatchedAt.Time
	}
	entry.SampleDescriptors, err = decodeSamples(samples)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func encodeSamples(samples []string) (string, error) {
	if samples == nil {
		samples = []string{}
	}
	data, err := json.Marshal(samples)
	if err != nil {
		return "", fmt.Errorf("failed to marshal sample descriptors: %w", err)
	}
	return string(data), nil
}

func decodeSamples(raw string) ([]string, error) {
	var samples []string
	if raw == "" {
		return samples, nil
	}
	if err := json.Unmarshal([]byte(raw), &samples); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sample descriptors: %w", err)
	}
	return samples, nil
}

// appendSample adds descriptor unless it is already known or the list is full.
func appendSample(samples []string, descriptor string) []string {
	if descriptor == "" || len(samples) >= MaxSampleDescriptors {
		return samples
	}
	for _, existing := range samples {
		if existing == descriptor {
			return samples
		}
	}
	return append(samples, descriptor)
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
