// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/spice-merchant/internal/model"
)

// EntryFilter defines filtering options for directory listings.
type EntryFilter struct {
	FamilyID   string // Only entries owned by this family
	GlobalOnly bool   // Only global entries; wins over FamilyID
	Limit      int
	Offset     int
}

// Directory is the merchant directory contract used by the resolver.
type Directory interface {
	// FindByKeys returns every entry whose normalized key is in keys and that
	// is visible to familyID (global entries, plus that family's entries),
	// ordered by confidence, highest first.
	FindByKeys(ctx context.Context, keys []string, familyID string) ([]model.MerchantEntry, error)
	// UpsertByNaturalKey inserts the entry or overwrites the row sharing its
	// (scope, family, normalized key). Automatic sources never overwrite a
	// USER_CONFIRMED row.
	UpsertByNaturalKey(ctx context.Context, entry *model.MerchantEntry) error
	// RecordMatch bumps the match counter of an entry after a cache hit.
	RecordMatch(ctx context.Context, scope model.Scope, normalizedKey, descriptor string, at time.Time) error
}

// DirectoryAdmin adds the administrative operations the CLI exposes.
type DirectoryAdmin interface {
	Directory

	GetEntry(ctx context.Context, scope model.Scope, normalizedKey string) (*model.MerchantEntry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]model.MerchantEntry, error)
	DeleteEntry(ctx context.Context, scope model.Scope, normalizedKey string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// BatchSummary counts the outcome of a batch resolution run.
type BatchSummary struct {
	BySource map[model.ResolutionSource]int
	Total    int
	Unique   int
	Duration time.Duration
}
