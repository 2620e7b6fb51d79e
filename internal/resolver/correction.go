package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Veraticus/spice-merchant/internal/common"
	"github.com/Veraticus/spice-merchant/internal/model"
)

const confirmedEvidenceSummary = "Confirmed by user"

// RecordCorrection stores a user's merchant label and category for raw as a
// family-scoped confirmed entry. Repeating a correction updates the same row.
// It reports whether the correction was stored and never returns an error.
func (r *Resolver) RecordCorrection(ctx context.Context, familyID, raw, label, categoryID, subcategoryID string) bool {
	familyID = strings.TrimSpace(familyID)
	label = strings.TrimSpace(label)
	categoryID = strings.TrimSpace(categoryID)
	subcategoryID = strings.TrimSpace(subcategoryID)

	switch {
	case r.dir == nil:
		slog.Error("Cannot record merchant correction without a directory")
		return false
	case familyID == "":
		slog.Error("Cannot record merchant correction", "descriptor", raw, "error", common.ErrMissingFamily)
		return false
	case label == "" || categoryID == "":
		slog.Error("Cannot record merchant correction without label and category",
			"descriptor", raw,
			"label", label,
			"category", categoryID)
		return false
	}

	d := r.norm.Normalize(raw)
	if d.NormalizedKey == "" {
		slog.Error("Cannot record merchant correction", "descriptor", raw, "error", common.ErrEmptyDescriptor)
		return false
	}

	entry := &model.MerchantEntry{
		Scope:             model.FamilyScope(familyID),
		NormalizedKey:     d.NormalizedKey,
		DisplayName:       label,
		CNPJ:              d.Entities.CNPJ,
		CategoryID:        categoryID,
		SubcategoryID:     subcategoryID,
		ConfidenceDefault: r.opts.ConfirmedConfidence,
		EvidenceSummary:   confirmedEvidenceSummary,
		Source:            model.SourceUserConfirmed,
		DetectedPlatform:  d.Entities.Platform,
		SampleDescriptors: []string{raw},
		MatchCount:        1,
		LastMatchedAt:     r.now(),
	}

	if err := r.dir.UpsertByNaturalKey(ctx, entry); err != nil {
		slog.Error("Failed to record merchant correction",
			"family", familyID,
			"key", d.NormalizedKey,
			"error", err)
		return false
	}

	slog.Debug("Recorded merchant correction",
		"family", familyID,
		"key", d.NormalizedKey,
		"label", label,
		"category", categoryID)
	return true
}
