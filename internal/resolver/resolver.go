// Package resolver turns raw statement descriptors into merchant resolutions.
//
// Resolution runs a fixed sequence of tiers and stops at the first that
// answers: a confident directory hit, the bank fee rules, a known platform,
// a weak directory hit, and finally an unknown result. Resolve never returns
// an error; storage failures degrade to "no directory match".
package resolver

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/spice-merchant/internal/knowledge"
	"github.com/Veraticus/spice-merchant/internal/model"
	"github.com/Veraticus/spice-merchant/internal/normalize"
	"github.com/Veraticus/spice-merchant/internal/service"
)

// Resolver resolves descriptors against a merchant directory and a knowledge base.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	dir  service.Directory
	norm *normalize.Normalizer
	now  func() time.Time
	opts Options
}

// New creates a resolver. Zero-valued options fall back to the defaults.
func New(dir service.Directory, norm *normalize.Normalizer, opts Options) *Resolver {
	if norm == nil {
		norm = normalize.Default()
	}
	return &Resolver{
		dir:  dir,
		norm: norm,
		opts: opts.withDefaults(),
		now:  time.Now,
	}
}

// Options returns the effective options.
func (r *Resolver) Options() Options {
	return r.opts
}

// Normalizer returns the normalizer used for descriptors.
func (r *Resolver) Normalizer() *normalize.Normalizer {
	return r.norm
}

// Resolve determines the merchant behind raw for the given family.
// An empty familyID only sees global directory entries.
func (r *Resolver) Resolve(ctx context.Context, raw, familyID string) model.MerchantResolution {
	d := r.norm.Normalize(raw)
	kb := r.norm.Knowledge()

	best := r.lookup(ctx, d, familyID)
	if best != nil && best.ConfidenceDefault >= r.opts.CacheThreshold {
		r.trackMatch(ctx, best, raw)
		return fromCache(d, best)
	}

	if rule, ok := kb.ClassifyFee(d.Normalized); ok {
		res := fromFee(d, rule)
		r.recordDetection(ctx, d, res, model.SourceHeuristic)
		return res
	}

	if d.Entities.Platform != "" {
		if platform, ok := kb.PlatformByName(d.Entities.Platform); ok {
			res := fromPlatform(kb, d, platform)
			r.recordDetection(ctx, d, res, model.SourcePlatformDetected)
			return res
		}
	}

	if best != nil {
		r.trackMatch(ctx, best, raw)
		return fromCache(d, best)
	}

	return unknown(d)
}

// lookup returns the most confident visible directory entry, or nil.
// Ties keep the first row returned. Detected entries only answer for their
// own full key, never for a platform or first-token candidate.
func (r *Resolver) lookup(ctx context.Context, d model.NormalizedDescriptor, familyID string) *model.MerchantEntry {
	keys := normalize.MatchingKeys(d)
	if r.dir == nil || len(keys) == 0 {
		return nil
	}

	entries, err := r.dir.FindByKeys(ctx, keys, familyID)
	if err != nil {
		slog.Warn("Merchant directory lookup failed", "keys", keys, "error", err)
		return nil
	}

	var best *model.MerchantEntry
	for i := range entries {
		entry := &entries[i]
		if !entry.Scope.VisibleTo(familyID) || entry.ConfidenceDefault <= 0 {
			continue
		}
		if isDetected(entry.Source) && entry.NormalizedKey != d.NormalizedKey {
			continue
		}
		if best == nil || entry.ConfidenceDefault > best.ConfidenceDefault {
			best = entry
		}
	}
	return best
}

// isDetected reports whether source marks an entry written by the resolver itself.
func isDetected(source model.EntrySource) bool {
	return source == model.SourcePlatformDetected || source == model.SourceHeuristic
}

func (r *Resolver) trackMatch(ctx context.Context, entry *model.MerchantEntry, raw string) {
	if !r.opts.TrackMatches {
		return
	}
	if err := r.dir.RecordMatch(ctx, entry.Scope, entry.NormalizedKey, raw, r.now()); err != nil {
		slog.Warn("Failed to record merchant match",
			"key", entry.NormalizedKey,
			"scope", entry.Scope.String(),
			"error", err)
	}
}

// recordDetection stores a platform or fee resolution as a global entry.
// Confirmed rows are never overwritten by the directory.
func (r *Resolver) recordDetection(ctx context.Context, d model.NormalizedDescriptor, res model.MerchantResolution, source model.EntrySource) {
	if !r.opts.RecordDetections || r.dir == nil || d.NormalizedKey == "" {
		return
	}

	entry := &model.MerchantEntry{
		Scope:             model.GlobalScope(),
		NormalizedKey:     d.NormalizedKey,
		DisplayName:       res.MerchantLabel,
		CNPJ:              res.CNPJ,
		CategoryID:        res.SuggestedCategoryID,
		SubcategoryID:     res.SuggestedSubcategoryID,
		ConfidenceDefault: res.Confidence,
		EvidenceSummary:   res.Evidence[0].Detail,
		Source:            source,
		DetectedPlatform:  res.DetectedPlatform,
		IsIntermediary:    res.IsIntermediary,
		SampleDescriptors: []string{d.Original},
		MatchCount:        1,
		LastMatchedAt:     r.now(),
	}
	if err := r.dir.UpsertByNaturalKey(ctx, entry); err != nil {
		slog.Warn("Failed to record detected merchant", "key", d.NormalizedKey, "error", err)
	}
}

func fromCache(d model.NormalizedDescriptor, entry *model.MerchantEntry) model.MerchantResolution {
	evidence := []model.EvidenceItem{cacheEvidence(entry)}
	if entry.IsIntermediary {
		evidence = append(evidence, intermediaryEvidence())
	}
	evidence = append(evidence, descriptorNotes(d)...)

	return model.MerchantResolution{
		MerchantLabel:          entry.DisplayName,
		LegalName:              entry.LegalName,
		CNPJ:                   firstNonEmpty(entry.CNPJ, d.Entities.CNPJ),
		SuggestedCategoryID:    entry.CategoryID,
		SuggestedSubcategoryID: entry.SubcategoryID,
		Confidence:             entry.ConfidenceDefault,
		Evidence:               evidence,
		IsIntermediary:         entry.IsIntermediary,
		DetectedPlatform:       firstNonEmpty(entry.DetectedPlatform, d.Entities.Platform),
		NormalizedKey:          d.NormalizedKey,
		Source:                 model.ResolutionCache,
	}
}

func fromFee(d model.NormalizedDescriptor, rule knowledge.FeeRule) model.MerchantResolution {
	evidence := append([]model.EvidenceItem{feeEvidence(rule)}, descriptorNotes(d)...)

	return model.MerchantResolution{
		MerchantLabel:          rule.Label,
		CNPJ:                   d.Entities.CNPJ,
		SuggestedCategoryID:    knowledge.FinancialExpensesCategory,
		SuggestedSubcategoryID: rule.SubcategoryID,
		Confidence:             feeConfidence,
		Evidence:               evidence,
		NormalizedKey:          d.NormalizedKey,
		Source:                 model.ResolutionHeuristic,
	}
}

func fromPlatform(kb *knowledge.Base, d model.NormalizedDescriptor, p knowledge.Platform) model.MerchantResolution {
	confidence := platformConfidence
	label := p.DisplayName()
	if p.IsIntermediary {
		confidence = intermediaryConfidence
		// The text left once the gateway is removed usually names the seller.
		if rest := kb.StripPlatform(p.Name, d.Normalized); rest != "" {
			label += " (" + titleCase(rest) + ")"
		}
	}

	evidence := []model.EvidenceItem{platformEvidence(p, confidence)}
	if p.IsIntermediary {
		evidence = append(evidence, intermediaryEvidence())
	}
	evidence = append(evidence, descriptorNotes(d)...)

	return model.MerchantResolution{
		MerchantLabel:          label,
		CNPJ:                   d.Entities.CNPJ,
		SuggestedCategoryID:    p.CategoryHint,
		SuggestedSubcategoryID: p.SubcategoryHint,
		Confidence:             confidence,
		Evidence:               evidence,
		IsIntermediary:         p.IsIntermediary,
		DetectedPlatform:       p.Name,
		NormalizedKey:          d.NormalizedKey,
		Source:                 model.ResolutionPlatform,
	}
}

func unknown(d model.NormalizedDescriptor) model.MerchantResolution {
	label := strings.TrimSpace(d.Original)
	if d.Normalized != "" {
		label = titleCase(d.Normalized)
	}

	evidence := descriptorNotes(d)
	if evidence == nil {
		evidence = []model.EvidenceItem{}
	}

	return model.MerchantResolution{
		MerchantLabel: label,
		CNPJ:          d.Entities.CNPJ,
		Confidence:    0,
		Evidence:      evidence,
		NormalizedKey: d.NormalizedKey,
		Source:        model.ResolutionUnknown,
	}
}
