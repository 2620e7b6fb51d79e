package resolver

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Veraticus/spice-merchant/internal/model"
	"github.com/Veraticus/spice-merchant/internal/service"
)

// BatchResolve resolves descriptors in sequential chunks, each chunk
// concurrently. The result is keyed by raw descriptor, so duplicates collapse.
// Every distinct descriptor gets a resolution, even after ctx is cancelled.
func (r *Resolver) BatchResolve(ctx context.Context, descriptors []string, familyID string) map[string]model.MerchantResolution {
	unique := uniqueDescriptors(descriptors)
	results := make(map[string]model.MerchantResolution, len(unique))
	var mu sync.Mutex

	for start := 0; start < len(unique); start += r.opts.ChunkSize {
		if err := ctx.Err(); err != nil {
			slog.Warn("Batch resolution cancelled",
				"resolved", start,
				"remaining", len(unique)-start,
				"error", err)
			for _, raw := range unique[start:] {
				results[raw] = unknown(r.norm.Normalize(raw))
			}
			break
		}

		end := min(start+r.opts.ChunkSize, len(unique))

		var wg sync.WaitGroup
		for _, raw := range unique[start:end] {
			wg.Add(1)
			go func(raw string) {
				defer wg.Done()
				res := r.safeResolve(ctx, raw, familyID)
				mu.Lock()
				results[raw] = res
				mu.Unlock()
			}(raw)
		}
		wg.Wait()

		if r.opts.OnChunk != nil {
			r.opts.OnChunk(end, len(unique))
		}
	}

	return results
}

// safeResolve confines a panic to the descriptor that caused it.
func (r *Resolver) safeResolve(ctx context.Context, raw, familyID string) (res model.MerchantResolution) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Panic while resolving descriptor", "descriptor", raw, "panic", rec)
			res = unknown(r.normalizeOrRaw(raw))
		}
	}()
	return r.Resolve(ctx, raw, familyID)
}

// normalizeOrRaw normalizes raw, falling back to a bare descriptor when the
// normalizer itself panics.
func (r *Resolver) normalizeOrRaw(raw string) (d model.NormalizedDescriptor) {
	defer func() {
		if rec := recover(); rec != nil {
			d = model.NormalizedDescriptor{Original: raw}
		}
	}()
	return r.norm.Normalize(raw)
}

func uniqueDescriptors(descriptors []string) []string {
	seen := make(map[string]struct{}, len(descriptors))
	unique := make([]string, 0, len(descriptors))
	for _, raw := range descriptors {
		if _, ok := seen[raw]; ok {
			continue
		}
		seen[raw] = struct{}{}
		unique = append(unique, raw)
	}
	return unique
}

// Summarize counts batch results by source.
func Summarize(total int, results map[string]model.MerchantResolution, elapsed time.Duration) service.BatchSummary {
	summary := service.BatchSummary{
		BySource: make(map[model.ResolutionSource]int),
		Total:    total,
		Unique:   len(results),
		Duration: elapsed,
	}
	for _, res := range results {
		summary.BySource[res.Source]++
	}
	return summary
}

// UnresolvedDescriptors returns the descriptors that resolved to UNKNOWN, sorted.
func UnresolvedDescriptors(results map[string]model.MerchantResolution) []string {
	var out []string
	for raw, res := range results {
		if res.IsUnknown() {
			out = append(out, raw)
		}
	}
	slices.Sort(out)
	return out
}
