package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/spice-merchant/internal/model"
)

// CorrectionRecorder stores a user's merchant correction.
type CorrectionRecorder interface {
	RecordCorrection(ctx context.Context, familyID, raw, label, categoryID, subcategoryID string) bool
}

// ReviewStats counts the outcome of a review session.
type ReviewStats struct {
	Accepted  int
	Corrected int
	Skipped   int
	Failed    int
}

// Reviewer walks the user through weak resolutions and records corrections.
type Reviewer struct {
	recorder CorrectionRecorder
	reader   *LineReader
	writer   io.Writer
	familyID string
}

// NewReviewer creates a reviewer that records corrections for familyID.
func NewReviewer(recorder CorrectionRecorder, familyID string, in io.Reader, out io.Writer) *Reviewer {
	return &Reviewer{
		recorder: recorder,
		reader:   NewLineReader(in),
		writer:   out,
		familyID: familyID,
	}
}

// Review prompts for each descriptor in order. Returning early on a read
// error still reports the stats gathered so far.
func (r *Reviewer) Review(ctx context.Context, descriptors []string, results map[string]model.MerchantResolution) (ReviewStats, error) {
	var stats ReviewStats

	for i, raw := range descriptors {
		res := results[raw]
		if err := RenderResolution(r.writer, raw, res); err != nil {
			return stats, fmt.Errorf("failed to write resolution: %w", err)
		}

		canAccept := res.SuggestedCategoryID != ""
		options := "[C] Correct  [S] Skip  [Q] Quit"
		if canAccept {
			options = "[A] Accept  " + options
		}
		fmt.Fprintf(r.writer, "%s %s\n", SubtleStyle.Render(fmt.Sprintf("(%d/%d)", i+1, len(descriptors))), options)

		choice, err := r.prompt(ctx, "Choice")
		if err != nil {
			return stats, err
		}

		switch strings.ToLower(choice) {
		case "a":
			if !canAccept {
				stats.Skipped++
				continue
			}
			r.record(ctx, &stats, &stats.Accepted, raw, res.MerchantLabel, res.SuggestedCategoryID, res.SuggestedSubcategoryID)
		case "c":
			label, err := r.promptDefault(ctx, "Merchant", res.MerchantLabel)
			if err != nil {
				return stats, err
			}
			category, err := r.promptDefault(ctx, "Category", res.SuggestedCategoryID)
			if err != nil {
				return stats, err
			}
			subcategory, err := r.prompt(ctx, "Subcategory (optional)")
			if err != nil {
				return stats, err
			}
			r.record(ctx, &stats, &stats.Corrected, raw, label, category, subcategory)
		case "q":
			return stats, nil
		default:
			stats.Skipped++
		}
	}

	return stats, nil
}

func (r *Reviewer) record(ctx context.Context, stats *ReviewStats, counter *int, raw, label, category, subcategory string) {
	if r.recorder.RecordCorrection(ctx, r.familyID, raw, label, category, subcategory) {
		*counter++
		fmt.Fprintln(r.writer, FormatSuccess("Saved "+label+" → "+category))
		return
	}
	stats.Failed++
	fmt.Fprintln(r.writer, FormatError("Could not save correction"))
}

func (r *Reviewer) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(r.writer, FormatPrompt(label))
	return r.reader.ReadLine(ctx)
}

func (r *Reviewer) promptDefault(ctx context.Context, label, def string) (string, error) {
	if def != "" {
		label = fmt.Sprintf("%s [%s]", label, def)
	}
	value, err := r.prompt(ctx, label)
	if err != nil {
		return "", err
	}
	if value == "" {
		return def, nil
	}
	return value, nil
}
