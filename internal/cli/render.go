package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/spice-merchant/internal/model"
	"github.com/Veraticus/spice-merchant/internal/service"
)

// maxCellWidth truncates long descriptors in tables.
const maxCellWidth = 42

// FormatCategory joins a category and subcategory for display.
func FormatCategory(categoryID, subcategoryID string) string {
	switch {
	case categoryID == "":
		return SubtleStyle.Render("(none)")
	case subcategoryID == "":
		return categoryID
	default:
		return categoryID + " / " + subcategoryID
	}
}

// RenderResolution writes a detailed view of one resolution.
func RenderResolution(w io.Writer, raw string, res model.MerchantResolution) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Descriptor:"), raw)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Merchant:  "), res.MerchantLabel)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Category:  "), FormatCategory(res.SuggestedCategoryID, res.SuggestedSubcategoryID))
	fmt.Fprintf(&b, "%s %s  %s\n", BoldStyle.Render("Confidence:"), FormatConfidence(res.Confidence), FormatSource(res.Source))
	if res.DetectedPlatform != "" {
		platform := res.DetectedPlatform
		if res.IsIntermediary {
			platform += WarningStyle.Render(" (intermediary)")
		}
		fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Platform:  "), platform)
	}
	if res.CNPJ != "" {
		fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("CNPJ:      "), res.CNPJ)
	}
	fmt.Fprintf(&b, "%s %s", BoldStyle.Render("Key:       "), SubtleStyle.Render(res.NormalizedKey))

	for _, ev := range res.Evidence {
		line := "\n  • " + ev.Detail
		if ev.Confidence != nil {
			line += " " + SubtleStyle.Render(fmt.Sprintf("(%.0f%%)", *ev.Confidence*100))
		}
		if ev.Type == model.EvidenceIntermediary {
			line = WarningStyle.Render(line)
		}
		b.WriteString(line)
	}

	_, err := fmt.Fprintln(w, RenderBox(res.MerchantLabel, b.String()))
	return err
}

// RenderResolutionTable writes one row per descriptor in the given order.
func RenderResolutionTable(w io.Writer, descriptors []string, results map[string]model.MerchantResolution) error {
	rows := make([][]string, 0, len(descriptors))
	seen := make(map[string]bool, len(descriptors))
	for _, raw := range descriptors {
		if seen[raw] {
			continue
		}
		seen[raw] = true
		res, ok := results[raw]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			truncate(raw, maxCellWidth),
			res.MerchantLabel,
			FormatCategory(res.SuggestedCategoryID, res.SuggestedSubcategoryID),
			FormatConfidence(res.Confidence),
			FormatSource(res.Source),
		})
	}
	return renderTable(w, []string{"DESCRIPTOR", "MERCHANT", "CATEGORY", "CONF", "SOURCE"}, rows)
}

// RenderEntries writes directory entries as a table.
func RenderEntries(w io.Writer, entries []model.MerchantEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		name := e.DisplayName
		if e.IsIntermediary {
			name += WarningStyle.Render(" *")
		}
		rows = append(rows, []string{
			e.Scope.String(),
			e.NormalizedKey,
			name,
			FormatCategory(e.CategoryID, e.SubcategoryID),
			FormatConfidence(e.ConfidenceDefault),
			string(e.Source),
			fmt.Sprintf("%d", e.MatchCount),
		})
	}
	return renderTable(w, []string{"SCOPE", "KEY", "MERCHANT", "CATEGORY", "CONF", "SOURCE", "MATCHES"}, rows)
}

// RenderSummary writes batch statistics.
func RenderSummary(w io.Writer, summary service.BatchSummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Lines read:          %d\n", summary.Total)
	fmt.Fprintf(&b, "Distinct descriptors: %d\n", summary.Unique)

	sources := make([]model.ResolutionSource, 0, len(summary.BySource))
	for source := range summary.BySource {
		sources = append(sources, source)
	}
	slices.Sort(sources)
	for _, source := range sources {
		fmt.Fprintf(&b, "  %-10s %d\n", FormatSource(source), summary.BySource[source])
	}
	fmt.Fprintf(&b, "Elapsed:             %s", summary.Duration.Round(time.Millisecond))

	_, err := fmt.Fprintln(w, RenderBox("Resolution summary", b.String()))
	return err
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	headerCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = pad(h, widths[i])
	}
	if _, err := fmt.Fprintln(w, TableHeaderStyle.Render(strings.Join(headerCells, "  "))); err != nil {
		return err
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i])
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}
	return nil
}

// pad right-pads s to width visible cells, ignoring ANSI sequences.
func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
