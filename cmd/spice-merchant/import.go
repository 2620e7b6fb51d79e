package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-merchant/internal/cli"
	"github.com/Veraticus/spice-merchant/internal/common"
	"github.com/Veraticus/spice-merchant/internal/model"
	"github.com/Veraticus/spice-merchant/internal/ofx"
	"github.com/Veraticus/spice-merchant/internal/resolver"
)

type importOutput struct {
	Results    map[string]model.MerchantResolution `json:"results"`
	Unresolved []string                            `json:"unresolved"`
	Lines      int                                 `json:"lines"`
}

func (a *app) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Resolve every descriptor in statement files",
		Long: `Batch-resolve the descriptors of OFX/QFX statements or plain-text files
(one descriptor per line). Repeated descriptors are resolved once.

Examples:
  # Resolve a bank export
  spice-merchant import ~/Downloads/extrato_2026_03.ofx --family silva

  # Resolve several files and review the weak results
  spice-merchant import ~/Downloads/*.ofx --family silva --review`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runImport,
	}

	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Bool("review", false, "Interactively confirm or correct weak resolutions")
	cmd.Flags().Bool("no-progress", false, "Hide the progress bar")

	return cmd
}

func (a *app) runImport(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	review, _ := cmd.Flags().GetBool("review")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	family := a.family()
	if review && family == "" {
		return common.NewUserError("Reviewing needs a family: pass --family or set SPICE_MERCHANT_FAMILY", common.ErrMissingFamily)
	}

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Interrupted: finishing the current chunk, the rest stays unresolved")
	ctx, stop := interrupts.HandleInterrupts(cmd.Context())
	defer stop()

	descriptors, err := readStatementFiles(ctx, files)
	if err != nil {
		return err
	}
	if len(descriptors) == 0 {
		slog.Warn("No descriptors found in any file")
		return nil
	}

	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close merchant directory", "error", err)
		}
	}()

	var progress *cli.ChunkProgress
	var onChunk func(done, total int)
	if !noProgress && !asJSON {
		progress = cli.NewChunkProgress(cmd.ErrOrStderr(), countUnique(descriptors), "Resolving")
		onChunk = progress.OnChunk
	}

	res, err := a.buildResolver(store, onChunk)
	if err != nil {
		return err
	}

	start := time.Now()
	results := res.BatchResolve(ctx, descriptors, family)
	elapsed := time.Since(start)
	if progress != nil {
		progress.Finish()
	}

	if interrupts.WasInterrupted() {
		slog.Warn("Import interrupted", "resolved_before_interrupt", len(results))
	}

	w := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(w, importOutput{
			Results:    results,
			Unresolved: resolver.UnresolvedDescriptors(results),
			Lines:      len(descriptors),
		})
	}

	if err := cli.RenderResolutionTable(w, descriptors, results); err != nil {
		return err
	}
	if err := cli.RenderSummary(w, resolver.Summarize(len(descriptors), results, elapsed)); err != nil {
		return err
	}

	if !review || interrupts.WasInterrupted() {
		return nil
	}

	weak := weakDescriptors(descriptors, results, a.cfg.Resolver.ConfirmedConfidence)
	if len(weak) == 0 {
		fmt.Fprintln(w, cli.FormatSuccess("Nothing to review"))
		return nil
	}

	fmt.Fprintln(w, cli.FormatTitle(fmt.Sprintf("Reviewing %d descriptors", len(weak))))
	stats, err := cli.NewReviewer(res, family, cmd.InOrStdin(), w).Review(cmd.Context(), weak, results)
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	fmt.Fprintln(w, cli.FormatInfo(fmt.Sprintf("Accepted %d, corrected %d, skipped %d, failed %d",
		stats.Accepted, stats.Corrected, stats.Skipped, stats.Failed)))
	return nil
}

// expandFiles resolves glob patterns the shell did not expand.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				slog.Warn("No files found matching pattern", "pattern", pattern)
				continue
			}
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

// readStatementFiles collects descriptors from every file in order. Files
// that cannot be read are logged and skipped.
func readStatementFiles(ctx context.Context, files []string) ([]string, error) {
	parser := ofx.NewParser()
	var descriptors []string

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := readStatementFile(ctx, parser, path)
		if err != nil {
			slog.Error("Failed to read statement file", "file", path, "error", err)
			continue
		}
		if len(found) == 0 {
			slog.Warn("No descriptors found in file", "file", filepath.Base(path))
			continue
		}

		slog.Info("Processed file", "file", filepath.Base(path), "descriptors", len(found))
		descriptors = append(descriptors, found...)
	}

	return descriptors, nil
}

func readStatementFile(ctx context.Context, parser *ofx.Parser, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		lines, err := parser.ParseFile(ctx, f)
		if err != nil {
			return nil, err
		}
		return ofx.Descriptors(lines), nil
	default:
		return cli.NewLineReader(f).ReadNonEmptyLines(ctx)
	}
}

// weakDescriptors lists, once each and in input order, the descriptors whose
// resolution is below the confirmed confidence.
func weakDescriptors(descriptors []string, results map[string]model.MerchantResolution, confirmed float64) []string {
	var weak []string
	seen := make(map[string]bool)
	for _, raw := range descriptors {
		res, ok := results[raw]
		if !ok || seen[raw] || res.Confidence >= confirmed {
			continue
		}
		seen[raw] = true
		weak = append(weak, raw)
	}
	return weak
}

func countUnique(descriptors []string) int {
	unique := slices.Clone(descriptors)
	slices.Sort(unique)
	return len(slices.Compact(unique))
}
