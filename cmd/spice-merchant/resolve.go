package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-merchant/internal/cli"
)

func (a *app) resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [descriptors...]",
		Short: "Resolve statement descriptors to merchants",
		Long: `Resolve one or more raw descriptors. With no arguments, descriptors are
read from standard input, one per line.

Examples:
  spice-merchant resolve "UBER *TRIP 123456 SP BR" --family silva
  cat descriptors.txt | spice-merchant resolve --json`,
		RunE: a.runResolve,
	}

	cmd.Flags().Bool("json", false, "Output as JSON")

	return cmd
}

func (a *app) runResolve(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	ctx := cmd.Context()

	descriptors := args
	if len(descriptors) == 0 {
		lines, err := cli.NewLineReader(cmd.InOrStdin()).ReadNonEmptyLines(ctx)
		if err != nil {
			return fmt.Errorf("failed to read descriptors: %w", err)
		}
		descriptors = lines
	}
	if len(descriptors) == 0 {
		return fmt.Errorf("no descriptors to resolve")
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

	res, err := a.buildResolver(store, nil)
	if err != nil {
		return err
	}

	family := a.family()
	w := cmd.OutOrStdout()

	if len(descriptors) == 1 {
		result := res.Resolve(ctx, descriptors[0], family)
		if asJSON {
			return writeJSON(w, result)
		}
		return cli.RenderResolution(w, descriptors[0], result)
	}

	results := res.BatchResolve(ctx, descriptors, family)
	if asJSON {
		return writeJSON(w, results)
	}
	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, cli.FormatWarning("Interrupted: remaining descriptors were left unresolved"))
	}
	return cli.RenderResolutionTable(w, descriptors, results)
}
