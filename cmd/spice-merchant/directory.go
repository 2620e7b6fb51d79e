package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-merchant/internal/cli"
	"github.com/Veraticus/spice-merchant/internal/common"
	"github.com/Veraticus/spice-merchant/internal/model"
	"github.com/Veraticus/spice-merchant/internal/service"
)

func (a *app) directoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "directory",
		Aliases: []string{"dir"},
		Short:   "Inspect and manage the merchant directory",
		Long:    `List and delete merchant directory entries.`,
	}

	cmd.AddCommand(a.directoryListCmd())
	cmd.AddCommand(a.directoryDeleteCmd())

	return cmd
}

func (a *app) directoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List merchant entries",
		Long: `List directory entries, highest confidence first. Without --family or
--global every entry is shown.`,
		Args: cobra.NoArgs,
		RunE: a.runDirectoryList,
	}

	cmd.Flags().Bool("global", false, "Only list entries shared by every family")
	cmd.Flags().Int("limit", 50, "Maximum number of entries (0 for all)")
	cmd.Flags().Int("offset", 0, "Number of entries to skip")
	cmd.Flags().Bool("json", false, "Output as JSON")

	return cmd
}

func (a *app) runDirectoryList(cmd *cobra.Command, _ []string) error {
	global, _ := cmd.Flags().GetBool("global")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	asJSON, _ := cmd.Flags().GetBool("json")
	ctx := cmd.Context()

	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close merchant directory", "error", err)
		}
	}()

	entries, err := store.ListEntries(ctx, service.EntryFilter{
		FamilyID:   a.family(),
		GlobalOnly: global,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	w := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(w, entries)
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, cli.FormatInfo("No merchant entries yet"))
		return err
	}
	return cli.RenderEntries(w, entries)
}

func (a *app) directoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <normalized-key>",
		Short: "Delete a merchant entry",
		Long: `Delete the entry with the given normalized key. With --family the family's
entry is deleted, otherwise the global one.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runDirectoryDelete,
	}
}

func (a *app) runDirectoryDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	key := args[0]
	scope := model.FamilyScope(a.family())

	store, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close merchant directory", "error", err)
		}
	}()

	if err := store.DeleteEntry(ctx, scope, key); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewUserError(fmt.Sprintf("No %s entry with key %q", scope, key), err)
		}
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	slog.Info("Deleted merchant entry", "scope", scope.String(), "key", key)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %s (%s)", key, scope)))
	return err
}
