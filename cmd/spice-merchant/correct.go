package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-merchant/internal/cli"
	"github.com/Veraticus/spice-merchant/internal/common"
)

func (a *app) correctCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correct <descriptor>",
		Short: "Record the merchant and category for a descriptor",
		Long: `Teach the directory what a descriptor really is. The correction applies to
the given family and wins over every automatic detection from then on.

Example:
  spice-merchant correct "MERCADOPAGO*LOJA ABC" --family silva \
    --label "Loja ABC" --category casa --subcategory casa-decoracao`,
		Args: cobra.ExactArgs(1),
		RunE: a.runCorrect,
	}

	cmd.Flags().String("label", "", "Merchant name to show for this descriptor (required)")
	cmd.Flags().String("category", "", "Category ID (required)")
	cmd.Flags().String("subcategory", "", "Subcategory ID")
	_ = cmd.MarkFlagRequired("label")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func (a *app) runCorrect(cmd *cobra.Command, args []string) error {
	label, _ := cmd.Flags().GetString("label")
	category, _ := cmd.Flags().GetString("category")
	subcategory, _ := cmd.Flags().GetString("subcategory")
	ctx := cmd.Context()

	family := a.family()
	if family == "" {
		return common.NewUserError("A family is required: pass --family or set SPICE_MERCHANT_FAMILY", common.ErrMissingFamily)
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

	if !res.RecordCorrection(ctx, family, args[0], label, category, subcategory) {
		return common.NewUserError("Could not save correction (see logs for details)", nil)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		fmt.Sprintf("Saved %s → %s", label, cli.FormatCategory(category, subcategory))))
	return err
}
