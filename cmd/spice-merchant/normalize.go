package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-merchant/internal/cli"
	"github.com/Veraticus/spice-merchant/internal/model"
	"github.com/Veraticus/spice-merchant/internal/normalize"
)

type normalizeOutput struct {
	Descriptor   model.NormalizedDescriptor `json:"descriptor"`
	MatchingKeys []string                   `json:"matchingKeys"`
	Pix          model.PixInfo              `json:"pix"`
	IsBankFee    bool                       `json:"isBankFee"`
}

func (a *app) normalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <descriptor>",
		Short: "Show how a descriptor is normalized",
		Long: `Normalize a raw statement descriptor and show the tokens, key, detected
entities, lookup keys, and fee and PIX flags.

Examples:
  spice-merchant normalize "MERCADOPAGO*LOJA ABC 15/04"
  spice-merchant normalize "PIX TRANSF 123.456.789-09" --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runNormalize,
	}

	cmd.Flags().Bool("json", false, "Output as JSON")

	return cmd
}

func (a *app) runNormalize(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	norm, err := a.initNormalizer()
	if err != nil {
		return err
	}

	raw := strings.Join(args, " ")
	d := norm.Normalize(raw)
	out := normalizeOutput{
		Descriptor:   d,
		MatchingKeys: normalize.MatchingKeys(d),
		Pix:          normalize.DetectPix(raw),
		IsBankFee:    norm.IsBankFee(d),
	}

	w := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(w, out)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Normalized: %s\n", d.Normalized)
	fmt.Fprintf(&b, "Key:        %s\n", d.NormalizedKey)
	fmt.Fprintf(&b, "Tokens:     %s\n", strings.Join(d.Tokens, " "))
	fmt.Fprintf(&b, "Lookup:     %s\n", strings.Join(out.MatchingKeys, ", "))
	if d.Entities.Platform != "" {
		platform := d.Entities.Platform
		if d.Entities.IsIntermediary {
			platform += " (intermediary)"
		}
		fmt.Fprintf(&b, "Platform:   %s\n", platform)
	}
	for _, entity := range []struct{ name, value string }{
		{"CNPJ", d.Entities.CNPJ},
		{"CPF", d.Entities.CPF},
		{"Email", d.Entities.Email},
		{"Domain", d.Entities.Domain},
	} {
		if entity.value != "" {
			fmt.Fprintf(&b, "%-11s %s\n", entity.name+":", entity.value)
		}
	}
	fmt.Fprintf(&b, "Bank fee:   %t\n", out.IsBankFee)
	if out.Pix.IsPix {
		fmt.Fprintf(&b, "PIX:        %s %s", out.Pix.PixKeyType, out.Pix.PixKey)
	} else {
		b.WriteString("PIX:        false")
	}

	_, err = fmt.Fprintln(w, cli.RenderBox(raw, b.String()))
	return err
}
