package main

import (
	"encoding/json"

	"github.com/aretw0/stylist/internal/cli"
	"github.com/aretw0/stylist/internal/presentation/tui"
	"github.com/aretw0/stylist/pkg/domain"
	"github.com/spf13/cobra"
)

var outfitsCmd = &cobra.Command{
	Use:   "outfits",
	Short: "List the outfit catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		outfits := domain.Catalog()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(outfits)
		}

		table := tui.FormatOutfits(outfits, nil)
		render := tui.PlainRenderer
		if cli.IsTerminal(cmd.OutOrStdout()) {
			render = tui.NewRenderer()
		}
		out, err := render(table)
		if err != nil {
			return err
		}
		cmd.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outfitsCmd)
	outfitsCmd.Flags().Bool("json", false, "Print the catalog as JSON")
}
