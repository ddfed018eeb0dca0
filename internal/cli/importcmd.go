package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hirosato/bookkeeper/internal/domain/importer"
)

var importSuggestCategories bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import transactions from a CSV or XLSX file",
	Long: `Import reads a tabular file with a header row. Date, Description and
Amount columns are required; Type and Category are optional. Rows that
cannot be parsed are skipped. Imported transactions arrive unreviewed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := importer.ReadFile(args[0])
		if err != nil {
			return err
		}

		result, err := app.importer.ImportRows(cmd.Context(), app.cfg.Identity, app.cfg.Period, rows, importSuggestCategories)
		if err != nil {
			return err
		}

		fmt.Printf("Imported %d transactions", result.Imported)
		if result.Skipped > 0 {
			fmt.Printf(", skipped %d rows", result.Skipped)
		}
		fmt.Println(".")
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importSuggestCategories, "suggest-categories", false, "suggest categories from reviewed history when the file has none")
	rootCmd.AddCommand(importCmd)
}
