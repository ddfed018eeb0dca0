package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hirosato/bookkeeper/internal/domain/ledger"
)

var (
	businessName    string
	businessTaxID   string
	businessAddress string
)

var businessCmd = &cobra.Command{
	Use:   "business",
	Short: "Show or update business details",
}

var businessShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored business details",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := app.ledger.Load(cmd.Context(), app.cfg.Identity, app.cfg.Period)
		if err != nil {
			return err
		}

		info := snap.Business
		if info.Name == "" && info.TaxID == "" && info.Address == "" {
			fmt.Println("No business details stored.")
			return nil
		}
		fmt.Printf("Name:    %s\n", info.Name)
		fmt.Printf("Tax ID:  %s\n", info.TaxID)
		fmt.Printf("Address: %s\n", info.Address)
		return nil
	},
}

var businessSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the stored business details",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := ledger.BusinessInfo{
			Name:    businessName,
			TaxID:   businessTaxID,
			Address: businessAddress,
		}
		if err := app.ledger.UpdateBusinessInfo(cmd.Context(), app.cfg.Identity, info); err != nil {
			return err
		}
		fmt.Println("Business details saved.")
		return nil
	},
}

func init() {
	businessSetCmd.Flags().StringVar(&businessName, "name", "", "business name")
	businessSetCmd.Flags().StringVar(&businessTaxID, "tax-id", "", "tax identifier")
	businessSetCmd.Flags().StringVar(&businessAddress, "address", "", "business address")

	businessCmd.AddCommand(businessShowCmd, businessSetCmd)
	rootCmd.AddCommand(businessCmd)
}
