package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hirosato/bookkeeper/internal/domain/ledger"
)

var (
	addDate          string
	addType          string
	addAmount        string
	addCategory      string
	addDescription   string
	addVendor        string
	addPaymentMethod string
	addNotes         string
	addReviewed      bool

	listSearch   string
	listType     string
	listCategory string
	listReviewed string
)

var txnCmd = &cobra.Command{
	Use:   "txn",
	Short: "Manage transactions in the active period",
}

var txnAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction",
	Example: `  bookkeeper txn add --date 2026-01-05 --type expense --amount 4.50 \
      --category Meals --description "Coffee with client"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(addAmount)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", addAmount, err)
		}

		txn, err := app.ledger.Create(cmd.Context(), app.cfg.Identity, app.cfg.Period, ledger.CreateTransactionRequest{
			Date:          addDate,
			Type:          ledger.TransactionType(addType),
			Amount:        amount,
			Category:      addCategory,
			Description:   addDescription,
			Vendor:        addVendor,
			PaymentMethod: addPaymentMethod,
			Notes:         addNotes,
			Reviewed:      addReviewed,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Added %s %s %s (%s)\n", txn.Type, txn.Amount.StringFixed(2), txn.Description, txn.ID)
		return nil
	},
}

var txnListCmd = &cobra.Command{
	Use:   "list",
	Short: "List transactions, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := app.ledger.Load(cmd.Context(), app.cfg.Identity, app.cfg.Period)
		if err != nil {
			return err
		}

		txns := ledger.ApplyFilters(snap.Transactions, ledger.Filter{
			Search:   listSearch,
			Type:     ledger.TransactionType(listType),
			Category: listCategory,
			Reviewed: ledger.ReviewFilter(listReviewed),
		})

		if snap.Status.Closed {
			fmt.Printf("Period %s is closed.\n", app.cfg.Period)
		}
		if len(txns) == 0 {
			fmt.Println("No transactions.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION\tREVIEWED")
		for _, t := range txns {
			reviewed := ""
			if t.Reviewed {
				reviewed = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				t.ID, t.Date, t.Type, t.Amount.StringFixed(2), t.Category, t.Description, reviewed)
		}
		return w.Flush()
	},
}

var txnReviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Toggle a transaction's reviewed flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		txn, err := app.ledger.ToggleReview(cmd.Context(), app.cfg.Identity, app.cfg.Period, args[0])
		if err != nil {
			return err
		}
		if txn.Reviewed {
			fmt.Printf("Marked %s reviewed.\n", txn.ID)
		} else {
			fmt.Printf("Marked %s unreviewed.\n", txn.ID)
		}
		return nil
	},
}

var txnBulkReviewCmd = &cobra.Command{
	Use:   "bulk-review <id>...",
	Short: "Mark several transactions reviewed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		updated, err := app.ledger.BulkReview(cmd.Context(), app.cfg.Identity, app.cfg.Period, args)
		if err != nil {
			return err
		}
		fmt.Printf("Marked %d transactions reviewed.\n", updated)
		return nil
	},
}

var txnDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.ledger.Delete(cmd.Context(), app.cfg.Identity, app.cfg.Period, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s.\n", args[0])
		return nil
	},
}

var txnBulkDeleteCmd = &cobra.Command{
	Use:   "bulk-delete <id>...",
	Short: "Delete several transactions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted, err := app.ledger.BulkDelete(cmd.Context(), app.cfg.Identity, app.cfg.Period, args)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d transactions.\n", deleted)
		return nil
	},
}

func init() {
	txnAddCmd.Flags().StringVar(&addDate, "date", "", "transaction date (YYYY-MM-DD)")
	txnAddCmd.Flags().StringVar(&addType, "type", "", "income or expense")
	txnAddCmd.Flags().StringVar(&addAmount, "amount", "", "amount, always positive")
	txnAddCmd.Flags().StringVar(&addCategory, "category", "", "category (default Uncategorized)")
	txnAddCmd.Flags().StringVar(&addDescription, "description", "", "what the money was for")
	txnAddCmd.Flags().StringVar(&addVendor, "vendor", "", "vendor or payer")
	txnAddCmd.Flags().StringVar(&addPaymentMethod, "payment-method", "", "how it was paid")
	txnAddCmd.Flags().StringVar(&addNotes, "notes", "", "free-form notes")
	txnAddCmd.Flags().BoolVar(&addReviewed, "reviewed", false, "mark reviewed immediately")
	txnAddCmd.MarkFlagRequired("date")
	txnAddCmd.MarkFlagRequired("type")
	txnAddCmd.MarkFlagRequired("amount")
	txnAddCmd.MarkFlagRequired("description")

	txnListCmd.Flags().StringVar(&listSearch, "search", "", "substring match on description, vendor or category")
	txnListCmd.Flags().StringVar(&listType, "type", "", "income or expense")
	txnListCmd.Flags().StringVar(&listCategory, "category", "", "exact category match")
	txnListCmd.Flags().StringVar(&listReviewed, "reviewed", "", "reviewed or unreviewed")

	txnCmd.AddCommand(txnAddCmd, txnListCmd, txnReviewCmd, txnBulkReviewCmd, txnDeleteCmd, txnBulkDeleteCmd)
	rootCmd.AddCommand(txnCmd)
}
