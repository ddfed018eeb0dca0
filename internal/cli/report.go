package cli

import (
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hirosato/bookkeeper/internal/common/config"
	"github.com/hirosato/bookkeeper/internal/domain/ledger"
	"github.com/hirosato/bookkeeper/internal/domain/report"
	"github.com/hirosato/bookkeeper/internal/export"
)

var (
	reportPDFPath string
	compareFrom   string
	compareTo     string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Financial reports over reviewed transactions",
}

var reportSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Headline figures for the active period",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := app.ledger.Load(cmd.Context(), app.cfg.Identity, app.cfg.Period)
		if err != nil {
			return err
		}

		s := report.Summarize(snap.Transactions)
		fmt.Printf("Period:         %s\n", app.cfg.Period)
		fmt.Printf("Total income:   %s\n", s.TotalIncome.StringFixed(2))
		fmt.Printf("Total expenses: %s\n", s.TotalExpenses.StringFixed(2))
		fmt.Printf("Net:            %s\n", s.Net.StringFixed(2))
		fmt.Printf("Pending review: %d\n", s.PendingCount)
		return nil
	},
}

var reportIncomeStatementCmd = &cobra.Command{
	Use:   "income-statement",
	Short: "Income statement for the active period",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatement(cmd, report.IncomeStatement)
	},
}

var reportCashFlowCmd = &cobra.Command{
	Use:   "cash-flow",
	Short: "Cash flow statement for the active period",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatement(cmd, report.CashFlow)
	},
}

func runStatement(cmd *cobra.Command, build func([]ledger.Transaction, string) *report.Statement) error {
	snap, err := app.ledger.Load(cmd.Context(), app.cfg.Identity, app.cfg.Period)
	if err != nil {
		return err
	}

	stmt := build(ledger.Reviewed(snap.Transactions), app.cfg.Period)

	if reportPDFPath != "" {
		f, err := os.Create(reportPDFPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.FinancialReportPDF(f, stmt, snap.Business); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", reportPDFPath)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Revenue\t\n")
	for _, ct := range stmt.Revenue {
		fmt.Fprintf(w, "  %s\t%s\n", ct.Category, ct.Amount.StringFixed(2))
	}
	fmt.Fprintf(w, "Total revenue\t%s\n", stmt.TotalRevenue.StringFixed(2))
	fmt.Fprintf(w, "Expenses\t\n")
	for _, ct := range stmt.Expenses {
		fmt.Fprintf(w, "  %s\t%s\n", ct.Category, ct.Amount.StringFixed(2))
	}
	fmt.Fprintf(w, "Total expenses\t%s\n", stmt.TotalExpenses.StringFixed(2))
	fmt.Fprintf(w, "Net\t%s\n", stmt.Net.StringFixed(2))
	return w.Flush()
}

var reportCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Category breakdown with percentage shares",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := app.ledger.Load(cmd.Context(), app.cfg.Identity, app.cfg.Period)
		if err != nil {
			return err
		}

		a := report.CategoryAnalysis(ledger.Reviewed(snap.Transactions), app.cfg.Period)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "Income\t\t")
		for _, s := range a.Income {
			fmt.Fprintf(w, "  %s\t%s\t%.1f%%\n", s.Category, s.Amount.StringFixed(2), s.Percent)
		}
		fmt.Fprintln(w, "Expenses\t\t")
		for _, s := range a.Expenses {
			fmt.Fprintf(w, "  %s\t%s\t%.1f%%\n", s.Category, s.Amount.StringFixed(2), s.Percent)
		}
		return w.Flush()
	},
}

var reportCompareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two periods' reviewed figures",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ValidatePeriod(compareFrom); err != nil {
			return err
		}
		if err := config.ValidatePeriod(compareTo); err != nil {
			return err
		}

		cmp, err := app.reports.Comparison(cmd.Context(), app.cfg.Identity, compareFrom, compareTo)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "\t%s\t%s\tchange\t%%\n", cmp.From.Period, cmp.To.Period)
		fmt.Fprintf(w, "Income\t%s\t%s\t%s\t%s\n",
			cmp.From.Income.StringFixed(2), cmp.To.Income.StringFixed(2),
			cmp.Income.Amount.StringFixed(2), percent(cmp.Income.Percent))
		fmt.Fprintf(w, "Expenses\t%s\t%s\t%s\t%s\n",
			cmp.From.Expenses.StringFixed(2), cmp.To.Expenses.StringFixed(2),
			cmp.Expenses.Amount.StringFixed(2), percent(cmp.Expenses.Percent))
		fmt.Fprintf(w, "Net\t%s\t%s\t%s\t%s\n",
			cmp.From.Net.StringFixed(2), cmp.To.Net.StringFixed(2),
			cmp.Net.Amount.StringFixed(2), percent(cmp.Net.Percent))
		return w.Flush()
	},
}

func percent(p float64) string {
	if math.IsNaN(p) {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", p)
}

var reportTaxCmd = &cobra.Command{
	Use:   "tax <year>",
	Short: "Annual tax estimate across all twelve periods",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var year int
		if _, err := fmt.Sscanf(args[0], "%d", &year); err != nil || year < 1900 || year > 9999 {
			return fmt.Errorf("invalid year %q", args[0])
		}

		tax, err := app.reports.TaxSummary(cmd.Context(), app.cfg.Identity, year)
		if err != nil {
			return err
		}

		if reportPDFPath != "" {
			snap, err := app.ledger.Load(cmd.Context(), app.cfg.Identity, app.cfg.Period)
			if err != nil {
				return err
			}
			f, err := os.Create(reportPDFPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := export.TaxSummaryPDF(f, tax, snap.Business); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", reportPDFPath)
			return nil
		}

		fmt.Printf("Tax year %d\n", tax.Year)
		fmt.Printf("Gross receipts:       %s\n", tax.BusinessIncome.StringFixed(2))
		fmt.Printf("Deductible expenses:  %s\n", tax.DeductibleExpenses.StringFixed(2))
		fmt.Printf("Net business income:  %s\n", tax.NetIncome.StringFixed(2))
		fmt.Printf("Est. SE tax (15.3%%):  %s\n", tax.SelfEmploymentTax.StringFixed(2))
		if len(tax.Deductions) > 0 {
			fmt.Println("Deductions by category:")
			for _, d := range tax.Deductions {
				fmt.Printf("  %-20s %s\n", d.Category, d.Amount.StringFixed(2))
			}
		}
		return nil
	},
}

var exportXLSXCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export the period's reviewed transactions to XLSX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := app.ledger.Load(cmd.Context(), app.cfg.Identity, app.cfg.Period)
		if err != nil {
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		if err := export.TransactionsXLSX(f, ledger.Reviewed(snap.Transactions)); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", args[0])
		return nil
	},
}

func init() {
	reportIncomeStatementCmd.Flags().StringVar(&reportPDFPath, "pdf", "", "write the report as a PDF to this path")
	reportCashFlowCmd.Flags().StringVar(&reportPDFPath, "pdf", "", "write the report as a PDF to this path")
	reportTaxCmd.Flags().StringVar(&reportPDFPath, "pdf", "", "write the report as a PDF to this path")

	reportCompareCmd.Flags().StringVar(&compareFrom, "from", "", "base period (YYYY-MM)")
	reportCompareCmd.Flags().StringVar(&compareTo, "to", "", "comparison period (YYYY-MM)")
	reportCompareCmd.MarkFlagRequired("from")
	reportCompareCmd.MarkFlagRequired("to")

	reportCmd.AddCommand(reportSummaryCmd, reportIncomeStatementCmd, reportCashFlowCmd, reportCategoriesCmd, reportCompareCmd, reportTaxCmd)
	rootCmd.AddCommand(reportCmd, exportXLSXCmd)
}
