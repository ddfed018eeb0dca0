// Package export renders reports and transaction lists to files an
// accountant can hand off: PDF for statements and tax summaries, XLSX for
// the raw transaction list.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/hirosato/bookkeeper/internal/domain/ledger"
	"github.com/hirosato/bookkeeper/internal/domain/report"
)

// FinancialReportPDF renders a period's income statement as a PDF: centered
// header, business block, revenue and expense tables, net income line.
func FinancialReportPDF(w io.Writer, stmt *report.Statement, business ledger.BusinessInfo) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "Financial Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Period: %s", stmt.Period), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	writeBusinessBlock(pdf, business)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Income Statement", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	revenue := append(append([]report.CategoryTotal{}, stmt.Revenue...),
		report.CategoryTotal{Category: "Total Revenue", Amount: stmt.TotalRevenue})
	writeTotalsTable(pdf, "Revenue Category", revenue)
	pdf.Ln(6)

	expenses := append(append([]report.CategoryTotal{}, stmt.Expenses...),
		report.CategoryTotal{Category: "Total Expenses", Amount: stmt.TotalExpenses})
	writeTotalsTable(pdf, "Expense Category", expenses)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, fmt.Sprintf("Net Income: %s", money(stmt.Net)), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}

// TaxSummaryPDF renders an annual tax estimate as a PDF: the Schedule C
// style summary followed by the deduction breakdown by category.
func TaxSummaryPDF(w io.Writer, tax *report.TaxSummary, business ledger.BusinessInfo) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "Tax Summary Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Tax Year: %d", tax.Year), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	writeBusinessBlock(pdf, business)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Schedule C Summary", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeTotalsTable(pdf, "", []report.CategoryTotal{
		{Category: "Gross Receipts (Income)", Amount: tax.BusinessIncome},
		{Category: "Total Deductible Expenses", Amount: tax.DeductibleExpenses},
		{Category: "Net Business Income", Amount: tax.NetIncome},
		{Category: "Est. Self-Employment Tax (15.3%)", Amount: tax.SelfEmploymentTax},
	})
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Expense Deductions by Category", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	writeTotalsTable(pdf, "Category", tax.Deductions)

	return pdf.Output(w)
}

func writeBusinessBlock(pdf *fpdf.Fpdf, business ledger.BusinessInfo) {
	if business.Name == "" {
		return
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, business.Name, "", 1, "L", false, 0, "")
	if business.TaxID != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Tax ID: %s", business.TaxID), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

// writeTotalsTable writes a two column category/amount table. An empty
// header label skips the header row.
func writeTotalsTable(pdf *fpdf.Fpdf, headerLabel string, rows []report.CategoryTotal) {
	const categoryWidth, amountWidth = 120.0, 50.0

	if headerLabel != "" {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(102, 126, 234)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(categoryWidth, 8, headerLabel, "1", 0, "L", true, 0, "")
		pdf.CellFormat(amountWidth, 8, "Amount", "1", 1, "R", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Helvetica", "", 11)
	for i, row := range rows {
		fill := i%2 == 1
		pdf.SetFillColor(240, 240, 245)
		pdf.CellFormat(categoryWidth, 7, row.Category, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(amountWidth, 7, money(row.Amount), "1", 1, "R", fill, 0, "")
	}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
