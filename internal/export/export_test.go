package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hirosato/bookkeeper/internal/domain/ledger"
	"github.com/hirosato/bookkeeper/internal/domain/report"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFinancialReportPDF(t *testing.T) {
	stmt := &report.Statement{
		Period:        "2026-01",
		Revenue:       []report.CategoryTotal{{Category: "Consulting", Amount: dec("1200")}},
		TotalRevenue:  dec("1200"),
		Expenses:      []report.CategoryTotal{{Category: "Meals", Amount: dec("60")}},
		TotalExpenses: dec("60"),
		Net:           dec("1140"),
	}
	business := ledger.BusinessInfo{Name: "Acme LLC", TaxID: "12-3456789"}

	var buf bytes.Buffer
	require.NoError(t, FinancialReportPDF(&buf, stmt, business))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestTaxSummaryPDF(t *testing.T) {
	tax := &report.TaxSummary{
		Year:               2026,
		BusinessIncome:     dec("8000"),
		DeductibleExpenses: dec("1500"),
		NetIncome:          dec("6500"),
		SelfEmploymentTax:  dec("994.5"),
		Deductions:         []report.CategoryTotal{{Category: "Rent", Amount: dec("1000")}},
	}

	var buf bytes.Buffer
	require.NoError(t, TaxSummaryPDF(&buf, tax, ledger.BusinessInfo{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestTransactionsXLSX(t *testing.T) {
	txns := []ledger.Transaction{
		{Date: "2026-01-05", Type: ledger.Expense, Category: "Meals", Description: "Coffee",
			Vendor: "Blue Bottle", Amount: dec("4.50"), PaymentMethod: "Credit Card"},
		{Date: "2026-01-06", Type: ledger.Income, Category: "Consulting", Description: "Invoice 42",
			Vendor: "Acme Corp", Amount: dec("1200"), PaymentMethod: "Bank Transfer"},
	}

	var buf bytes.Buffer
	require.NoError(t, TransactionsXLSX(&buf, txns))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Transactions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, transactionColumns, rows[0])
	assert.Equal(t, "Coffee", rows[1][3])
	assert.Equal(t, "expense", rows[1][1])
	assert.Equal(t, "Invoice 42", rows[2][3])
}
