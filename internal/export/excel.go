package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hirosato/bookkeeper/internal/domain/ledger"
)

var transactionColumns = []string{"Date", "Type", "Category", "Description", "Vendor", "Amount", "Payment Method"}

// TransactionsXLSX writes the given transactions to a single "Transactions"
// worksheet, one row per transaction under a header row.
func TransactionsXLSX(w io.Writer, txns []ledger.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Transactions"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, col := range transactionColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
	}

	for i, txn := range txns {
		amount, _ := txn.Amount.Float64()
		values := []interface{}{
			txn.Date,
			string(txn.Type),
			txn.Category,
			txn.Description,
			txn.Vendor,
			amount,
			txn.PaymentMethod,
		}
		for j, v := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}
		}
	}

	return f.Write(w)
}
