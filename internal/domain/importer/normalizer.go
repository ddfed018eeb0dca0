// Package importer converts tabular rows (CSV or spreadsheet) into
// transaction records. Columns are located by header keyword, dates are
// normalized best-effort, and rows with unparseable amounts are skipped
// silently rather than failing the batch.
package importer

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	date "github.com/joyt/godate"
	"github.com/shopspring/decimal"

	"github.com/hirosato/bookkeeper/internal/domain/errors"
	"github.com/hirosato/bookkeeper/internal/domain/ledger"
)

// excelEpoch is the spreadsheet serial-date epoch. A numeric date cell is a
// day-count offset from 1899-12-30.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// columns holds the detected column indices; -1 means absent.
type columns struct {
	date     int
	desc     int
	amount   int
	typ      int
	category int
}

// Result reports the outcome of an import.
type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Service runs imports against the transaction lifecycle: normalize the
// rows, then append them in one batch with a single save.
type Service struct {
	ledger *ledger.Service
	logger *slog.Logger
}

// NewService creates a new import service
func NewService(ledgerSvc *ledger.Service, logger *slog.Logger) *Service {
	return &Service{
		ledger: ledgerSvc,
		logger: logger,
	}
}

// ImportRows imports tabular rows (first row = header) into a period. The
// period lock is checked before any row is touched, so a closed period
// rejects the whole operation with nothing written. When classify is set and
// the file carries no usable category, categories are suggested from the
// identity's existing reviewed transactions.
func (s *Service) ImportRows(ctx context.Context, identity, period string, rows [][]string, classify bool) (*Result, error) {
	if err := s.ledger.EnsureOpen(ctx, identity, period); err != nil {
		return nil, err
	}

	var clf *Classifier
	if classify {
		snap, err := s.ledger.Load(ctx, identity, period)
		if err != nil {
			return nil, err
		}
		clf = TrainClassifier(ledger.Reviewed(snap.Transactions))
	}

	reqs, skipped, err := NormalizeRows(rows, clf)
	if err != nil {
		return nil, err
	}
	imported, err := s.ledger.AppendBatch(ctx, identity, period, reqs)
	if err != nil {
		return nil, err
	}
	s.logger.Info("import finished", "period", period, "imported", imported, "skipped", skipped)
	return &Result{Imported: imported, Skipped: skipped}, nil
}

// NormalizeRows converts tabular rows into creation requests. The first row
// is the header. Returns the requests and the number of rows skipped for
// unparseable amounts. clf may be nil.
func NormalizeRows(rows [][]string, clf *Classifier) ([]ledger.CreateTransactionRequest, int, error) {
	if len(rows) < 2 {
		return nil, 0, errors.NewSchemaError("import file needs a header row and at least one data row")
	}
	cols, err := detectColumns(rows[0])
	if err != nil {
		return nil, 0, err
	}

	var reqs []ledger.CreateTransactionRequest
	skipped := 0
	for _, row := range rows[1:] {
		amount, err := decimal.NewFromString(strings.TrimSpace(cell(row, cols.amount)))
		if err != nil {
			skipped++
			continue
		}

		desc := cell(row, cols.desc)
		if desc == "" {
			desc = "Imported transaction"
		}

		category := ""
		if cols.category >= 0 {
			category = strings.TrimSpace(cell(row, cols.category))
		}
		if category == "" && clf != nil {
			if suggested, ok := clf.Suggest(desc); ok {
				category = suggested
			}
		}
		if category == "" {
			category = "Uncategorized"
		}

		reqs = append(reqs, ledger.CreateTransactionRequest{
			Date:          NormalizeDate(cell(row, cols.date)),
			Type:          rowType(row, cols, amount),
			Amount:        amount.Abs(),
			Category:      category,
			Description:   desc,
			PaymentMethod: "Other",
			Notes:         "Imported from file",
			Reviewed:      false,
		})
	}
	return reqs, skipped, nil
}

// NormalizeDate converts a cell value to YYYY-MM-DD. Numeric cells are
// spreadsheet serial dates; strings are parsed leniently; anything else is
// passed through unchanged.
func NormalizeDate(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return value
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		d := excelEpoch.Add(time.Duration(serial * float64(24*time.Hour)))
		return d.Format("2006-01-02")
	}
	if parsed, err := date.Parse(v); err == nil {
		return parsed.Format("2006-01-02")
	}
	return value
}

// detectColumns locates columns by case-insensitive substring match on the
// header text. Date, description and amount are required.
func detectColumns(header []string) (columns, error) {
	cols := columns{date: -1, desc: -1, amount: -1, typ: -1, category: -1}
	for i, h := range header {
		h = strings.ToLower(h)
		switch {
		case cols.date < 0 && strings.Contains(h, "date"):
			cols.date = i
		case cols.desc < 0 && strings.Contains(h, "desc"):
			cols.desc = i
		case cols.amount < 0 && strings.Contains(h, "amount"):
			cols.amount = i
		case cols.typ < 0 && strings.Contains(h, "type"):
			cols.typ = i
		case cols.category < 0 && strings.Contains(h, "cat"):
			cols.category = i
		}
	}
	var missing []string
	if cols.date < 0 {
		missing = append(missing, "Date")
	}
	if cols.desc < 0 {
		missing = append(missing, "Description")
	}
	if cols.amount < 0 {
		missing = append(missing, "Amount")
	}
	if len(missing) > 0 {
		return cols, errors.NewSchemaError("required columns missing: " + strings.Join(missing, ", "))
	}
	return cols, nil
}

// rowType resolves the transaction type: an explicit, recognizable type cell
// wins; otherwise a positive amount means income and anything else expense.
func rowType(row []string, cols columns, amount decimal.Decimal) ledger.TransactionType {
	if cols.typ >= 0 {
		t := ledger.TransactionType(strings.ToLower(strings.TrimSpace(cell(row, cols.typ))))
		if t.Valid() {
			return t
		}
	}
	if amount.IsPositive() {
		return ledger.Income
	}
	return ledger.Expense
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
