// Package report derives financial reports from a period's transactions.
// Every report operates on the reviewed, non-deleted subset; unreviewed and
// tombstoned transactions are invisible to all figures except the pending
// count.
package report

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/hirosato/bookkeeper/internal/domain/ledger"
)

// selfEmploymentTaxRate is the flat 15.3% estimate applied to positive net
// business income.
var selfEmploymentTaxRate = decimal.RequireFromString("0.153")

// Summarize computes the headline totals for a live transaction list. The
// pending count comes from the full live set, not the reviewed subset, since
// it reflects work still outstanding.
func Summarize(txns []ledger.Transaction) Summary {
	s := Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, t := range txns {
		if t.Deleted {
			continue
		}
		if !t.Reviewed {
			s.PendingCount++
			continue
		}
		switch t.Type {
		case ledger.Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case ledger.Expense:
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
		}
	}
	s.Net = s.TotalIncome.Sub(s.TotalExpenses)
	return s
}

// GroupByCategory sums amounts per category over the given transactions.
// The caller chooses the subset; no review filtering happens here.
func GroupByCategory(txns []ledger.Transaction) map[string]decimal.Decimal {
	grouped := make(map[string]decimal.Decimal)
	for _, t := range txns {
		grouped[t.Category] = grouped[t.Category].Add(t.Amount)
	}
	return grouped
}

// IncomeStatement builds the income statement for one period from its live
// transaction list.
func IncomeStatement(txns []ledger.Transaction, periodLabel string) *Statement {
	reviewed := ledger.Reviewed(txns)
	revenue := GroupByCategory(ofType(reviewed, ledger.Income))
	expenses := GroupByCategory(ofType(reviewed, ledger.Expense))

	st := &Statement{
		Period:        periodLabel,
		Revenue:       sortedTotals(revenue),
		TotalRevenue:  sumValues(revenue),
		Expenses:      sortedTotals(expenses),
		TotalExpenses: sumValues(expenses),
	}
	st.Net = st.TotalRevenue.Sub(st.TotalExpenses)
	return st
}

// CashFlow builds the cash flow report for one period. No accrual/cash
// timing distinction is modeled, so the computation is identical to the
// income statement over the reviewed set; this is a known simplification,
// not an oversight.
func CashFlow(txns []ledger.Transaction, periodLabel string) *Statement {
	return IncomeStatement(txns, periodLabel)
}

// CategoryAnalysis computes each category's share of its type's total,
// sorted descending by amount.
func CategoryAnalysis(txns []ledger.Transaction, periodLabel string) *Analysis {
	reviewed := ledger.Reviewed(txns)
	return &Analysis{
		Period:   periodLabel,
		Income:   shares(GroupByCategory(ofType(reviewed, ledger.Income))),
		Expenses: shares(GroupByCategory(ofType(reviewed, ledger.Expense))),
	}
}

// Service provides the reports that read periods straight from the store
// rather than from an already loaded snapshot.
type Service struct {
	repo ledger.Repository
}

// NewService creates a new reporting service
func NewService(repo ledger.Repository) *Service {
	return &Service{repo: repo}
}

// Comparison summarizes two periods independently, loading each from the
// store, and computes absolute and percentage deltas. The net percentage
// uses the absolute value of the first period's net as denominator and is
// NaN when that net is zero; income and expense percentages are likewise NaN
// on a zero base.
func (s *Service) Comparison(ctx context.Context, identity, periodA, periodB string) (*Comparison, error) {
	from, err := s.figures(ctx, identity, periodA)
	if err != nil {
		return nil, err
	}
	to, err := s.figures(ctx, identity, periodB)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		From:     from,
		To:       to,
		Income:   delta(from.Income, to.Income, from.Income),
		Expenses: delta(from.Expenses, to.Expenses, from.Expenses),
		Net:      delta(from.Net, to.Net, from.Net.Abs()),
	}
	return cmp, nil
}

// TaxSummary aggregates the reviewed transactions of all twelve monthly
// periods of a year and estimates self-employment tax on positive net
// income.
func (s *Service) TaxSummary(ctx context.Context, identity string, year int) (*TaxSummary, error) {
	var all []ledger.Transaction
	for month := 1; month <= 12; month++ {
		period := fmt.Sprintf("%04d-%02d", year, month)
		txns, err := s.repo.LoadTransactions(ctx, identity, period)
		if err != nil {
			return nil, err
		}
		all = append(all, ledger.Reviewed(txns)...)
	}

	income := sumAmounts(ofType(all, ledger.Income))
	expenses := sumAmounts(ofType(all, ledger.Expense))
	net := income.Sub(expenses)

	tax := decimal.Zero
	if net.IsPositive() {
		tax = net.Mul(selfEmploymentTaxRate)
	}

	return &TaxSummary{
		Year:               year,
		BusinessIncome:     income,
		DeductibleExpenses: expenses,
		NetIncome:          net,
		SelfEmploymentTax:  tax,
		Deductions:         sortedTotals(GroupByCategory(ofType(all, ledger.Expense))),
	}, nil
}

func (s *Service) figures(ctx context.Context, identity, period string) (PeriodFigures, error) {
	txns, err := s.repo.LoadTransactions(ctx, identity, period)
	if err != nil {
		return PeriodFigures{}, err
	}
	reviewed := ledger.Reviewed(txns)
	income := sumAmounts(ofType(reviewed, ledger.Income))
	expenses := sumAmounts(ofType(reviewed, ledger.Expense))
	return PeriodFigures{
		Period:   period,
		Income:   income,
		Expenses: expenses,
		Net:      income.Sub(expenses),
	}, nil
}

func delta(from, to, denominator decimal.Decimal) Delta {
	d := Delta{Amount: to.Sub(from), Percent: math.NaN()}
	if !denominator.IsZero() {
		pct, _ := d.Amount.Div(denominator).Float64()
		d.Percent = pct * 100
	}
	return d
}

func shares(grouped map[string]decimal.Decimal) []CategoryShare {
	total := sumValues(grouped)
	totals := sortedTotals(grouped)
	out := make([]CategoryShare, 0, len(totals))
	for _, ct := range totals {
		pct := 0.0
		if !total.IsZero() {
			p, _ := ct.Amount.Div(total).Float64()
			pct = math.Round(p*1000) / 10
		}
		out = append(out, CategoryShare{Category: ct.Category, Amount: ct.Amount, Percent: pct})
	}
	return out
}

func sortedTotals(grouped map[string]decimal.Decimal) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(grouped))
	for cat, amt := range grouped {
		out = append(out, CategoryTotal{Category: cat, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func sumValues(grouped map[string]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range grouped {
		sum = sum.Add(v)
	}
	return sum
}

func sumAmounts(txns []ledger.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		sum = sum.Add(t.Amount)
	}
	return sum
}

func ofType(txns []ledger.Transaction, tt ledger.TransactionType) []ledger.Transaction {
	out := make([]ledger.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Type == tt {
			out = append(out, t)
		}
	}
	return out
}
