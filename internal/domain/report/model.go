package report

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// Summary is the dashboard headline for one period. Totals cover the
// reviewed subset; PendingCount counts the unreviewed transactions still
// awaiting review.
type Summary struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Net           decimal.Decimal `json:"net"`
	PendingCount  int             `json:"pendingCount"`
}

// CategoryTotal is one category's summed amount.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Statement is an income statement or cash flow report for one period.
type Statement struct {
	Period        string          `json:"period"`
	Revenue       []CategoryTotal `json:"revenue"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	Expenses      []CategoryTotal `json:"expenses"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	Net           decimal.Decimal `json:"net"`
}

// CategoryShare is one category's amount and its share of the per-type
// total, in percent rounded to one decimal.
type CategoryShare struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  float64         `json:"percent"`
}

// Analysis breaks both transaction types down by category share.
type Analysis struct {
	Period   string          `json:"period"`
	Income   []CategoryShare `json:"income"`
	Expenses []CategoryShare `json:"expenses"`
}

// PeriodFigures are the headline numbers of one period inside a comparison.
type PeriodFigures struct {
	Period   string          `json:"period"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

// Delta is an absolute and percentage change between two periods. Percent is
// NaN when the change is undefined (zero base figure).
type Delta struct {
	Amount  decimal.Decimal `json:"amount"`
	Percent float64         `json:"percent"`
}

// MarshalJSON encodes an undefined percentage as null; encoding/json has no
// representation for NaN.
func (d Delta) MarshalJSON() ([]byte, error) {
	var percent interface{}
	if !math.IsNaN(d.Percent) {
		percent = d.Percent
	}
	return json.Marshal(struct {
		Amount  decimal.Decimal `json:"amount"`
		Percent interface{}     `json:"percent"`
	}{Amount: d.Amount, Percent: percent})
}

// Comparison holds the period-over-period deltas between two periods.
type Comparison struct {
	From     PeriodFigures `json:"from"`
	To       PeriodFigures `json:"to"`
	Income   Delta         `json:"incomeDelta"`
	Expenses Delta         `json:"expensesDelta"`
	Net      Delta         `json:"netDelta"`
}

// TaxSummary aggregates a whole tax year across its twelve monthly periods.
type TaxSummary struct {
	Year               int             `json:"year"`
	BusinessIncome     decimal.Decimal `json:"businessIncome"`
	DeductibleExpenses decimal.Decimal `json:"deductibleExpenses"`
	NetIncome          decimal.Decimal `json:"netIncome"`
	SelfEmploymentTax  decimal.Decimal `json:"selfEmploymentTax"`
	Deductions         []CategoryTotal `json:"deductions"`
}
