package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out. The
// sign of a transaction is carried by its type; Amount is always a
// non-negative magnitude.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

// Transaction represents a single financial event within a period.
type Transaction struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"` // YYYY-MM-DD
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Vendor        string          `json:"vendor"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes"`
	Reviewed      bool            `json:"reviewed"`
	Deleted       bool            `json:"deleted"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CreateTransactionRequest represents the data needed to create a transaction
type CreateTransactionRequest struct {
	Date          string          `json:"date"`
	Type          TransactionType `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Vendor        string          `json:"vendor,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Reviewed      bool            `json:"reviewed,omitempty"`
}

// PeriodStatus is the per-period lock record. While Closed is true no
// transaction belonging to the period may be created, mutated, deleted or
// imported into; reports stay readable.
type PeriodStatus struct {
	Closed   bool       `json:"closed"`
	ClosedAt *time.Time `json:"closedAt,omitempty"`
}

// BusinessInfo holds the operator's business details, scoped to the identity
// alone rather than to a period.
type BusinessInfo struct {
	Name    string `json:"name"`
	TaxID   string `json:"taxId"`
	Address string `json:"address"`
}

// Snapshot is the loaded state of one (identity, period) ledger: the live
// transaction view (tombstones filtered out), the period lock state and the
// business info for the identity.
type Snapshot struct {
	Identity     string
	Period       string
	Transactions []Transaction
	Status       PeriodStatus
	Business     BusinessInfo
}

// Live returns the non-deleted subset of txns.
func Live(txns []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if !t.Deleted {
			out = append(out, t)
		}
	}
	return out
}

// Reviewed returns the reviewed, non-deleted subset of txns.
func Reviewed(txns []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if !t.Deleted && t.Reviewed {
			out = append(out, t)
		}
	}
	return out
}
