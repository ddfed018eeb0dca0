package ledger

import (
	"context"
)

// Repository defines the interface for ledger data operations. It is the only
// path to the durable store for ledger data; no other component reads or
// writes it directly.
//
// Load operations never fail on absent data: a missing transaction list is an
// empty list, a missing period status is an open period, missing business
// info is the zero value.
type Repository interface {
	// Load the full transaction list for a period, tombstones included
	LoadTransactions(ctx context.Context, identity, period string) ([]Transaction, error)

	// Persist the full transaction list for a period, replacing the prior value
	SaveTransactions(ctx context.Context, identity, period string, txns []Transaction) error

	// Load the period-status record, defaulting to open
	LoadPeriodStatus(ctx context.Context, identity, period string) (PeriodStatus, error)

	// Persist the period-status record
	SavePeriodStatus(ctx context.Context, identity, period string, status PeriodStatus) error

	// Load the business info for an identity
	LoadBusinessInfo(ctx context.Context, identity string) (BusinessInfo, error)

	// Persist the business info for an identity
	SaveBusinessInfo(ctx context.Context, identity string, info BusinessInfo) error
}

// Confirmer is the confirmation capability injected into destructive
// operations. Implementations return the operator's decision; they must not
// mutate any state.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// ConfirmAll approves every prompt. Used by callers whose boundary has
// already collected confirmation (HTTP clients, --yes flags).
var ConfirmAll Confirmer = ConfirmerFunc(func(string) bool { return true })
