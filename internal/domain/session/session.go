// Package session holds the mutable state of one operator working one
// period: the loaded ledger snapshot and the selection set for bulk
// operations. It replaces ambient globals so independent sessions can
// coexist and be tested in isolation.
package session

import (
	"context"
	"sort"

	"github.com/hirosato/bookkeeper/internal/domain/ledger"
	"github.com/hirosato/bookkeeper/internal/domain/period"
)

// Session is one operator's working context. Not safe for concurrent use;
// the usage model is a single operator driving one operation at a time.
type Session struct {
	identity string
	period   string

	ledger  *ledger.Service
	periods *period.Service

	snapshot  *ledger.Snapshot
	selection map[string]struct{}
}

// New creates a session for an identity and period. Call Reload before the
// first read.
func New(identity, activePeriod string, ledgerSvc *ledger.Service, periodSvc *period.Service) *Session {
	return &Session{
		identity:  identity,
		period:    activePeriod,
		ledger:    ledgerSvc,
		periods:   periodSvc,
		selection: make(map[string]struct{}),
	}
}

// Reload re-reads the ledger state for the active period.
func (s *Session) Reload(ctx context.Context) error {
	snap, err := s.ledger.Load(ctx, s.identity, s.period)
	if err != nil {
		return err
	}
	s.snapshot = snap
	return nil
}

// SetPeriod switches the active period, reloading state and clearing the
// selection set.
func (s *Session) SetPeriod(ctx context.Context, p string) error {
	s.period = p
	s.ClearSelection()
	return s.Reload(ctx)
}

func (s *Session) Identity() string { return s.identity }
func (s *Session) Period() string   { return s.period }

// Transactions returns the live transactions of the loaded snapshot.
func (s *Session) Transactions() []ledger.Transaction {
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.Transactions
}

// Status returns the period lock state of the loaded snapshot.
func (s *Session) Status() ledger.PeriodStatus {
	if s.snapshot == nil {
		return ledger.PeriodStatus{}
	}
	return s.snapshot.Status
}

// Business returns the loaded business info.
func (s *Session) Business() ledger.BusinessInfo {
	if s.snapshot == nil {
		return ledger.BusinessInfo{}
	}
	return s.snapshot.Business
}

// Filter applies the filter engine to the loaded live transactions.
func (s *Session) Filter(f ledger.Filter) []ledger.Transaction {
	return ledger.ApplyFilters(s.Transactions(), f)
}

// Select adds a transaction id to the selection set.
func (s *Session) Select(id string) { s.selection[id] = struct{}{} }

// Deselect removes a transaction id from the selection set.
func (s *Session) Deselect(id string) { delete(s.selection, id) }

// SelectAll selects every loaded live transaction.
func (s *Session) SelectAll() {
	for _, t := range s.Transactions() {
		s.selection[t.ID] = struct{}{}
	}
}

// ClearSelection empties the selection set.
func (s *Session) ClearSelection() { s.selection = make(map[string]struct{}) }

// SelectedIDs returns the selected ids, sorted for determinism.
func (s *Session) SelectedIDs() []string {
	ids := make([]string, 0, len(s.selection))
	for id := range s.selection {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SelectionCount returns the number of selected transactions.
func (s *Session) SelectionCount() int { return len(s.selection) }

// Create adds a transaction to the active period and reloads.
func (s *Session) Create(ctx context.Context, req ledger.CreateTransactionRequest) (*ledger.Transaction, error) {
	txn, err := s.ledger.Create(ctx, s.identity, s.period, req)
	if err != nil {
		return nil, err
	}
	return txn, s.Reload(ctx)
}

// ToggleReview flips a transaction's reviewed flag and reloads.
func (s *Session) ToggleReview(ctx context.Context, id string) (*ledger.Transaction, error) {
	txn, err := s.ledger.ToggleReview(ctx, s.identity, s.period, id)
	if err != nil {
		return nil, err
	}
	return txn, s.Reload(ctx)
}

// Delete tombstones a transaction and reloads.
func (s *Session) Delete(ctx context.Context, id string) error {
	if err := s.ledger.Delete(ctx, s.identity, s.period, id); err != nil {
		return err
	}
	s.Deselect(id)
	return s.Reload(ctx)
}

// BulkReviewSelected reviews every selected transaction. The selection set
// is cleared only after the operation succeeds.
func (s *Session) BulkReviewSelected(ctx context.Context) (int, error) {
	updated, err := s.ledger.BulkReview(ctx, s.identity, s.period, s.SelectedIDs())
	if err != nil {
		return 0, err
	}
	s.ClearSelection()
	return updated, s.Reload(ctx)
}

// BulkDeleteSelected tombstones every selected transaction. The selection
// set is cleared only after the operation succeeds.
func (s *Session) BulkDeleteSelected(ctx context.Context) (int, error) {
	deleted, err := s.ledger.BulkDelete(ctx, s.identity, s.period, s.SelectedIDs())
	if err != nil {
		return 0, err
	}
	s.ClearSelection()
	return deleted, s.Reload(ctx)
}

// ClosePeriod closes the active period and reloads so subsequent reads see
// the lock immediately.
func (s *Session) ClosePeriod(ctx context.Context) error {
	if err := s.periods.Close(ctx, s.identity, s.period); err != nil {
		return err
	}
	return s.Reload(ctx)
}

// ReopenPeriod reopens the active period and reloads.
func (s *Session) ReopenPeriod(ctx context.Context) error {
	if err := s.periods.Reopen(ctx, s.identity, s.period); err != nil {
		return err
	}
	return s.Reload(ctx)
}
