package session

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/bookkeeper/internal/domain/errors"
	"github.com/hirosato/bookkeeper/internal/domain/ledger"
	"github.com/hirosato/bookkeeper/internal/domain/period"
	"github.com/hirosato/bookkeeper/internal/platform/storage/memory"
	"github.com/hirosato/bookkeeper/internal/platform/storage/repository"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repository.NewLedgerRepository(memory.NewStore(), logger)
	ledgerSvc := ledger.NewService(repo, ledger.ConfirmAll, logger)
	periodSvc := period.NewService(repo, ledger.ConfirmAll, logger)

	s := New("owner@example.com", "2026-01", ledgerSvc, periodSvc)
	require.NoError(t, s.Reload(context.Background()))
	return s
}

func addExpense(t *testing.T, s *Session, desc string) *ledger.Transaction {
	t.Helper()
	txn, err := s.Create(context.Background(), ledger.CreateTransactionRequest{
		Date:        "2026-01-05",
		Type:        ledger.Expense,
		Amount:      decimal.RequireFromString("10"),
		Category:    "Meals",
		Description: desc,
	})
	require.NoError(t, err)
	return txn
}

func TestCreateReloads(t *testing.T) {
	s := newTestSession(t)
	assert.Empty(t, s.Transactions())

	addExpense(t, s, "coffee")
	assert.Len(t, s.Transactions(), 1)
}

func TestSelection(t *testing.T) {
	s := newTestSession(t)
	a := addExpense(t, s, "a")
	b := addExpense(t, s, "b")

	s.Select(a.ID)
	s.Select(b.ID)
	s.Select(a.ID) // idempotent
	assert.Equal(t, 2, s.SelectionCount())

	s.Deselect(b.ID)
	assert.Equal(t, []string{a.ID}, s.SelectedIDs())

	s.SelectAll()
	assert.Equal(t, 2, s.SelectionCount())

	s.ClearSelection()
	assert.Zero(t, s.SelectionCount())
}

func TestBulkReviewSelectedClearsSelection(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	a := addExpense(t, s, "a")
	b := addExpense(t, s, "b")

	s.Select(a.ID)
	s.Select(b.ID)

	updated, err := s.BulkReviewSelected(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)
	assert.Zero(t, s.SelectionCount())

	for _, txn := range s.Transactions() {
		assert.True(t, txn.Reviewed)
	}
}

func TestBulkDeleteSelectedKeepsSelectionOnFailure(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	a := addExpense(t, s, "a")
	b := addExpense(t, s, "b")

	_, err := s.ToggleReview(ctx, b.ID)
	require.NoError(t, err)

	s.Select(a.ID)
	s.Select(b.ID)

	_, err = s.BulkDeleteSelected(ctx)
	require.Error(t, err)
	assert.True(t, errors.NewReviewedImmutableError(0).Is(err))
	// failed bulk keeps the selection so the operator can fix and retry
	assert.Equal(t, 2, s.SelectionCount())
	assert.Len(t, s.Transactions(), 2)
}

func TestSetPeriodClearsSelection(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	a := addExpense(t, s, "january")
	s.Select(a.ID)

	require.NoError(t, s.SetPeriod(ctx, "2026-02"))
	assert.Equal(t, "2026-02", s.Period())
	assert.Zero(t, s.SelectionCount())
	assert.Empty(t, s.Transactions())

	require.NoError(t, s.SetPeriod(ctx, "2026-01"))
	assert.Len(t, s.Transactions(), 1)
}

func TestClosePeriodReflectsImmediately(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	addExpense(t, s, "before close")

	require.NoError(t, s.ClosePeriod(ctx))
	assert.True(t, s.Status().Closed)

	_, err := s.Create(ctx, ledger.CreateTransactionRequest{
		Date: "2026-01-10", Type: ledger.Expense, Amount: decimal.RequireFromString("5"), Description: "late",
	})
	require.Error(t, err)
	assert.True(t, errors.NewPeriodLockedError("2026-01").Is(err))

	require.NoError(t, s.ReopenPeriod(ctx))
	assert.False(t, s.Status().Closed)
}

func TestDeleteDeselects(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t)
	a := addExpense(t, s, "a")
	s.Select(a.ID)

	require.NoError(t, s.Delete(ctx, a.ID))
	assert.Zero(t, s.SelectionCount())
	assert.Empty(t, s.Transactions())
}

func TestFilter(t *testing.T) {
	s := newTestSession(t)
	addExpense(t, s, "coffee run")
	addExpense(t, s, "printer ink")

	got := s.Filter(ledger.Filter{Search: "coffee"})
	require.Len(t, got, 1)
	assert.Equal(t, "coffee run", got[0].Description)
}
