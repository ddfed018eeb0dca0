package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/bookkeeper/internal/domain/errors"
)

// testRepository is an in-memory Repository that counts writes so tests can
// assert that rejected operations never touch the store.
type testRepository struct {
	txns     map[string][]Transaction
	statuses map[string]PeriodStatus
	business map[string]BusinessInfo
	saves    int
}

func newTestRepository() *testRepository {
	return &testRepository{
		txns:     make(map[string][]Transaction),
		statuses: make(map[string]PeriodStatus),
		business: make(map[string]BusinessInfo),
	}
}

func (r *testRepository) key(identity, period string) string { return identity + "/" + period }

func (r *testRepository) LoadTransactions(ctx context.Context, identity, period string) ([]Transaction, error) {
	return append([]Transaction(nil), r.txns[r.key(identity, period)]...), nil
}

func (r *testRepository) SaveTransactions(ctx context.Context, identity, period string, txns []Transaction) error {
	r.txns[r.key(identity, period)] = append([]Transaction(nil), txns...)
	r.saves++
	return nil
}

func (r *testRepository) LoadPeriodStatus(ctx context.Context, identity, period string) (PeriodStatus, error) {
	return r.statuses[r.key(identity, period)], nil
}

func (r *testRepository) SavePeriodStatus(ctx context.Context, identity, period string, status PeriodStatus) error {
	r.statuses[r.key(identity, period)] = status
	return nil
}

func (r *testRepository) LoadBusinessInfo(ctx context.Context, identity string) (BusinessInfo, error) {
	return r.business[identity], nil
}

func (r *testRepository) SaveBusinessInfo(ctx context.Context, identity string, info BusinessInfo) error {
	r.business[identity] = info
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const (
	testIdentity = "owner@example.com"
	testPeriod   = "2026-01"
)

func newTestService(repo *testRepository) *Service {
	return NewService(repo, ConfirmAll, testLogger())
}

func createRequest(desc string) CreateTransactionRequest {
	return CreateTransactionRequest{
		Date:        "2026-01-05",
		Type:        Expense,
		Amount:      decimal.RequireFromString("4.50"),
		Category:    "Meals",
		Description: desc,
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id, defaults and absolute amount", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)

		req := createRequest("Coffee")
		req.Amount = decimal.RequireFromString("-4.50")
		req.Category = ""

		txn, err := svc.Create(ctx, testIdentity, testPeriod, req)
		require.NoError(t, err)
		assert.NotEmpty(t, txn.ID)
		assert.Equal(t, "4.5", txn.Amount.String())
		assert.Equal(t, "Uncategorized", txn.Category)
		assert.False(t, txn.Reviewed)
		assert.False(t, txn.Deleted)

		stored, err := repo.LoadTransactions(ctx, testIdentity, testPeriod)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, txn.ID, stored[0].ID)
	})

	t.Run("distinct ids across creates", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)

		a, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("one"))
		require.NoError(t, err)
		b, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("two"))
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)

		req := createRequest("bad")
		req.Type = "transfer"
		_, err := svc.Create(ctx, testIdentity, testPeriod, req)
		require.Error(t, err)
		assert.True(t, errors.NewValidationError("").Is(err))
		assert.Zero(t, repo.saves)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)

		req := createRequest("bad date")
		req.Date = "01/05/2026"
		_, err := svc.Create(ctx, testIdentity, testPeriod, req)
		require.Error(t, err)
		assert.True(t, errors.NewValidationError("").Is(err))
	})

	t.Run("closed period rejects with PERIOD_LOCKED", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)
		require.NoError(t, repo.SavePeriodStatus(ctx, testIdentity, testPeriod, PeriodStatus{Closed: true}))
		repo.saves = 0

		_, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("locked"))
		require.Error(t, err)
		assert.True(t, errors.NewPeriodLockedError(testPeriod).Is(err))
		assert.Zero(t, repo.saves)
	})
}

func TestToggleReview(t *testing.T) {
	ctx := context.Background()

	t.Run("flips both ways", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)
		txn, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("toggle me"))
		require.NoError(t, err)

		updated, err := svc.ToggleReview(ctx, testIdentity, testPeriod, txn.ID)
		require.NoError(t, err)
		assert.True(t, updated.Reviewed)

		updated, err = svc.ToggleReview(ctx, testIdentity, testPeriod, txn.ID)
		require.NoError(t, err)
		assert.False(t, updated.Reviewed)
	})

	t.Run("unknown id is NOT_FOUND", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)

		_, err := svc.ToggleReview(ctx, testIdentity, testPeriod, "missing")
		require.Error(t, err)
		assert.True(t, errors.NewNotFoundError("").Is(err))
	})

	t.Run("closed period rejects", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)
		txn, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("then lock"))
		require.NoError(t, err)
		require.NoError(t, repo.SavePeriodStatus(ctx, testIdentity, testPeriod, PeriodStatus{Closed: true}))

		_, err = svc.ToggleReview(ctx, testIdentity, testPeriod, txn.ID)
		assert.True(t, errors.NewPeriodLockedError(testPeriod).Is(err))
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("tombstone stays in the persisted list", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)
		txn, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("delete me"))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, testIdentity, testPeriod, txn.ID))

		stored, err := repo.LoadTransactions(ctx, testIdentity, testPeriod)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.True(t, stored[0].Deleted)

		snap, err := svc.Load(ctx, testIdentity, testPeriod)
		require.NoError(t, err)
		assert.Empty(t, snap.Transactions)
	})

	t.Run("reviewed transaction is immutable", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)
		req := createRequest("reviewed")
		req.Reviewed = true
		txn, err := svc.Create(ctx, testIdentity, testPeriod, req)
		require.NoError(t, err)
		saves := repo.saves

		err = svc.Delete(ctx, testIdentity, testPeriod, txn.ID)
		require.Error(t, err)
		assert.True(t, errors.NewReviewedImmutableError(0).Is(err))
		assert.Equal(t, saves, repo.saves)
	})

	t.Run("declined confirmation writes nothing", func(t *testing.T) {
		repo := newTestRepository()
		svc := NewService(repo, ConfirmerFunc(func(string) bool { return false }), testLogger())
		txn, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("keep me"))
		require.NoError(t, err)
		saves := repo.saves

		err = svc.Delete(ctx, testIdentity, testPeriod, txn.ID)
		require.Error(t, err)
		assert.True(t, errors.NewConfirmationDeclinedError("").Is(err))
		assert.Equal(t, saves, repo.saves)
	})

	t.Run("already deleted id is NOT_FOUND", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)
		txn, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("twice"))
		require.NoError(t, err)
		require.NoError(t, svc.Delete(ctx, testIdentity, testPeriod, txn.ID))

		err = svc.Delete(ctx, testIdentity, testPeriod, txn.ID)
		assert.True(t, errors.NewNotFoundError("").Is(err))
	})
}

func TestBulkReview(t *testing.T) {
	ctx := context.Background()

	t.Run("skips reviewed and unknown ids", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)

		fresh, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("fresh"))
		require.NoError(t, err)
		already := createRequest("already reviewed")
		already.Reviewed = true
		done, err := svc.Create(ctx, testIdentity, testPeriod, already)
		require.NoError(t, err)

		updated, err := svc.BulkReview(ctx, testIdentity, testPeriod, []string{fresh.ID, done.ID, "ghost"})
		require.NoError(t, err)
		assert.Equal(t, 1, updated)

		stored, err := repo.LoadTransactions(ctx, testIdentity, testPeriod)
		require.NoError(t, err)
		for _, txn := range stored {
			assert.True(t, txn.Reviewed)
		}
	})

	t.Run("no matches saves nothing", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)
		saves := repo.saves

		updated, err := svc.BulkReview(ctx, testIdentity, testPeriod, []string{"ghost"})
		require.NoError(t, err)
		assert.Zero(t, updated)
		assert.Equal(t, saves, repo.saves)
	})
}

func TestBulkDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("one reviewed target blocks the whole batch", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)

		a, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("a"))
		require.NoError(t, err)
		reviewedReq := createRequest("b")
		reviewedReq.Reviewed = true
		b, err := svc.Create(ctx, testIdentity, testPeriod, reviewedReq)
		require.NoError(t, err)
		saves := repo.saves

		_, err = svc.BulkDelete(ctx, testIdentity, testPeriod, []string{a.ID, b.ID})
		require.Error(t, err)
		assert.True(t, errors.NewReviewedImmutableError(0).Is(err))
		assert.Equal(t, saves, repo.saves)

		snap, err := svc.Load(ctx, testIdentity, testPeriod)
		require.NoError(t, err)
		assert.Len(t, snap.Transactions, 2)
	})

	t.Run("deletes all unreviewed targets in one save", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)

		a, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("a"))
		require.NoError(t, err)
		b, err := svc.Create(ctx, testIdentity, testPeriod, createRequest("b"))
		require.NoError(t, err)
		saves := repo.saves

		deleted, err := svc.BulkDelete(ctx, testIdentity, testPeriod, []string{a.ID, b.ID})
		require.NoError(t, err)
		assert.Equal(t, 2, deleted)
		assert.Equal(t, saves+1, repo.saves)

		snap, err := svc.Load(ctx, testIdentity, testPeriod)
		require.NoError(t, err)
		assert.Empty(t, snap.Transactions)
	})
}

func TestAppendBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("single save for the whole batch", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)

		reqs := []CreateTransactionRequest{createRequest("one"), createRequest("two"), createRequest("three")}
		count, err := svc.AppendBatch(ctx, testIdentity, testPeriod, reqs)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, 1, repo.saves)
	})

	t.Run("closed period rejects before building anything", func(t *testing.T) {
		repo := newTestRepository()
		svc := newTestService(repo)
		require.NoError(t, repo.SavePeriodStatus(ctx, testIdentity, testPeriod, PeriodStatus{Closed: true}))
		repo.saves = 0

		_, err := svc.AppendBatch(ctx, testIdentity, testPeriod, []CreateTransactionRequest{createRequest("nope")})
		assert.True(t, errors.NewPeriodLockedError(testPeriod).Is(err))
		assert.Zero(t, repo.saves)
	})
}

func TestPeriodIsolation(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	svc := newTestService(repo)

	_, err := svc.Create(ctx, testIdentity, "2026-01", createRequest("january"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, testIdentity, "2026-02", createRequest("february"))
	require.NoError(t, err)

	jan, err := svc.Load(ctx, testIdentity, "2026-01")
	require.NoError(t, err)
	feb, err := svc.Load(ctx, testIdentity, "2026-02")
	require.NoError(t, err)

	require.Len(t, jan.Transactions, 1)
	require.Len(t, feb.Transactions, 1)
	assert.Equal(t, "january", jan.Transactions[0].Description)
	assert.Equal(t, "february", feb.Transactions[0].Description)
}
