package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/bookkeeper/internal/domain/errors"
	"github.com/hirosato/bookkeeper/internal/domain/ledger"
	"github.com/hirosato/bookkeeper/internal/platform/storage"
	"github.com/hirosato/bookkeeper/internal/platform/storage/memory"
)

const testIdentity = "owner@example.com"

func newTestService(confirm ledger.Confirmer) (*Service, *memory.Store) {
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(store, confirm, nil, logger), store
}

func seed(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, storage.TransactionsKey(testIdentity, "2026-01"), `[{"id":"a"}]`))
	require.NoError(t, store.Put(ctx, storage.TransactionsKey(testIdentity, "2026-02"), `[{"id":"b"}]`))
	require.NoError(t, store.Put(ctx, storage.PeriodStatusKey(testIdentity, "2026-01"), `{"closed":true}`))
	require.NoError(t, store.Put(ctx, storage.BusinessInfoKey(testIdentity), `{"name":"Acme","taxId":"12-345","address":""}`))
	// Another identity's data must never leak into the bundle.
	require.NoError(t, store.Put(ctx, storage.TransactionsKey("other@example.com", "2026-01"), `[{"id":"z"}]`))
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(ledger.ConfirmAll)
	seed(t, store)

	bundle, err := svc.Export(ctx, testIdentity)
	require.NoError(t, err)

	assert.Equal(t, BundleVersion, bundle.Version)
	assert.Len(t, bundle.Transactions, 2)
	assert.Equal(t, `[{"id":"a"}]`, bundle.Transactions[storage.TransactionsKey(testIdentity, "2026-01")])
	assert.Len(t, bundle.Periods, 1)
	assert.Equal(t, "Acme", bundle.BusinessInfo.Name)
	assert.Equal(t, "12-345", bundle.BusinessInfo.TaxID)
}

func TestImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src, srcStore := newTestService(ledger.ConfirmAll)
	seed(t, srcStore)

	bundle, err := src.Export(ctx, testIdentity)
	require.NoError(t, err)

	invalidated := false
	dstStore := memory.NewStore()
	dst := NewService(dstStore, ledger.ConfirmAll, func() { invalidated = true },
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, dst.Import(ctx, testIdentity, bundle))
	assert.True(t, invalidated)

	// values restored verbatim
	raw, ok, err := dstStore.Get(ctx, storage.TransactionsKey(testIdentity, "2026-01"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, raw)

	raw, ok, err = dstStore.Get(ctx, storage.PeriodStatusKey(testIdentity, "2026-01"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"closed":true}`, raw)

	// the other identity's data was never exported
	_, ok, err = dstStore.Get(ctx, storage.TransactionsKey("other@example.com", "2026-01"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecode(t *testing.T) {
	bundle, err := Decode([]byte(`{"transactions":{},"periods":{},"version":"2.0"}`))
	require.NoError(t, err)
	assert.Equal(t, "2.0", bundle.Version)

	_, err = Decode([]byte(`not json`))
	require.Error(t, err)
	assert.True(t, errors.NewParseError("", nil).Is(err))
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("never backed up", func(t *testing.T) {
		svc, _ := newTestService(ledger.ConfirmAll)

		st, err := svc.Status(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "never", st.State)
		assert.Empty(t, st.Message)

		st, err = svc.Status(ctx, 25)
		require.NoError(t, err)
		assert.Equal(t, "never", st.State)
		assert.Contains(t, st.Message, "25 transactions")
	})

	t.Run("fresh backup is ok", func(t *testing.T) {
		svc, _ := newTestService(ledger.ConfirmAll)
		require.NoError(t, svc.RecordBackup(ctx))

		st, err := svc.Status(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, "ok", st.State)
		assert.Zero(t, st.DaysSince)
	})

	t.Run("aging backups escalate", func(t *testing.T) {
		svc, store := newTestService(ledger.ConfirmAll)

		old := time.Now().UTC().AddDate(0, 0, -20).Format(time.RFC3339)
		require.NoError(t, store.Put(ctx, storage.LastBackupKey, old))
		st, err := svc.Status(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "due-soon", st.State)

		older := time.Now().UTC().AddDate(0, 0, -45).Format(time.RFC3339)
		require.NoError(t, store.Put(ctx, storage.LastBackupKey, older))
		st, err = svc.Status(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "overdue", st.State)
		assert.Contains(t, st.Message, "since your last backup")
	})

	t.Run("unparseable record counts as never", func(t *testing.T) {
		svc, store := newTestService(ledger.ConfirmAll)
		require.NoError(t, store.Put(ctx, storage.LastBackupKey, "yesterday-ish"))

		st, err := svc.Status(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, "never", st.State)
	})
}

func TestWarningDismissal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(ledger.ConfirmAll)

	dismissed, err := svc.WarningDismissed(ctx)
	require.NoError(t, err)
	assert.False(t, dismissed)

	require.NoError(t, svc.DismissWarning(ctx))

	dismissed, err = svc.WarningDismissed(ctx)
	require.NoError(t, err)
	assert.True(t, dismissed)
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed clear removes only the identity's keys", func(t *testing.T) {
		svc, store := newTestService(ledger.ConfirmAll)
		seed(t, store)

		require.NoError(t, svc.ClearAll(ctx, testIdentity))

		for _, prefix := range storage.IdentityKeyPrefixes(testIdentity) {
			keys, err := store.Keys(ctx, prefix)
			require.NoError(t, err)
			assert.Empty(t, keys, fmt.Sprintf("keys remain under %s", prefix))
		}

		_, ok, err := store.Get(ctx, storage.TransactionsKey("other@example.com", "2026-01"))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("declined clear removes nothing", func(t *testing.T) {
		svc, store := newTestService(ledger.ConfirmerFunc(func(string) bool { return false }))
		seed(t, store)
		before := store.Len()

		err := svc.ClearAll(ctx, testIdentity)
		require.Error(t, err)
		assert.True(t, errors.NewConfirmationDeclinedError("").Is(err))
		assert.Equal(t, before, store.Len())
	})
}
