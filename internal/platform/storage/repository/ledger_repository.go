// Package repository implements the ledger.Repository contract over a
// storage.Store of JSON documents.
package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/hirosato/bookkeeper/internal/domain/errors"
	"github.com/hirosato/bookkeeper/internal/domain/ledger"
	"github.com/hirosato/bookkeeper/internal/platform/storage"
)

// LedgerRepository is the single gateway between ledger data and the durable
// store. Raw JSON values pass through a read cache that is refreshed on every
// save; corrupt stored documents are treated as absent rather than failing
// the load.
type LedgerRepository struct {
	store  storage.Store
	cache  *gocache.Cache
	logger *slog.Logger
}

var _ ledger.Repository = (*LedgerRepository)(nil)

// NewLedgerRepository creates a repository over store.
func NewLedgerRepository(store storage.Store, logger *slog.Logger) *LedgerRepository {
	return &LedgerRepository{
		store:  store,
		cache:  gocache.New(5*time.Minute, 10*time.Minute),
		logger: logger,
	}
}

// LoadTransactions returns the full persisted transaction list for the
// period, tombstones included. Absent or corrupt storage yields an empty
// list.
func (r *LedgerRepository) LoadTransactions(ctx context.Context, identity, period string) ([]ledger.Transaction, error) {
	key := storage.TransactionsKey(identity, period)
	raw, ok, err := r.getRaw(ctx, key)
	if err != nil {
		return nil, errors.NewInternalError("failed to read transactions", err)
	}
	if !ok {
		return []ledger.Transaction{}, nil
	}
	var txns []ledger.Transaction
	if err := json.Unmarshal([]byte(raw), &txns); err != nil {
		r.logger.Warn("corrupt transaction list, treating as empty", "key", key, "error", err)
		return []ledger.Transaction{}, nil
	}
	return txns, nil
}

// SaveTransactions persists the full transaction list, replacing any prior
// value.
func (r *LedgerRepository) SaveTransactions(ctx context.Context, identity, period string, txns []ledger.Transaction) error {
	key := storage.TransactionsKey(identity, period)
	raw, err := json.Marshal(txns)
	if err != nil {
		return errors.NewInternalError("failed to encode transactions", err)
	}
	if err := r.store.Put(ctx, key, string(raw)); err != nil {
		return errors.NewInternalError("failed to write transactions", err)
	}
	r.cache.Set(key, string(raw), gocache.DefaultExpiration)
	return nil
}

// LoadPeriodStatus returns the period lock record, defaulting to an open
// period when absent or corrupt.
func (r *LedgerRepository) LoadPeriodStatus(ctx context.Context, identity, period string) (ledger.PeriodStatus, error) {
	key := storage.PeriodStatusKey(identity, period)
	raw, ok, err := r.getRaw(ctx, key)
	if err != nil {
		return ledger.PeriodStatus{}, errors.NewInternalError("failed to read period status", err)
	}
	if !ok {
		return ledger.PeriodStatus{Closed: false}, nil
	}
	var status ledger.PeriodStatus
	if err := json.Unmarshal([]byte(raw), &status); err != nil {
		r.logger.Warn("corrupt period status, treating as open", "key", key, "error", err)
		return ledger.PeriodStatus{Closed: false}, nil
	}
	return status, nil
}

// SavePeriodStatus persists the period lock record.
func (r *LedgerRepository) SavePeriodStatus(ctx context.Context, identity, period string, status ledger.PeriodStatus) error {
	key := storage.PeriodStatusKey(identity, period)
	raw, err := json.Marshal(status)
	if err != nil {
		return errors.NewInternalError("failed to encode period status", err)
	}
	if err := r.store.Put(ctx, key, string(raw)); err != nil {
		return errors.NewInternalError("failed to write period status", err)
	}
	r.cache.Set(key, string(raw), gocache.DefaultExpiration)
	return nil
}

// LoadBusinessInfo returns the identity's business details, defaulting to
// the zero value when absent or corrupt.
func (r *LedgerRepository) LoadBusinessInfo(ctx context.Context, identity string) (ledger.BusinessInfo, error) {
	key := storage.BusinessInfoKey(identity)
	raw, ok, err := r.getRaw(ctx, key)
	if err != nil {
		return ledger.BusinessInfo{}, errors.NewInternalError("failed to read business info", err)
	}
	if !ok {
		return ledger.BusinessInfo{}, nil
	}
	var info ledger.BusinessInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		r.logger.Warn("corrupt business info, treating as empty", "key", key, "error", err)
		return ledger.BusinessInfo{}, nil
	}
	return info, nil
}

// SaveBusinessInfo persists the identity's business details.
func (r *LedgerRepository) SaveBusinessInfo(ctx context.Context, identity string, info ledger.BusinessInfo) error {
	key := storage.BusinessInfoKey(identity)
	raw, err := json.Marshal(info)
	if err != nil {
		return errors.NewInternalError("failed to encode business info", err)
	}
	if err := r.store.Put(ctx, key, string(raw)); err != nil {
		return errors.NewInternalError("failed to write business info", err)
	}
	r.cache.Set(key, string(raw), gocache.DefaultExpiration)
	return nil
}

// getRaw reads a raw JSON value through the cache. Misses are not cached so
// a later external write is picked up on the next read.
func (r *LedgerRepository) getRaw(ctx context.Context, key string) (string, bool, error) {
	if v, ok := r.cache.Get(key); ok {
		return v.(string), true, nil
	}
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil || !ok {
		return "", false, err
	}
	r.cache.Set(key, raw, gocache.DefaultExpiration)
	return raw, true, nil
}

// Invalidate drops every cached value. Called after writes that bypass the
// repository, such as a backup import.
func (r *LedgerRepository) Invalidate() {
	r.cache.Flush()
}
