// Package backup exports and restores the raw key-value state of an
// identity's books. The bundle round-trips values verbatim, below the ledger
// abstraction, so a restore reproduces the store byte for byte.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hako/durafmt"

	"github.com/hirosato/bookkeeper/internal/domain/errors"
	"github.com/hirosato/bookkeeper/internal/domain/ledger"
	"github.com/hirosato/bookkeeper/internal/platform/storage"
)

// BundleVersion identifies the export format.
const BundleVersion = "2.0"

// Reminder thresholds.
const (
	dueSoonAfterDays       = 14
	overdueAfterDays       = 30
	remindWithoutBackupMin = 10
)

// Bundle is the export file format. Transaction and period values are the
// raw stored JSON strings keyed by their storage keys.
type Bundle struct {
	Transactions map[string]string   `json:"transactions"`
	Periods      map[string]string   `json:"periods"`
	BusinessInfo ledger.BusinessInfo `json:"businessInfo"`
	ExportDate   time.Time           `json:"exportDate"`
	Version      string              `json:"version"`
}

// Status describes how fresh the last backup is.
type Status struct {
	LastBackup *time.Time `json:"lastBackup,omitempty"`
	DaysSince  int        `json:"daysSince"`
	State      string     `json:"state"` // never, ok, due-soon, overdue
	Message    string     `json:"message,omitempty"`
}

// Service provides backup export/import and the reminder bookkeeping.
type Service struct {
	store      storage.Store
	confirm    ledger.Confirmer
	invalidate func()
	logger     *slog.Logger
}

// NewService creates a new backup service. invalidate is called after any
// operation that writes to the store behind the ledger repository's cache;
// it may be nil.
func NewService(store storage.Store, confirm ledger.Confirmer, invalidate func(), logger *slog.Logger) *Service {
	return &Service{
		store:      store,
		confirm:    confirm,
		invalidate: invalidate,
		logger:     logger,
	}
}

// Export collects every transaction and period record of the identity into a
// bundle, values verbatim.
func (s *Service) Export(ctx context.Context, identity string) (*Bundle, error) {
	bundle := &Bundle{
		Transactions: make(map[string]string),
		Periods:      make(map[string]string),
		ExportDate:   time.Now().UTC(),
		Version:      BundleVersion,
	}

	if err := s.collect(ctx, storage.TransactionsKeyPrefix(identity), bundle.Transactions); err != nil {
		return nil, err
	}
	if err := s.collect(ctx, storage.PeriodStatusKeyPrefix(identity), bundle.Periods); err != nil {
		return nil, err
	}

	raw, ok, err := s.store.Get(ctx, storage.BusinessInfoKey(identity))
	if err != nil {
		return nil, errors.NewInternalError("failed to read business info", err)
	}
	if ok {
		// best effort; a corrupt record exports as empty business info
		_ = json.Unmarshal([]byte(raw), &bundle.BusinessInfo)
	}
	return bundle, nil
}

// Import writes every key-value pair of the bundle back into the store
// verbatim and records the business info under the identity's key.
func (s *Service) Import(ctx context.Context, identity string, bundle *Bundle) error {
	for key, value := range bundle.Transactions {
		if err := s.store.Put(ctx, key, value); err != nil {
			return errors.NewInternalError("failed to restore transactions", err)
		}
	}
	for key, value := range bundle.Periods {
		if err := s.store.Put(ctx, key, value); err != nil {
			return errors.NewInternalError("failed to restore period status", err)
		}
	}
	raw, err := json.Marshal(bundle.BusinessInfo)
	if err != nil {
		return errors.NewInternalError("failed to encode business info", err)
	}
	if err := s.store.Put(ctx, storage.BusinessInfoKey(identity), string(raw)); err != nil {
		return errors.NewInternalError("failed to restore business info", err)
	}
	if s.invalidate != nil {
		s.invalidate()
	}
	s.logger.Info("backup restored",
		"transactions", len(bundle.Transactions),
		"periods", len(bundle.Periods),
		"version", bundle.Version)
	return nil
}

// Decode parses a bundle from its JSON encoding.
func Decode(data []byte) (*Bundle, error) {
	var bundle Bundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, errors.NewParseError("invalid backup file", err)
	}
	return &bundle, nil
}

// RecordBackup stores the current time as the last successful backup.
func (s *Service) RecordBackup(ctx context.Context) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.store.Put(ctx, storage.LastBackupKey, now); err != nil {
		return errors.NewInternalError("failed to record backup date", err)
	}
	return nil
}

// Status reports backup freshness. txnCount is the current period's live
// transaction count, used to nag identities that have data but never backed
// up.
func (s *Service) Status(ctx context.Context, txnCount int) (*Status, error) {
	raw, ok, err := s.store.Get(ctx, storage.LastBackupKey)
	if err != nil {
		return nil, errors.NewInternalError("failed to read backup date", err)
	}
	if !ok {
		st := &Status{State: "never"}
		if txnCount > remindWithoutBackupMin {
			st.Message = fmt.Sprintf("You have %d transactions but no backup! Export your data now.", txnCount)
		}
		return st, nil
	}

	last, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return &Status{State: "never"}, nil
	}
	since := time.Since(last)
	st := &Status{
		LastBackup: &last,
		DaysSince:  int(since.Hours() / 24),
	}
	switch {
	case st.DaysSince > overdueAfterDays:
		st.State = "overdue"
		st.Message = fmt.Sprintf("It's been %s since your last backup! Export your data now to prevent loss.",
			durafmt.Parse(since).LimitFirstN(1))
	case st.DaysSince > dueSoonAfterDays:
		st.State = "due-soon"
		st.Message = "Backup soon recommended"
	default:
		st.State = "ok"
	}
	return st, nil
}

// DismissWarning records that the operator dismissed the storage warning.
func (s *Service) DismissWarning(ctx context.Context) error {
	if err := s.store.Put(ctx, storage.WarningDismissedKey, "true"); err != nil {
		return errors.NewInternalError("failed to dismiss warning", err)
	}
	return nil
}

// WarningDismissed reports whether the storage warning was dismissed.
func (s *Service) WarningDismissed(ctx context.Context) (bool, error) {
	raw, ok, err := s.store.Get(ctx, storage.WarningDismissedKey)
	if err != nil {
		return false, errors.NewInternalError("failed to read warning flag", err)
	}
	return ok && raw == "true", nil
}

// ClearAll deletes every stored key belonging to the identity. Confirmed,
// irreversible.
func (s *Service) ClearAll(ctx context.Context, identity string) error {
	if !s.confirm.Confirm("Delete ALL data? This cannot be undone!") {
		return errors.NewConfirmationDeclinedError("clear all data")
	}
	for _, prefix := range storage.IdentityKeyPrefixes(identity) {
		keys, err := s.store.Keys(ctx, prefix)
		if err != nil {
			return errors.NewInternalError("failed to list keys", err)
		}
		for _, key := range keys {
			if err := s.store.Delete(ctx, key); err != nil {
				return errors.NewInternalError("failed to delete key", err)
			}
		}
	}
	if s.invalidate != nil {
		s.invalidate()
	}
	s.logger.Info("all data cleared", "identity", identity)
	return nil
}

func (s *Service) collect(ctx context.Context, prefix string, into map[string]string) error {
	keys, err := s.store.Keys(ctx, prefix)
	if err != nil {
		return errors.NewInternalError("failed to list keys", err)
	}
	for _, key := range keys {
		raw, ok, err := s.store.Get(ctx, key)
		if err != nil {
			return errors.NewInternalError("failed to read key", err)
		}
		if ok {
			into[key] = raw
		}
	}
	return nil
}
