package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"github.com/hirosato/bookkeeper/internal/domain/errors"
)

// Service provides the transaction lifecycle: creation, review toggling,
// soft deletion and the bulk variants, every mutation gated by the period
// lock. Each operation is a complete load-modify-save cycle; rejected
// operations leave the stored ledger untouched.
type Service struct {
	repo    Repository
	confirm Confirmer
	logger  *slog.Logger
}

// NewService creates a new transaction lifecycle service
func NewService(repo Repository, confirm Confirmer, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		confirm: confirm,
		logger:  logger,
	}
}

// Load reads the ledger state for a period: live transactions, period status
// and business info. Absent storage yields empty defaults.
func (s *Service) Load(ctx context.Context, identity, period string) (*Snapshot, error) {
	txns, err := s.repo.LoadTransactions(ctx, identity, period)
	if err != nil {
		return nil, err
	}
	status, err := s.repo.LoadPeriodStatus(ctx, identity, period)
	if err != nil {
		return nil, err
	}
	business, err := s.repo.LoadBusinessInfo(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Identity:     identity,
		Period:       period,
		Transactions: Live(txns),
		Status:       status,
		Business:     business,
	}, nil
}

// Create adds a transaction to an open period. The amount is stored as its
// absolute value; the category defaults to "Uncategorized".
func (s *Service) Create(ctx context.Context, identity, period string, req CreateTransactionRequest) (*Transaction, error) {
	if err := s.ensureOpen(ctx, identity, period); err != nil {
		return nil, err
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid transaction date %q, want YYYY-MM-DD", req.Date))
	}
	txn, err := NewTransaction(req, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	txns, err := s.repo.LoadTransactions(ctx, identity, period)
	if err != nil {
		return nil, err
	}
	txns = append(txns, *txn)
	if err := s.repo.SaveTransactions(ctx, identity, period, txns); err != nil {
		return nil, err
	}

	s.logger.Info("transaction created", "id", txn.ID, "period", period, "type", txn.Type)
	return txn, nil
}

// ToggleReview flips the reviewed flag of a transaction in an open period.
func (s *Service) ToggleReview(ctx context.Context, identity, period, id string) (*Transaction, error) {
	if err := s.ensureOpen(ctx, identity, period); err != nil {
		return nil, err
	}
	txns, err := s.repo.LoadTransactions(ctx, identity, period)
	if err != nil {
		return nil, err
	}
	i := indexOf(txns, id)
	if i < 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("transaction %s not found", id))
	}
	txns[i].Reviewed = !txns[i].Reviewed
	if err := s.repo.SaveTransactions(ctx, identity, period, txns); err != nil {
		return nil, err
	}
	updated := txns[i]
	return &updated, nil
}

// Delete tombstones a transaction. Reviewed transactions can never be
// deleted; the record stays in the persisted list with Deleted set so
// subsequent loads filter it out.
func (s *Service) Delete(ctx context.Context, identity, period, id string) error {
	if err := s.ensureOpen(ctx, identity, period); err != nil {
		return err
	}
	txns, err := s.repo.LoadTransactions(ctx, identity, period)
	if err != nil {
		return err
	}
	i := indexOf(txns, id)
	if i < 0 {
		return errors.NewNotFoundError(fmt.Sprintf("transaction %s not found", id))
	}
	if txns[i].Reviewed {
		return errors.NewReviewedImmutableError(1)
	}
	if !s.confirm.Confirm("Are you sure you want to delete this transaction?") {
		return errors.NewConfirmationDeclinedError("delete")
	}
	txns[i].Deleted = true
	if err := s.repo.SaveTransactions(ctx, identity, period, txns); err != nil {
		return err
	}
	s.logger.Info("transaction deleted", "id", id, "period", period)
	return nil
}

// BulkReview marks every listed transaction reviewed. Already-reviewed and
// unknown ids are skipped, not toggled. The period lock is checked once for
// the whole batch. Returns the number of transactions updated.
func (s *Service) BulkReview(ctx context.Context, identity, period string, ids []string) (int, error) {
	if err := s.ensureOpen(ctx, identity, period); err != nil {
		return 0, err
	}
	txns, err := s.repo.LoadTransactions(ctx, identity, period)
	if err != nil {
		return 0, err
	}
	wanted := idSet(ids)
	updated := 0
	for i := range txns {
		if !wanted[txns[i].ID] || txns[i].Deleted || txns[i].Reviewed {
			continue
		}
		txns[i].Reviewed = true
		updated++
	}
	if updated == 0 {
		return 0, nil
	}
	if err := s.repo.SaveTransactions(ctx, identity, period, txns); err != nil {
		return 0, err
	}
	s.logger.Info("bulk review", "period", period, "updated", updated)
	return updated, nil
}

// BulkDelete tombstones every listed transaction in one atomic write. If any
// target is reviewed the whole operation is rejected with the blocking count
// and nothing is written. Returns the number of transactions deleted.
func (s *Service) BulkDelete(ctx context.Context, identity, period string, ids []string) (int, error) {
	if err := s.ensureOpen(ctx, identity, period); err != nil {
		return 0, err
	}
	txns, err := s.repo.LoadTransactions(ctx, identity, period)
	if err != nil {
		return 0, err
	}
	wanted := idSet(ids)
	var targets []int
	blocking := 0
	for i := range txns {
		if !wanted[txns[i].ID] || txns[i].Deleted {
			continue
		}
		if txns[i].Reviewed {
			blocking++
			continue
		}
		targets = append(targets, i)
	}
	if blocking > 0 {
		return 0, errors.NewReviewedImmutableError(blocking)
	}
	if len(targets) == 0 {
		return 0, nil
	}
	if !s.confirm.Confirm(fmt.Sprintf("Delete %d transactions?", len(targets))) {
		return 0, errors.NewConfirmationDeclinedError("bulk delete")
	}
	for _, i := range targets {
		txns[i].Deleted = true
	}
	if err := s.repo.SaveTransactions(ctx, identity, period, txns); err != nil {
		return 0, err
	}
	s.logger.Info("bulk delete", "period", period, "deleted", len(targets))
	return len(targets), nil
}

// AppendBatch validates and appends a batch of transactions with a single
// save. Used by the import path; the lock is checked once up front so a
// closed period rejects the whole batch before anything is built.
func (s *Service) AppendBatch(ctx context.Context, identity, period string, reqs []CreateTransactionRequest) (int, error) {
	if err := s.ensureOpen(ctx, identity, period); err != nil {
		return 0, err
	}
	if len(reqs) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	txns, err := s.repo.LoadTransactions(ctx, identity, period)
	if err != nil {
		return 0, err
	}
	for _, req := range reqs {
		txn, err := NewTransaction(req, now)
		if err != nil {
			return 0, err
		}
		txns = append(txns, *txn)
	}
	if err := s.repo.SaveTransactions(ctx, identity, period, txns); err != nil {
		return 0, err
	}
	s.logger.Info("batch appended", "period", period, "count", len(reqs))
	return len(reqs), nil
}

// UpdateBusinessInfo persists the identity's business details.
func (s *Service) UpdateBusinessInfo(ctx context.Context, identity string, info BusinessInfo) error {
	return s.repo.SaveBusinessInfo(ctx, identity, info)
}

// NewTransaction builds a Transaction from a creation request, assigning a
// fresh identifier and the creation timestamp. The amount is forced to its
// absolute value. The date is stored as given; the import path deliberately
// passes through dates it could not normalize, so only Create enforces the
// YYYY-MM-DD shape.
func NewTransaction(req CreateTransactionRequest, now time.Time) (*Transaction, error) {
	if !req.Type.Valid() {
		return nil, errors.NewValidationError(fmt.Sprintf("invalid transaction type %q", req.Type))
	}
	category := req.Category
	if category == "" {
		category = "Uncategorized"
	}
	return &Transaction{
		ID:            ulid.Make().String(),
		Date:          req.Date,
		Type:          req.Type,
		Amount:        req.Amount.Abs(),
		Category:      category,
		Description:   req.Description,
		Vendor:        req.Vendor,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Reviewed:      req.Reviewed,
		Deleted:       false,
		CreatedAt:     now,
	}, nil
}

// EnsureOpen returns PeriodLockedError when the period is closed. Callers
// that do expensive work before their first mutation (the importer) use it
// to reject the whole operation up front.
func (s *Service) EnsureOpen(ctx context.Context, identity, period string) error {
	return s.ensureOpen(ctx, identity, period)
}

func (s *Service) ensureOpen(ctx context.Context, identity, period string) error {
	status, err := s.repo.LoadPeriodStatus(ctx, identity, period)
	if err != nil {
		return err
	}
	if status.Closed {
		return errors.NewPeriodLockedError(period)
	}
	return nil
}

func indexOf(txns []Transaction, id string) int {
	for i := range txns {
		if txns[i].ID == id && !txns[i].Deleted {
			return i
		}
	}
	return -1
}

func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
