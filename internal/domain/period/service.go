// Package period manages the per-period lock. Closing a period freezes every
// mutation path for it; reports stay readable.
package period

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hirosato/bookkeeper/internal/domain/errors"
	"github.com/hirosato/bookkeeper/internal/domain/ledger"
)

// Service provides the period lifecycle.
type Service struct {
	repo    ledger.Repository
	confirm ledger.Confirmer
	logger  *slog.Logger
}

// NewService creates a new period lifecycle service
func NewService(repo ledger.Repository, confirm ledger.Confirmer, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		confirm: confirm,
		logger:  logger,
	}
}

// Close locks a period. Unconditional and idempotent; closing an already
// closed period refreshes ClosedAt.
func (s *Service) Close(ctx context.Context, identity, period string) error {
	now := time.Now().UTC()
	status := ledger.PeriodStatus{Closed: true, ClosedAt: &now}
	if err := s.repo.SavePeriodStatus(ctx, identity, period, status); err != nil {
		return err
	}
	s.logger.Info("period closed", "period", period)
	return nil
}

// Reopen unlocks a period behind the injected confirmation capability.
func (s *Service) Reopen(ctx context.Context, identity, period string) error {
	prompt := fmt.Sprintf("Reopen period %s? This will allow modifications again.", period)
	if !s.confirm.Confirm(prompt) {
		return errors.NewConfirmationDeclinedError("reopen")
	}
	if err := s.repo.SavePeriodStatus(ctx, identity, period, ledger.PeriodStatus{Closed: false}); err != nil {
		return err
	}
	s.logger.Info("period reopened", "period", period)
	return nil
}

// Status returns the lock state of a period, defaulting to open.
func (s *Service) Status(ctx context.Context, identity, period string) (ledger.PeriodStatus, error) {
	return s.repo.LoadPeriodStatus(ctx, identity, period)
}
