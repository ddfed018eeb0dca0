// Package handlers wires the domain services to an HTTP surface. Every
// endpoint is scoped by an identity header and, where applicable, a period
// query parameter.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hirosato/bookkeeper/internal/api/middleware"
	"github.com/hirosato/bookkeeper/internal/api/response"
	"github.com/hirosato/bookkeeper/internal/common/config"
	"github.com/hirosato/bookkeeper/internal/domain/backup"
	"github.com/hirosato/bookkeeper/internal/domain/errors"
	"github.com/hirosato/bookkeeper/internal/domain/importer"
	"github.com/hirosato/bookkeeper/internal/domain/ledger"
	"github.com/hirosato/bookkeeper/internal/domain/period"
	"github.com/hirosato/bookkeeper/internal/domain/report"
)

// Handler holds the services every endpoint dispatches into
type Handler struct {
	cfg      *config.Config
	ledger   *ledger.Service
	periods  *period.Service
	reports  *report.Service
	importer *importer.Service
	backups  *backup.Service
	logger   *slog.Logger
}

// NewHandler creates a handler over the given services
func NewHandler(cfg *config.Config, ledgerSvc *ledger.Service, periodSvc *period.Service, reportSvc *report.Service, importSvc *importer.Service, backupSvc *backup.Service, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		ledger:   ledgerSvc,
		periods:  periodSvc,
		reports:  reportSvc,
		importer: importSvc,
		backups:  backupSvc,
		logger:   logger,
	}
}

// Routes builds the full router, middleware included
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.NewLoggingMiddleware(h.logger).Handle)
	r.Use(middleware.NewRecoveryMiddleware(h.logger).Handle)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Post("/bulk-review", h.BulkReview)
			r.Post("/bulk-delete", h.BulkDelete)
			r.Post("/import", h.ImportTransactions)
			r.Post("/{id}/review", h.ToggleReview)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		r.Route("/periods/{period}", func(r chi.Router) {
			r.Get("/status", h.PeriodStatus)
			r.Post("/close", h.ClosePeriod)
			r.Post("/reopen", h.ReopenPeriod)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", h.Summary)
			r.Get("/income-statement", h.IncomeStatement)
			r.Get("/cash-flow", h.CashFlow)
			r.Get("/category-analysis", h.CategoryAnalysis)
			r.Get("/comparison", h.Comparison)
			r.Get("/tax/{year}", h.TaxSummary)
		})

		r.Route("/business", func(r chi.Router) {
			r.Get("/", h.GetBusinessInfo)
			r.Put("/", h.UpdateBusinessInfo)
		})

		r.Route("/backup", func(r chi.Router) {
			r.Get("/export", h.ExportBackup)
			r.Post("/import", h.ImportBackup)
			r.Get("/status", h.BackupStatus)
			r.Post("/dismiss-warning", h.DismissBackupWarning)
		})
	})

	return r
}

// identity resolves the identity for a request, falling back to the
// configured default when no X-Identity header is present
func (h *Handler) identity(r *http.Request) string {
	if id := r.Header.Get("X-Identity"); id != "" {
		return id
	}
	return h.cfg.Identity
}

// periodParam resolves the period for a request, falling back to the
// configured default period
func (h *Handler) periodParam(r *http.Request) (string, error) {
	p := r.URL.Query().Get("period")
	if p == "" {
		p = h.cfg.Period
	}
	if err := config.ValidatePeriod(p); err != nil {
		return "", errors.NewValidationError(err.Error())
	}
	return p, nil
}

func requestID(r *http.Request) string {
	return middleware.GetRequestID(r.Context())
}

// ListTransactions returns the live transactions of a period, optionally
// filtered by search, type, category and review state
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	p, err := h.periodParam(r)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	snap, err := h.ledger.Load(r.Context(), h.identity(r), p)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	q := r.URL.Query()
	filter := ledger.Filter{
		Search:   q.Get("search"),
		Type:     ledger.TransactionType(q.Get("type")),
		Category: q.Get("category"),
		Reviewed: ledger.ReviewFilter(q.Get("reviewed")),
	}
	txns := ledger.ApplyFilters(snap.Transactions, filter)

	response.WriteOK(w, map[string]interface{}{
		"period":       p,
		"transactions": txns,
		"status":       snap.Status,
	}, requestID(r))
}

// CreateTransaction adds a transaction to a period
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	p, err := h.periodParam(r)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	var req ledger.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "invalid request body", requestID(r))
		return
	}

	txn, err := h.ledger.Create(r.Context(), h.identity(r), p, req)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteCreated(w, txn, requestID(r))
}

// ToggleReview flips the reviewed flag of a transaction
func (h *Handler) ToggleReview(w http.ResponseWriter, r *http.Request) {
	p, err := h.periodParam(r)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	txn, err := h.ledger.ToggleReview(r.Context(), h.identity(r), p, chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, txn, requestID(r))
}

// DeleteTransaction tombstones a single transaction
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	p, err := h.periodParam(r)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	if err := h.ledger.Delete(r.Context(), h.identity(r), p, chi.URLParam(r, "id")); err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteNoContent(w)
}

type bulkRequest struct {
	IDs []string `json:"ids"`
}

// BulkReview marks a set of transactions reviewed
func (h *Handler) BulkReview(w http.ResponseWriter, r *http.Request) {
	p, err := h.periodParam(r)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "invalid request body", requestID(r))
		return
	}

	updated, err := h.ledger.BulkReview(r.Context(), h.identity(r), p, req.IDs)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, map[string]int{"updated": updated}, requestID(r))
}

// BulkDelete tombstones a set of transactions
func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	p, err := h.periodParam(r)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "invalid request body", requestID(r))
		return
	}

	deleted, err := h.ledger.BulkDelete(r.Context(), h.identity(r), p, req.IDs)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, map[string]int{"deleted": deleted}, requestID(r))
}

type importRequest struct {
	Rows              [][]string `json:"rows"`
	SuggestCategories bool       `json:"suggestCategories"`
}

// ImportTransactions normalizes tabular rows into the period's ledger
func (h *Handler) ImportTransactions(w http.ResponseWriter, r *http.Request) {
	p, err := h.periodParam(r)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteValidationError(w, "invalid request body", requestID(r))
		return
	}

	result, err := h.importer.ImportRows(r.Context(), h.identity(r), p, req.Rows, req.SuggestCategories)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, result, requestID(r))
}

// PeriodStatus reports whether a period is open or closed
func (h *Handler) PeriodStatus(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "period")
	if err := config.ValidatePeriod(p); err != nil {
		response.WriteValidationError(w, err.Error(), requestID(r))
		return
	}

	status, err := h.periods.Status(r.Context(), h.identity(r), p)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, status, requestID(r))
}

// ClosePeriod locks a period against modification
func (h *Handler) ClosePeriod(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "period")
	if err := config.ValidatePeriod(p); err != nil {
		response.WriteValidationError(w, err.Error(), requestID(r))
		return
	}

	if err := h.periods.Close(r.Context(), h.identity(r), p); err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, map[string]bool{"closed": true}, requestID(r))
}

// ReopenPeriod unlocks a closed period
func (h *Handler) ReopenPeriod(w http.ResponseWriter, r *http.Request) {
	p := chi.URLParam(r, "period")
	if err := config.ValidatePeriod(p); err != nil {
		response.WriteValidationError(w, err.Error(), requestID(r))
		return
	}

	if err := h.periods.Reopen(r.Context(), h.identity(r), p); err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, map[string]bool{"closed": false}, requestID(r))
}

// Summary returns the headline figures for a period
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	p, err := h.periodParam(r)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	snap, err := h.ledger.Load(r.Context(), h.identity(r), p)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, report.Summarize(snap.Transactions), requestID(r))
}

// IncomeStatement returns the income statement for a period
func (h *Handler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	h.statement(w, r, report.IncomeStatement)
}

// CashFlow returns the cash flow statement for a period
func (h *Handler) CashFlow(w http.ResponseWriter, r *http.Request) {
	h.statement(w, r, report.CashFlow)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request, build func([]ledger.Transaction, string) *report.Statement) {
	p, err := h.periodParam(r)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	snap, err := h.ledger.Load(r.Context(), h.identity(r), p)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, build(ledger.Reviewed(snap.Transactions), p), requestID(r))
}

// CategoryAnalysis returns per-category expense shares for a period
func (h *Handler) CategoryAnalysis(w http.ResponseWriter, r *http.Request) {
	p, err := h.periodParam(r)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	snap, err := h.ledger.Load(r.Context(), h.identity(r), p)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, report.CategoryAnalysis(ledger.Reviewed(snap.Transactions), p), requestID(r))
}

// Comparison compares two periods' reviewed figures
func (h *Handler) Comparison(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if config.ValidatePeriod(from) != nil || config.ValidatePeriod(to) != nil {
		response.WriteValidationError(w, "from and to must be valid YYYY-MM periods", requestID(r))
		return
	}

	cmp, err := h.reports.Comparison(r.Context(), h.identity(r), from, to)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, cmp, requestID(r))
}

// TaxSummary returns the annual tax estimate
func (h *Handler) TaxSummary(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1900 || year > 9999 {
		response.WriteValidationError(w, "year must be a four digit number", requestID(r))
		return
	}

	tax, err := h.reports.TaxSummary(r.Context(), h.identity(r), year)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, tax, requestID(r))
}

// GetBusinessInfo returns the stored business details
func (h *Handler) GetBusinessInfo(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ledger.Load(r.Context(), h.identity(r), h.cfg.Period)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, snap.Business, requestID(r))
}

// UpdateBusinessInfo replaces the stored business details
func (h *Handler) UpdateBusinessInfo(w http.ResponseWriter, r *http.Request) {
	var info ledger.BusinessInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		response.WriteValidationError(w, "invalid request body", requestID(r))
		return
	}

	if err := h.ledger.UpdateBusinessInfo(r.Context(), h.identity(r), info); err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, info, requestID(r))
}

// ExportBackup returns the full data bundle for the identity
func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.backups.Export(r.Context(), h.identity(r))
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	if err := h.backups.RecordBackup(r.Context()); err != nil {
		h.logger.Warn("failed to record backup date", "error", err)
	}

	response.WriteJSON(w, http.StatusOK, bundle)
}

// ImportBackup restores a previously exported bundle
func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	var bundle backup.Bundle
	if err := json.NewDecoder(r.Body).Decode(&bundle); err != nil {
		response.WriteError(w, errors.NewParseError("invalid backup bundle", err), requestID(r))
		return
	}

	if err := h.backups.Import(r.Context(), h.identity(r), &bundle); err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, map[string]bool{"restored": true}, requestID(r))
}

// BackupStatus reports how stale the last backup is
func (h *Handler) BackupStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := h.ledger.Load(r.Context(), h.identity(r), h.cfg.Period)
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	status, err := h.backups.Status(r.Context(), len(snap.Transactions))
	if err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteOK(w, status, requestID(r))
}

// DismissBackupWarning suppresses the backup reminder
func (h *Handler) DismissBackupWarning(w http.ResponseWriter, r *http.Request) {
	if err := h.backups.DismissWarning(r.Context()); err != nil {
		response.WriteError(w, err, requestID(r))
		return
	}

	response.WriteNoContent(w)
}
